package session

import "unicode/utf8"

// TextBuffer keeps the segment being typed and the segments already
// committed, in commit order.
type TextBuffer struct {
	current   string
	history   []string
	length    int
	composing bool
}

// SetCurrent replaces the in-progress segment.
func (b *TextBuffer) SetCurrent(text string) {
	b.current = text
	b.recount()
}

// AppendCurrent extends the in-progress segment.
func (b *TextBuffer) AppendCurrent(text string) {
	b.current += text
	b.recount()
}

// TrimCurrent drops the last rune of the in-progress segment and returns it.
func (b *TextBuffer) TrimCurrent() (rune, bool) {
	if b.current == "" {
		return 0, false
	}
	r, size := utf8.DecodeLastRuneInString(b.current)
	b.current = b.current[:len(b.current)-size]
	b.recount()
	return r, true
}

// ResetCurrent clears the in-progress segment.
func (b *TextBuffer) ResetCurrent() {
	b.current = ""
	b.recount()
}

// Current returns the in-progress segment.
func (b *TextBuffer) Current() string {
	return b.current
}

// Commit moves the in-progress segment to the history.
func (b *TextBuffer) Commit() {
	b.history = append(b.history, b.current)
	b.ResetCurrent()
}

// PopLast removes and returns the last committed segment, or "" when the
// history is empty.
func (b *TextBuffer) PopLast() string {
	if len(b.history) == 0 {
		return ""
	}
	last := b.history[len(b.history)-1]
	b.history = b.history[:len(b.history)-1]
	return last
}

// Last returns the last committed segment.
func (b *TextBuffer) Last() (string, bool) {
	if len(b.history) == 0 {
		return "", false
	}
	return b.history[len(b.history)-1], true
}

// HistoryAt returns the committed segment at i.
func (b *TextBuffer) HistoryAt(i int) (string, bool) {
	if i < 0 || i >= len(b.history) {
		return "", false
	}
	return b.history[i], true
}

// History returns a copy of the committed segments.
func (b *TextBuffer) History() []string {
	return append([]string(nil), b.history...)
}

// HistoryLen returns the number of committed segments.
func (b *TextBuffer) HistoryLen() int {
	return len(b.history)
}

// Len returns the rune length of the in-progress segment.
func (b *TextBuffer) Len() int {
	return b.length
}

// SetComposing records whether an input method is mid-composition.
func (b *TextBuffer) SetComposing(v bool) {
	b.composing = v
}

// Composing reports whether an input method is mid-composition.
func (b *TextBuffer) Composing() bool {
	return b.composing
}

// ResetHistory clears the committed segments.
func (b *TextBuffer) ResetHistory() {
	b.history = nil
	b.recount()
}

// Reset clears both the in-progress segment and the history.
func (b *TextBuffer) Reset() {
	b.current = ""
	b.history = nil
	b.composing = false
	b.recount()
}

func (b *TextBuffer) recount() {
	b.length = utf8.RuneCountInString(b.current)
}

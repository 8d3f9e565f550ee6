package session

// Second is the keypress bucket for one elapsed second of a test.
type Second struct {
	Count  int
	Errors int
	Words  []int
	AFK    bool
}

func newSecond() Second {
	return Second{AFK: true}
}

func (s Second) clone() Second {
	s.Words = append([]int(nil), s.Words...)
	return s
}

// Accuracy counts correct and incorrect keystrokes.
type Accuracy struct {
	Correct   int
	Incorrect int
}

// Metrics aggregates per-second buckets, accuracy, missed words and the
// speed histories of a test.
type Metrics struct {
	seconds  []Second
	current  Second
	accuracy Accuracy
	missed   map[string]int

	wpm   []float64
	raw   []float64
	burst []float64
}

// NewMetrics returns empty metrics with a fresh current bucket.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.Reset()
	return m
}

// RecordKeypress counts a keypress in the current second.
func (m *Metrics) RecordKeypress() {
	m.current.Count++
}

// RecordError counts an error in the current second.
func (m *Metrics) RecordError() {
	m.current.Errors++
}

// MarkNotAFK flags the current second as active.
func (m *Metrics) MarkNotAFK() {
	m.current.AFK = false
}

// RecordWordTouch notes that the word at wordIndex was typed into during the
// current second.
func (m *Metrics) RecordWordTouch(wordIndex int) {
	for _, w := range m.current.Words {
		if w == wordIndex {
			return
		}
	}
	m.current.Words = append(m.current.Words, wordIndex)
}

// FinalizeSecond closes the current bucket and opens a new idle one.
func (m *Metrics) FinalizeSecond() {
	m.seconds = append(m.seconds, m.current)
	m.current = newSecond()
}

// RecordAccuracy counts a keystroke as correct or incorrect.
func (m *Metrics) RecordAccuracy(correct bool) {
	if correct {
		m.accuracy.Correct++
	} else {
		m.accuracy.Incorrect++
	}
}

// RecordMissedWord counts one more miss of word.
func (m *Metrics) RecordMissedWord(word string) {
	m.missed[word]++
}

// PushWPM appends to the wpm history.
func (m *Metrics) PushWPM(v float64) {
	m.wpm = append(m.wpm, v)
}

// PushRaw appends to the raw speed history.
func (m *Metrics) PushRaw(v float64) {
	m.raw = append(m.raw, v)
}

// PushBurst stores the burst speed of the word at wordIndex. A word position
// that already has a burst is overwritten; any other position is appended.
func (m *Metrics) PushBurst(speed float64, wordIndex int) {
	if wordIndex >= 0 && wordIndex < len(m.burst) {
		m.burst[wordIndex] = speed
		return
	}
	m.burst = append(m.burst, speed)
}

// Seconds returns a copy of the finalized buckets.
func (m *Metrics) Seconds() []Second {
	out := make([]Second, len(m.seconds))
	for i, s := range m.seconds {
		out[i] = s.clone()
	}
	return out
}

// Current returns a copy of the bucket being filled.
func (m *Metrics) Current() Second {
	return m.current.clone()
}

// Accuracy returns the accuracy counters.
func (m *Metrics) Accuracy() Accuracy {
	return m.accuracy
}

// MissedWords returns a copy of the missed-word counts.
func (m *Metrics) MissedWords() map[string]int {
	out := make(map[string]int, len(m.missed))
	for k, v := range m.missed {
		out[k] = v
	}
	return out
}

// WPMHistory returns a copy of the wpm history.
func (m *Metrics) WPMHistory() []float64 {
	return append([]float64(nil), m.wpm...)
}

// RawHistory returns a copy of the raw speed history.
func (m *Metrics) RawHistory() []float64 {
	return append([]float64(nil), m.raw...)
}

// BurstHistory returns a copy of the burst history.
func (m *Metrics) BurstHistory() []float64 {
	return append([]float64(nil), m.burst...)
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.seconds = nil
	m.current = newSecond()
	m.accuracy = Accuracy{}
	m.missed = map[string]int{}
	m.wpm = nil
	m.raw = nil
	m.burst = nil
}

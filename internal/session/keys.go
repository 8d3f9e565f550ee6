package session

// DefaultKeys lists the physical key codes whose timings are tracked: the
// number row, the three letter rows with their punctuation, and space.
var DefaultKeys = []string{
	"Backquote", "Digit1", "Digit2", "Digit3", "Digit4", "Digit5", "Digit6",
	"Digit7", "Digit8", "Digit9", "Digit0", "Minus", "Equal",
	"KeyQ", "KeyW", "KeyE", "KeyR", "KeyT", "KeyY", "KeyU", "KeyI", "KeyO",
	"KeyP", "BracketLeft", "BracketRight", "Backslash",
	"KeyA", "KeyS", "KeyD", "KeyF", "KeyG", "KeyH", "KeyJ", "KeyK", "KeyL",
	"Semicolon", "Quote",
	"KeyZ", "KeyX", "KeyC", "KeyV", "KeyB", "KeyN", "KeyM", "Comma", "Period",
	"Slash",
	"Space",
}

// KeySet is an ordered allow-list of key codes.
type KeySet struct {
	order []string
	index map[string]struct{}
}

// NewKeySet builds a KeySet. Duplicates and empty codes are dropped.
func NewKeySet(codes ...string) KeySet {
	ks := KeySet{index: make(map[string]struct{}, len(codes))}
	for _, code := range codes {
		if code == "" {
			continue
		}
		if _, ok := ks.index[code]; ok {
			continue
		}
		ks.index[code] = struct{}{}
		ks.order = append(ks.order, code)
	}
	return ks
}

// DefaultKeySet returns the set built from DefaultKeys.
func DefaultKeySet() KeySet {
	return NewKeySet(DefaultKeys...)
}

// Has reports whether code is tracked.
func (k KeySet) Has(code string) bool {
	_, ok := k.index[code]
	return ok
}

// Len returns the number of tracked codes.
func (k KeySet) Len() int {
	return len(k.order)
}

// Codes returns the tracked codes in order.
func (k KeySet) Codes() []string {
	return append([]string(nil), k.order...)
}

// KeyCodeForRune maps a character typed on a US layout to the physical key
// code that produces it. The second result is false for characters outside
// the tracked rows.
func KeyCodeForRune(r rune) (string, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return "Key" + string(r-'a'+'A'), true
	case r >= 'A' && r <= 'Z':
		return "Key" + string(r), true
	case r >= '0' && r <= '9':
		return "Digit" + string(r), true
	}
	code, ok := shiftedKeys[r]
	return code, ok
}

var shiftedKeys = map[rune]string{
	'`': "Backquote", '~': "Backquote",
	'!': "Digit1", '@': "Digit2", '#': "Digit3", '$': "Digit4", '%': "Digit5",
	'^': "Digit6", '&': "Digit7", '*': "Digit8", '(': "Digit9", ')': "Digit0",
	'-': "Minus", '_': "Minus", '=': "Equal", '+': "Equal",
	'[': "BracketLeft", '{': "BracketLeft", ']': "BracketRight", '}': "BracketRight",
	'\\': "Backslash", '|': "Backslash",
	';': "Semicolon", ':': "Semicolon", '\'': "Quote", '"': "Quote",
	',': "Comma", '<': "Comma", '.': "Period", '>': "Period",
	'/': "Slash", '?': "Slash",
	' ': "Space",
}

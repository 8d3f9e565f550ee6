package wordlist

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxWordLen bounds the length of a practice word in runes.
const MaxWordLen = 16

// Usable returns the words from list that can be typed in a test for lang,
// in their original order with duplicates removed.
func Usable(list []string, lang string) []string {
	keep := typeable
	if strings.EqualFold(lang, "en") {
		keep = lowerASCII
	}
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, word := range list {
		if n := utf8.RuneCountInString(word); n == 0 || n > MaxWordLen {
			continue
		}
		if !keep(word) {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, word)
	}
	return out
}

func lowerASCII(word string) bool {
	for i := 0; i < len(word); i++ {
		if word[i] < 'a' || word[i] > 'z' {
			return false
		}
	}
	return true
}

// typeable rejects separators and invisible runes; a space would split the word.
func typeable(word string) bool {
	for _, r := range word {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

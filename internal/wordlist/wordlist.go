// Package wordlist loads practice word lists and filters them per language.
package wordlist

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

//go:embed english.txt
var englishWords string

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return ReadWords(file)
}

// ReadWords reads one word per line, skipping blank lines.
func ReadWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}

// Embedded returns the built-in English word list.
func Embedded() []string {
	words, err := ReadWords(strings.NewReader(englishWords))
	if err != nil {
		return nil
	}
	return words
}

// LoadOrEmbedded loads path, falling back to the built-in list for English
// when the file does not exist. The returned source names where words came from.
func LoadOrEmbedded(path, lang string) (words []string, source string, err error) {
	words, err = LoadWords(path)
	if err == nil {
		return words, path, nil
	}
	if errors.Is(err, fs.ErrNotExist) && strings.EqualFold(lang, "en") {
		return Embedded(), "builtin:en", nil
	}
	return nil, "", fmt.Errorf("load word list %s: %w", path, err)
}

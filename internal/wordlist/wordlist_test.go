package wordlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadWordsSkipsBlankLines(t *testing.T) {
	words, err := ReadWords(strings.NewReader("one\n\n  two  \n"))
	if err != nil {
		t.Fatalf("ReadWords failed: %v", err)
	}
	if len(words) != 2 || words[0] != "one" || words[1] != "two" {
		t.Fatalf("unexpected words %v", words)
	}
	if _, err := ReadWords(strings.NewReader("\n\n")); err == nil {
		t.Fatalf("expected error for empty list")
	}
}

func TestEmbeddedPassesEnglishFilter(t *testing.T) {
	words := Embedded()
	if len(words) < 100 {
		t.Fatalf("expected embedded list, got %d words", len(words))
	}
	if usable := Usable(words, "en"); len(usable) != len(words) {
		t.Fatalf("expected every embedded word to be usable, got %d of %d", len(usable), len(words))
	}
}

func TestLoadOrEmbedded(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "en.txt")
	if err := os.WriteFile(path, []byte("alpha\nbeta\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	words, source, err := LoadOrEmbedded(path, "en")
	if err != nil || source != path || len(words) != 2 {
		t.Fatalf("unexpected load result %v %q %v", words, source, err)
	}

	missing := filepath.Join(dir, "missing.txt")
	words, source, err = LoadOrEmbedded(missing, "en")
	if err != nil || source != "builtin:en" || len(words) == 0 {
		t.Fatalf("expected builtin fallback, got %d words %q %v", len(words), source, err)
	}

	if _, _, err := LoadOrEmbedded(missing, "ru"); err == nil {
		t.Fatalf("expected error without builtin list")
	}
}

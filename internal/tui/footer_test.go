package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/keytrace/internal/recorder"
)

func TestRenderFooterFormats(t *testing.T) {
	rec := recorder.New(recorder.Options{})
	for _, r := range "ab" {
		rec.Input(r, r, 0)
	}
	rec.CommitWord("ab", 0)
	m := &Model{
		rec:     rec,
		target:  []string{"ab", "cd"},
		hasLast: true,
		lastWPM: 72.4,
		lastAcc: 0.978,
		allWPM:  68.1,
		allAcc:  0.969,
	}
	out := m.renderFooter()
	if out == "" {
		t.Fatalf("expected footer output")
	}
	if !containsAll(out, []string{"Progress 50%", "Last 72.4 WPM", "97.8%", "All-time 68.1 WPM", "96.9%"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
	if strings.Contains(out, "timings frozen") {
		t.Fatalf("unexpected overflow notice: %s", out)
	}

	rec.DeclareOverflow()
	if out := m.renderFooter(); !strings.Contains(out, "timings frozen") {
		t.Fatalf("expected overflow notice: %s", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// glyph is one rendered rune with its display width.
type glyph struct {
	text  string
	width int
	space bool
}

func newGlyph(style lipgloss.Style, r rune) glyph {
	return glyph{
		text:  style.Render(string(r)),
		width: runewidth.RuneWidth(r),
		space: r == ' ',
	}
}

// buildStyledWords renders the target words against committed words and the
// word in progress. Skipped characters of committed words show as incorrect,
// extra typed characters are appended after the target word.
func buildStyledWords(targets, committed []string, current string) []glyph {
	out := make([]glyph, 0, len(targets)*6)
	cursorWord := len(committed)
	for i, word := range targets {
		target := []rune(word)
		if i > 0 {
			style := pendingStyle
			if i <= cursorWord {
				style = correctStyle
			}
			prev := []rune(targets[i-1])
			if i-1 == cursorWord && len([]rune(current)) >= len(prev) {
				style = style.Underline(true)
			}
			out = append(out, newGlyph(style, ' '))
		}
		switch {
		case i < cursorWord:
			out = appendTyped(out, target, []rune(committed[i]), incorrectStyle, -1)
		case i == cursorWord:
			typed := []rune(current)
			cursor := -1
			if len(typed) < len(target) {
				cursor = len(typed)
			}
			out = appendTyped(out, target, typed, currentWordStyle, cursor)
		default:
			for _, r := range target {
				out = append(out, newGlyph(pendingStyle, r))
			}
		}
	}
	return out
}

func appendTyped(out []glyph, target, typed []rune, untyped lipgloss.Style, cursor int) []glyph {
	for j, r := range target {
		style := untyped
		if j < len(typed) {
			style = incorrectStyle
			if typed[j] == r {
				style = correctStyle
			}
		}
		if j == cursor {
			style = style.Underline(true)
		}
		out = append(out, newGlyph(style, r))
	}
	for j := len(target); j < len(typed); j++ {
		out = append(out, newGlyph(extraStyle, typed[j]))
	}
	return out
}

func renderGlyphs(glyphs []glyph) string {
	var b strings.Builder
	for _, g := range glyphs {
		b.WriteString(g.text)
	}
	return b.String()
}

// splitWords cuts glyphs at separator spaces. The separators are dropped.
func splitWords(glyphs []glyph) [][]glyph {
	var words [][]glyph
	start := 0
	for i, g := range glyphs {
		if g.space {
			words = append(words, glyphs[start:i])
			start = i + 1
		}
	}
	return append(words, glyphs[start:])
}

func glyphsWidth(glyphs []glyph) int {
	total := 0
	for _, g := range glyphs {
		total += g.width
	}
	return total
}

// wrapGlyphs lays words out greedily into lines of at most width cells.
// A break replaces the separator before the word that starts the next line;
// words wider than a line are split.
func wrapGlyphs(glyphs []glyph, width int) string {
	if width <= 0 {
		return renderGlyphs(glyphs)
	}
	var lines []string
	var line []glyph
	lineWidth := 0
	flush := func() {
		lines = append(lines, renderGlyphs(line))
		line, lineWidth = nil, 0
	}
	idx := 0
	for i, word := range splitWords(glyphs) {
		if i > 0 {
			sep := glyphs[idx]
			idx++
			if lineWidth+sep.width+glyphsWidth(word) <= width {
				line = append(line, sep)
				lineWidth += sep.width
			} else if len(line) > 0 {
				flush()
			}
		}
		idx += len(word)
		for _, g := range word {
			if lineWidth+g.width > width && len(line) > 0 {
				flush()
			}
			line = append(line, g)
			lineWidth += g.width
		}
	}
	flush()
	return strings.Join(lines, "\n")
}

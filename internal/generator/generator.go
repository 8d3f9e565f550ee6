// Package generator picks the words of a typing test.
package generator

import (
	"math/rand"
	"sort"
	"time"
	"unicode"
)

// Options controls how drawn words are decorated.
type Options struct {
	CapsPct  float64
	PunctPct float64
	PunctSet []rune
}

// Generator draws test words from a word list.
type Generator struct {
	rnd  *rand.Rand
	opts Options
}

// New returns a Generator seeded with the current time.
func New(opts Options) *Generator {
	return NewSeeded(time.Now().UnixNano(), opts)
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64, opts Options) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed)), opts: opts}
}

// Words draws count words uniformly from list.
func (g *Generator) Words(list []string, count int) []string {
	return g.Weighted(list, count, nil, 0)
}

// Weighted draws count words where each word weighs 1 plus factor times its
// miss count. A word is never drawn twice in a row unless it is the only one.
func (g *Generator) Weighted(list []string, count int, missed map[string]int, factor float64) []string {
	if len(list) == 0 || count <= 0 {
		return nil
	}
	cumulative := make([]float64, len(list))
	total := 0.0
	for i, word := range list {
		total += 1 + max(0, float64(missed[word])*factor)
		cumulative[i] = total
	}

	out := make([]string, 0, count)
	prev := -1
	for len(out) < count {
		idx := min(sort.SearchFloat64s(cumulative, g.rnd.Float64()*total), len(list)-1)
		if idx == prev && len(list) > 1 {
			continue
		}
		prev = idx
		out = append(out, g.decorate(list[idx]))
	}
	return out
}

func (g *Generator) decorate(word string) string {
	if g.opts.CapsPct > 0 && g.rnd.Float64() < g.opts.CapsPct {
		word = capitalize(word)
	}
	if set := g.opts.PunctSet; len(set) > 0 && g.opts.PunctPct > 0 && g.rnd.Float64() < g.opts.PunctPct {
		word += string(set[g.rnd.Intn(len(set))])
	}
	return word
}

func capitalize(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

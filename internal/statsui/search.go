package statsui

import (
	"github.com/sahilm/fuzzy"

	"github.com/verte-zerg/keytrace/internal/model"
)

type wordSource []model.WordCount

func (s wordSource) String(i int) string { return s[i].Word }

func (s wordSource) Len() int { return len(s) }

// filterWords keeps words matching query, best match first. An empty query
// keeps the original order.
func filterWords(words []model.WordCount, query string) []model.WordCount {
	if query == "" {
		return words
	}
	matches := fuzzy.FindFrom(query, wordSource(words))
	out := make([]model.WordCount, 0, len(matches))
	for _, match := range matches {
		out = append(out, words[match.Index])
	}
	return out
}

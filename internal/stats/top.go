package stats

import (
	"sort"

	"github.com/verte-zerg/keytrace/internal/model"
)

// TopWords returns words ordered by count, highest first. n <= 0 keeps all.
func TopWords(counts map[string]int, n int) []model.WordCount {
	if len(counts) == 0 {
		return nil
	}
	items := make([]model.WordCount, 0, len(counts))
	for word, count := range counts {
		items = append(items, model.WordCount{Word: word, Count: count})
	}
	SortWordCounts(items)
	if n > 0 && n < len(items) {
		items = items[:n]
	}
	return items
}

// SortWordCounts orders by count descending, then by word.
func SortWordCounts(items []model.WordCount) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Word < items[j].Word
		}
		return items[i].Count > items[j].Count
	})
}

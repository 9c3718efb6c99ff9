package ui

import "github.com/sahilm/fuzzy"

// FuzzyIndexes returns the indexes of items matching query, best match
// first. An empty query matches everything in the original order.
func FuzzyIndexes(query string, items []string) []int {
	if query == "" {
		idx := make([]int, len(items))
		for i := range items {
			idx[i] = i
		}
		return idx
	}

	matches := fuzzy.Find(query, items)
	idx := make([]int, len(matches))
	for i, match := range matches {
		idx[i] = match.Index
	}
	return idx
}

// ApplyFuzzyFilter returns the items matching query, best match first.
func ApplyFuzzyFilter(query string, items []string) []string {
	idx := FuzzyIndexes(query, items)
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = items[j]
	}
	return out
}

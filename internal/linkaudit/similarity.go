package linkaudit

import (
	"unicode/utf8"

	"github.com/agext/levenshtein"
)

// DefaultSimilarityThreshold is the minimum score a fuzzy suggestion must
// exceed.
const DefaultSimilarityThreshold = 0.6

// Similarity scores two strings in [0, 1] as (maxLen - editDistance) / maxLen
// using single-character insert, delete and substitute edits.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 1
	}
	dist := levenshtein.Distance(a, b, nil)
	return float64(maxLen-dist) / float64(maxLen)
}

// Package suggest finds close matches for misspelled symbol names.
package suggest

import (
	"github.com/hbollon/go-edlib"
)

// DefaultThreshold is the minimum Jaro-Winkler similarity for a suggestion
const DefaultThreshold = 0.85

// Similarity returns the Jaro-Winkler similarity of a and b (0.0-1.0)
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	score, err := edlib.StringsSimilarity(a, b, edlib.JaroWinkler)
	if err != nil {
		return 0.0
	}
	return float64(score)
}

// Closest returns the candidate most similar to target, or "" when none
// reaches threshold. Exact matches are skipped; ties keep the earlier
// candidate.
func Closest(target string, candidates []string, threshold float64) string {
	best, bestScore := "", threshold
	for _, c := range candidates {
		if c == target {
			continue
		}
		if score := Similarity(target, c); score >= bestScore && (best == "" || score > bestScore) {
			best, bestScore = c, score
		}
	}
	return best
}

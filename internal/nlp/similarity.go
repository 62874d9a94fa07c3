package nlp

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// DefaultCutoff is the minimum similarity for a fuzzy match.
const DefaultCutoff = 0.6

// Similarity returns a 0..1 ratio between a and b derived from their edit
// distance, compared case-insensitively. Two empty strings are identical.
func Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// BestMatch returns the candidate most similar to text when its similarity
// reaches cutoff. Ties keep the earliest candidate.
func BestMatch(text string, candidates []string, cutoff float64) (string, bool) {
	best := ""
	bestScore := -1.0

	for _, c := range candidates {
		score := Similarity(text, c)
		if score > bestScore {
			best, bestScore = c, score
		}
	}

	if bestScore < cutoff || best == "" {
		return "", false
	}
	return best, true
}

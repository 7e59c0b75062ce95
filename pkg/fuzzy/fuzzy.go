package fuzzy

import (
	"strings"
	"unicode"
)

// LevenshteinDistance calculates the edit distance between two strings
// This measures how many single-character edits (insertions, deletions, or substitutions)
// are required to change one string into another
func LevenshteinDistance(s1, s2 string) int {
	s1 = normalizeString(s1)
	s2 = normalizeString(s2)

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	if m == 0 {
		return n
	}
	if n == 0 {
		return m
	}

	d := make([][]int, m+1)
	for i := range d {
		d[i] = make([]int, n+1)
	}
	for i := 0; i <= m; i++ {
		d[i][0] = i
	}
	for j := 0; j <= n; j++ {
		d[0][j] = j
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			d[i][j] = min3(
				d[i-1][j]+1,      // deletion
				d[i][j-1]+1,      // insertion
				d[i-1][j-1]+cost, // substitution
			)
		}
	}

	return d[m][n]
}

// Threshold returns the typo tolerance for a query of the given length
func Threshold(query string) int {
	switch n := len([]rune(query)); {
	case n <= 3:
		return 0
	case n <= 5:
		return 1
	case n >= 8:
		return 3
	default:
		return 2
	}
}

// FuzzyMatch checks if query fuzzy-matches text within a given threshold
// threshold is the maximum allowed edit distance
func FuzzyMatch(query, text string, threshold int) bool {
	query = normalizeString(query)
	text = normalizeString(text)
	if query == "" {
		return false
	}

	// Phrases only match verbatim
	if strings.Contains(query, " ") {
		return strings.Contains(" "+text+" ", " "+query+" ")
	}

	for _, word := range Words(text) {
		if word == query {
			return true
		}
		if threshold > 0 && LevenshteinDistance(query, word) <= threshold {
			return true
		}
	}
	return false
}

// RelevanceScore scores how relevant a text is to a query. Every query word
// contributes: exact word matches score highest, then prefixes, then typos.
func RelevanceScore(query, text string) float64 {
	words := Words(text)
	score := 0.0

	for _, q := range Words(query) {
		threshold := Threshold(q)
		best := 0.0
		for _, word := range words {
			switch {
			case word == q:
				best = max(best, 100.0)
			case len(q) >= 3 && strings.HasPrefix(word, q):
				best = max(best, 60.0)
			case threshold > 0:
				if dist := LevenshteinDistance(q, word); dist <= threshold {
					best = max(best, 50.0-float64(dist)*15)
				}
			}
		}
		score += best
	}

	return score
}

// Words splits text into lowercase words, dropping punctuation
func Words(text string) []string {
	return strings.FieldsFunc(normalizeString(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

// Helper functions

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

// normalizeString converts to lowercase and collapses whitespace
func normalizeString(s string) string {
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

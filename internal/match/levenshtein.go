package match

import "strings"

// Levenshtein returns the edit distance between a and b: the smallest number
// of single-byte insertions, deletions or substitutions turning one into the
// other.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	// Keep a as the shorter string so only two short rows are allocated.
	if len(a) > len(b) {
		a, b = b, a
	}

	if len(a) == 0 {
		return len(b)
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// Similarity scores two names between 0 (nothing in common) and 1 (equal,
// ignoring case and underscores).
func Similarity(a, b string) float64 {
	a, b = fold(a), fold(b)

	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}

	return 1 - float64(Levenshtein(a, b))/float64(longest)
}

func fold(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", ""))
}

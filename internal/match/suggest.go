package match

import (
	"slices"

	"github.com/samber/lo"
)

// MinSimilarity is the score below which Suggest gives up.
const MinSimilarity = 0.6

// Suggest returns the candidate most similar to name. Ties go to the
// candidate that sorts first. ok is false when nothing scores at least
// MinSimilarity or when name itself is a candidate.
func Suggest(name string, candidates []string) (best string, ok bool) {
	if len(candidates) == 0 || slices.Contains(candidates, name) {
		return "", false
	}

	sorted := slices.Clone(candidates)
	slices.Sort(sorted)

	best = lo.MaxBy(sorted, func(a, b string) bool {
		return Similarity(name, a) > Similarity(name, b)
	})

	if Similarity(name, best) < MinSimilarity {
		return "", false
	}

	return best, true
}

// Hint formats a suggestion as a message suffix, or returns "" when there is
// none.
func Hint(name string, candidates []string) string {
	best, ok := Suggest(name, candidates)
	if !ok {
		return ""
	}

	return "; did you mean " + best + "?"
}

package match

import (
	"cmp"
	"slices"
)

// MinSimilarity is the score below which a candidate is not suggested.
const MinSimilarity = 0.5

type scored struct {
	name  string
	score float64
}

// Suggest returns up to n candidates closest to name, best first. Ties keep
// the candidates' order.
func Suggest(name string, candidates []string, n int) []string {
	var ranked []scored

	for _, c := range candidates {
		if c == name {
			continue
		}

		if s := Similarity(name, c); s >= MinSimilarity {
			ranked = append(ranked, scored{name: c, score: s})
		}
	}

	slices.SortStableFunc(ranked, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	out := make([]string, 0, min(n, len(ranked)))
	for _, r := range ranked[:min(n, len(ranked))] {
		out = append(out, r.name)
	}

	return out
}

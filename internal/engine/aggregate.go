package engine

import (
	"sort"

	"github.com/tatianab/ethics-journey/internal/models"
)

// SumScore folds the history's score deltas.
func SumScore(history []models.HistoryEntry) int {
	total := 0
	for _, e := range history {
		total += e.ScoreDelta
	}
	return total
}

// TallyTraits counts tag occurrences across the history. Every known trait
// is present, at zero if never selected; repeated tags count once per
// occurrence.
func TallyTraits(known []string, history []models.HistoryEntry) models.TraitTally {
	t := models.NewTraitTally(known...)
	for _, e := range history {
		for _, tag := range e.Tags {
			t.Add(tag, 1)
		}
	}
	return t
}

// DominantTraits returns the traits with a positive count, highest first.
// Ties keep the tally's insertion order. n <= 0 returns all of them.
func DominantTraits(t models.TraitTally, n int) []models.TraitCount {
	var out []models.TraitCount
	for _, e := range t.Entries() {
		if e.Count > 0 {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

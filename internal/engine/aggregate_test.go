package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tatianab/ethics-journey/internal/models"
)

func TestDominantTraits(t *testing.T) {
	tally := models.NewTraitTally("generosity", "justice", "honesty", "wisdom")
	tally.Add("honesty", 2)
	tally.Add("justice", 2)
	tally.Add("wisdom", 1)
	tally.Add("patience", 2)

	tests := []struct {
		name string
		n    int
		want []models.TraitCount
	}{
		{
			name: "top three, ties by first seen",
			n:    3,
			want: []models.TraitCount{{Name: "justice", Count: 2}, {Name: "honesty", Count: 2}, {Name: "patience", Count: 2}},
		},
		{
			name: "all positive",
			n:    0,
			want: []models.TraitCount{
				{Name: "justice", Count: 2}, {Name: "honesty", Count: 2},
				{Name: "patience", Count: 2}, {Name: "wisdom", Count: 1},
			},
		},
		{
			name: "more than available",
			n:    10,
			want: []models.TraitCount{
				{Name: "justice", Count: 2}, {Name: "honesty", Count: 2},
				{Name: "patience", Count: 2}, {Name: "wisdom", Count: 1},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, DominantTraits(tally, tt.n)); diff != "" {
				t.Errorf("DominantTraits(%d) mismatch (-want +got):\n%s", tt.n, diff)
			}
		})
	}

	if got := DominantTraits(models.NewTraitTally("a", "b"), 3); len(got) != 0 {
		t.Errorf("expected no dominant traits for an all-zero tally, got %v", got)
	}
}

func TestFolds(t *testing.T) {
	history := []models.HistoryEntry{
		{ScoreDelta: 5, Tags: []string{"generosity", "justice"}},
		{ScoreDelta: -3, Tags: []string{"generosity", "generosity"}},
		{ScoreDelta: 0},
	}
	if got := SumScore(history); got != 2 {
		t.Errorf("SumScore = %d, want 2", got)
	}

	tally := TallyTraits([]string{"honesty"}, history)
	want := map[string]int{"honesty": 0, "generosity": 3, "justice": 1}
	if diff := cmp.Diff(want, tally.Map()); diff != "" {
		t.Errorf("TallyTraits mismatch (-want +got):\n%s", diff)
	}
	if names := tally.Names(); names[0] != "honesty" || names[1] != "generosity" {
		t.Errorf("expected known traits first, then first-seen order, got %v", names)
	}
}

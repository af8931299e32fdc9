// Package journey derives the read-only views presentation layers show
// about a session: the path taken, revisits, dominant traits and the
// closing character analysis.
package journey

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tatianab/ethics-journey/internal/engine"
	"github.com/tatianab/ethics-journey/internal/models"
)

// TopTraits is how many dominant traits the summary surfaces.
const TopTraits = 3

// Step is one history entry annotated for display.
type Step struct {
	Index      int
	ScenarioID string
	Title      string
	ChoiceText string
	Points     int
	Traits     []string // unique, first-seen order
	// Circular marks a step taken from a scenario already visited earlier
	// in the journey.
	Circular bool
}

// TraitShare is a trait's share of all trait points, in whole percent.
type TraitShare struct {
	Name    string
	Percent int
}

// Summary is the journey overview shown at the end, or on demand.
type Summary struct {
	Score    int
	Steps    []Step
	Dominant []models.TraitCount
	Shares   []TraitShare
	Visits   map[string]int
	Analysis string
}

// Summarize builds the summary of st over g.
func Summarize(g *models.Graph, st *models.SessionState) Summary {
	s := Summary{
		Score:    st.Score,
		Dominant: engine.DominantTraits(st.Traits, TopTraits),
		Shares:   Shares(st.Traits),
		Visits:   Visits(st.History),
		Steps:    Path(g, st.History),
	}
	s.Analysis = Analysis(g, s.Dominant)
	return s
}

// Path annotates the history with scenario titles and circular markers.
func Path(g *models.Graph, history []models.HistoryEntry) []Step {
	steps := make([]Step, 0, len(history))
	seen := make(map[string]bool, len(history))
	for i, e := range history {
		steps = append(steps, Step{
			Index:      i,
			ScenarioID: e.ScenarioID,
			Title:      Title(g, e.ScenarioID),
			ChoiceText: e.ChoiceText,
			Points:     e.ScoreDelta,
			Traits:     models.Choice{Tags: e.Tags}.UniqueTags(),
			Circular:   seen[e.ScenarioID],
		})
		seen[e.ScenarioID] = true
	}
	return steps
}

// Visits counts how many choices were made at each scenario.
func Visits(history []models.HistoryEntry) map[string]int {
	v := make(map[string]int)
	for _, e := range history {
		v[e.ScenarioID]++
	}
	return v
}

// IsRevisit reports whether the session's current scenario already appears
// in its history. The end scenario never counts as a revisit.
func IsRevisit(g *models.Graph, st *models.SessionState) bool {
	if st.Position == g.EndID {
		return false
	}
	for _, e := range st.History {
		if e.ScenarioID == st.Position {
			return true
		}
	}
	return false
}

// Shares gives each trait's percentage of all trait points.
func Shares(t models.TraitTally) []TraitShare {
	total := t.Total()
	out := make([]TraitShare, 0, t.Len())
	for _, e := range t.Entries() {
		pct := 0
		if total > 0 {
			pct = int(math.Round(float64(e.Count) / float64(total) * 100))
		}
		out = append(out, TraitShare{Name: e.Name, Percent: pct})
	}
	return out
}

// Analysis composes the character analysis from the authored descriptions
// of the dominant traits. Traits without a description are skipped.
func Analysis(g *models.Graph, dominant []models.TraitCount) string {
	if len(dominant) == 0 {
		return g.Analysis.Empty
	}
	parts := []string{}
	if g.Analysis.Opening != "" {
		parts = append(parts, g.Analysis.Opening)
	}
	for _, tc := range dominant {
		if d, ok := g.TraitDescription(tc.Name); ok {
			parts = append(parts, d)
		}
	}
	if g.Analysis.Closing != "" {
		parts = append(parts, g.Analysis.Closing)
	}
	return strings.Join(parts, " ")
}

var titleCaser = cases.Title(language.English)

// Title returns the scenario's title, or a readable form of its id when
// the scenario does not exist.
func Title(g *models.Graph, id string) string {
	if s, ok := g.Scenario(id); ok && s.Title != "" {
		return s.Title
	}
	return Humanize(id)
}

// Humanize turns "family-request" into "Family Request".
func Humanize(id string) string {
	return titleCaser.String(strings.ReplaceAll(id, "-", " "))
}

// Point is a distinct scenario on the journey map.
type Point struct {
	ScenarioID string
	Title      string
	Visits     int
}

// Map lists the visited scenarios in the order they were first reached,
// for direct navigation back along the journey.
func Map(g *models.Graph, history []models.HistoryEntry) []Point {
	visits := Visits(history)
	var points []Point
	seen := make(map[string]bool, len(visits))
	for _, e := range history {
		if seen[e.ScenarioID] {
			continue
		}
		seen[e.ScenarioID] = true
		points = append(points, Point{ScenarioID: e.ScenarioID, Title: Title(g, e.ScenarioID), Visits: visits[e.ScenarioID]})
	}
	return points
}

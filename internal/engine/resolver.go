package engine

import (
	"github.com/tatianab/ethics-journey/internal/models"
)

// FallbackID is the id of the synthetic scenario returned for unknown ids.
const FallbackID = "path-not-found"

// Resolver maps scenario ids to scenarios. Unknown ids resolve to a
// synthetic fallback scenario instead of failing.
type Resolver struct {
	graph    *models.Graph
	fallback models.Scenario
}

// NewResolver builds a resolver over g.
func NewResolver(g *models.Graph) *Resolver {
	return &Resolver{
		graph: g,
		fallback: models.Scenario{
			ID:          FallbackID,
			Title:       "Path Not Found",
			Description: "This part of the journey could not be found. You can begin again or move on to reflect on the choices you have made so far.",
			Choices: []models.Choice{
				{ID: FallbackID + "-restart", Text: "Return to the first scenario", NextID: g.EntryID},
				{ID: FallbackID + "-recover", Text: "Continue to the journey reflection", NextID: g.RecoveryID},
			},
		},
	}
}

// Resolve returns the scenario for id, or the fallback scenario.
func (r *Resolver) Resolve(id string) models.Scenario {
	if s, ok := r.graph.Scenario(id); ok {
		return s
	}
	return r.fallback.Clone()
}

// Exists reports whether id names a real scenario.
func (r *Resolver) Exists(id string) bool {
	return r.graph.Has(id)
}

// Fallback returns the synthetic scenario shown for unknown ids.
func (r *Resolver) Fallback() models.Scenario {
	return r.fallback.Clone()
}

// IsFallback reports whether s is the synthetic fallback scenario.
func (r *Resolver) IsFallback(s models.Scenario) bool {
	return s.ID == r.fallback.ID && !r.graph.Has(s.ID)
}

// Start is the preamble scenario a fresh session begins at.
func (r *Resolver) Start() string { return r.graph.StartID }

// Entry is the first narrative scenario, where unknown jumps land.
func (r *Resolver) Entry() string { return r.graph.EntryID }

// Recovery is where a dangling edge leads.
func (r *Resolver) Recovery() string { return r.graph.RecoveryID }

// End is the journey-complete scenario.
func (r *Resolver) End() string { return r.graph.EndID }

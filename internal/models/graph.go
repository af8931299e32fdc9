package models

import (
	"fmt"
)

// Default ids of the distinguished scenarios.
const (
	DefaultStartID    = "start"
	DefaultEndID      = "end"
	DefaultRecoveryID = "final-reflection"
)

// Graph is the static scenario graph. It is immutable once built.
type Graph struct {
	Title      string
	StartID    string
	EntryID    string
	RecoveryID string
	EndID      string
	Traits     []TraitInfo
	Analysis   AnalysisText

	scenarios []Scenario
	index     map[string]int
}

// GraphSpec is the authored form of a graph.
type GraphSpec struct {
	Title     string       `yaml:"title"`
	Start     string       `yaml:"start"`
	Entry     string       `yaml:"entry"`
	Recovery  string       `yaml:"recovery"`
	End       string       `yaml:"end"`
	Traits    []TraitInfo  `yaml:"traits"`
	Analysis  AnalysisText `yaml:"analysis"`
	Scenarios []Scenario   `yaml:"scenarios"`
}

// AnalysisText frames the trait descriptions in a character analysis.
type AnalysisText struct {
	Opening string `yaml:"opening"`
	Closing string `yaml:"closing"`
	Empty   string `yaml:"empty"`
}

// NewGraph indexes the spec's scenarios and fills in default ids.
// Duplicate scenario ids, or duplicate choice ids inside one scenario,
// make the graph unaddressable and are rejected. Dangling references are
// not an error here; see Validate.
func NewGraph(spec GraphSpec) (*Graph, error) {
	g := &Graph{
		Title:      spec.Title,
		StartID:    orDefault(spec.Start, DefaultStartID),
		RecoveryID: orDefault(spec.Recovery, DefaultRecoveryID),
		EndID:      orDefault(spec.End, DefaultEndID),
		Traits:     append([]TraitInfo(nil), spec.Traits...),
		Analysis:   spec.Analysis,
		index:      make(map[string]int, len(spec.Scenarios)),
	}
	for _, s := range spec.Scenarios {
		if s.ID == "" {
			return nil, fmt.Errorf("scenario %q: missing id", s.Title)
		}
		if _, dup := g.index[s.ID]; dup {
			return nil, fmt.Errorf("scenario %q: duplicate id", s.ID)
		}
		seen := make(map[string]bool, len(s.Choices))
		for _, c := range s.Choices {
			if c.ID == "" {
				return nil, fmt.Errorf("scenario %q: choice %q: missing id", s.ID, c.Text)
			}
			if seen[c.ID] {
				return nil, fmt.Errorf("scenario %q: duplicate choice id %q", s.ID, c.ID)
			}
			seen[c.ID] = true
		}
		g.index[s.ID] = len(g.scenarios)
		g.scenarios = append(g.scenarios, s.Clone())
	}

	g.EntryID = spec.Entry
	if g.EntryID == "" {
		if start, ok := g.Scenario(g.StartID); ok && len(start.Choices) > 0 {
			g.EntryID = start.Choices[0].NextID
		}
	}
	if g.EntryID == "" {
		g.EntryID = g.StartID
	}
	return g, nil
}

// Scenario returns a copy of the scenario with the given id.
func (g *Graph) Scenario(id string) (Scenario, bool) {
	i, ok := g.index[id]
	if !ok {
		return Scenario{}, false
	}
	return g.scenarios[i].Clone(), true
}

// Has reports whether id names a scenario in the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Scenarios returns copies of all scenarios in authored order.
func (g *Graph) Scenarios() []Scenario {
	out := make([]Scenario, len(g.scenarios))
	for i, s := range g.scenarios {
		out[i] = s.Clone()
	}
	return out
}

// Len is the number of scenarios.
func (g *Graph) Len() int {
	return len(g.scenarios)
}

// TraitNames returns the known trait names in authored order.
func (g *Graph) TraitNames() []string {
	names := make([]string, 0, len(g.Traits))
	for _, t := range g.Traits {
		names = append(names, t.Name)
	}
	return names
}

// TraitDescription returns the authored description of a trait.
func (g *Graph) TraitDescription(name string) (string, bool) {
	for _, t := range g.Traits {
		if t.Name == name {
			return t.Description, t.Description != ""
		}
	}
	return "", false
}

// IssueKind classifies authoring defects found by Validate.
type IssueKind string

const (
	IssueDanglingEdge    IssueKind = "dangling_edge"
	IssueMissingNode     IssueKind = "missing_node"
	IssueNoChoices       IssueKind = "no_choices"
	IssueUnreachableNode IssueKind = "unreachable_node"
)

// Issue is a non-fatal authoring defect.
type Issue struct {
	Kind       IssueKind
	ScenarioID string
	ChoiceID   string
	Target     string
}

func (i Issue) String() string {
	switch i.Kind {
	case IssueDanglingEdge:
		return fmt.Sprintf("%s/%s: next_id %q does not exist", i.ScenarioID, i.ChoiceID, i.Target)
	case IssueMissingNode:
		return fmt.Sprintf("distinguished scenario %q does not exist", i.Target)
	case IssueNoChoices:
		return fmt.Sprintf("%s: non-terminal scenario has no choices", i.ScenarioID)
	case IssueUnreachableNode:
		return fmt.Sprintf("%s: not reachable from %q", i.ScenarioID, i.Target)
	}
	return string(i.Kind)
}

// Validate reports authoring defects the engine tolerates at runtime.
func (g *Graph) Validate() []Issue {
	var issues []Issue
	for _, id := range []string{g.StartID, g.EntryID, g.RecoveryID, g.EndID} {
		if !g.Has(id) {
			issues = append(issues, Issue{Kind: IssueMissingNode, Target: id})
		}
	}
	for _, s := range g.scenarios {
		if len(s.Choices) == 0 && s.ID != g.EndID {
			issues = append(issues, Issue{Kind: IssueNoChoices, ScenarioID: s.ID})
		}
		for _, c := range s.Choices {
			if !c.Terminal() && !g.Has(c.NextID) {
				issues = append(issues, Issue{Kind: IssueDanglingEdge, ScenarioID: s.ID, ChoiceID: c.ID, Target: c.NextID})
			}
		}
	}

	reached := g.reachable(g.StartID)
	for _, s := range g.scenarios {
		if !reached[s.ID] {
			issues = append(issues, Issue{Kind: IssueUnreachableNode, ScenarioID: s.ID, Target: g.StartID})
		}
	}
	return issues
}

func (g *Graph) reachable(from string) map[string]bool {
	seen := map[string]bool{}
	queue := []string{from}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		s, ok := g.Scenario(id)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		for _, c := range s.Choices {
			if !c.Terminal() {
				queue = append(queue, c.NextID)
			}
		}
	}
	return seen
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

package models

// Choice is an edge in the scenario graph.
type Choice struct {
	ID      string   `yaml:"id"`
	Text    string   `yaml:"text"`
	Outcome string   `yaml:"outcome"`
	Score   int      `yaml:"score"`
	Tags    []string `yaml:"tags,omitempty"`
	NextID  string   `yaml:"next_id,omitempty"` // empty means terminal, no further transition
}

// UniqueTags returns the choice's tags without duplicates, in first-seen order.
func (c Choice) UniqueTags() []string {
	return uniqueTags(c.Tags)
}

// Terminal reports whether the choice ends its thread without a transition.
func (c Choice) Terminal() bool {
	return c.NextID == ""
}

func (c Choice) clone() Choice {
	c.Tags = append([]string(nil), c.Tags...)
	return c
}

// Scenario is a node in the scenario graph.
type Scenario struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Choices     []Choice `yaml:"choices"`
}

// Clone returns a copy sharing no slices with s.
func (s Scenario) Clone() Scenario {
	if s.Choices != nil {
		choices := make([]Choice, len(s.Choices))
		for i, c := range s.Choices {
			choices[i] = c.clone()
		}
		s.Choices = choices
	}
	return s
}

// Choice looks up one of the scenario's choices by id.
func (s Scenario) Choice(id string) (Choice, bool) {
	for _, c := range s.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}

// TraitInfo describes one of the known ethical traits.
type TraitInfo struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// HistoryEntry records one confirmed choice selection.
type HistoryEntry struct {
	ScenarioID  string   `yaml:"scenario_id"`
	ChoiceID    string   `yaml:"choice_id"`
	ChoiceText  string   `yaml:"choice_text"`
	OutcomeText string   `yaml:"outcome_text"`
	ScoreDelta  int      `yaml:"score_delta"`
	Tags        []string `yaml:"tags,omitempty"`
}

// SessionState is the mutable progress of a single player session.
type SessionState struct {
	Position string         `yaml:"position"`
	Score    int            `yaml:"score"`
	Traits   TraitTally     `yaml:"traits"`
	History  []HistoryEntry `yaml:"history"`

	// Pending is the choice whose outcome is on screen awaiting "continue".
	// It is never persisted.
	Pending *Choice `yaml:"-"`
}

// NewSessionState returns a fresh session positioned at start with every
// known trait at zero.
func NewSessionState(start string, knownTraits []string) *SessionState {
	return &SessionState{
		Position: start,
		Traits:   NewTraitTally(knownTraits...),
		History:  []HistoryEntry{},
	}
}

// Clone returns a deep copy of the state.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}
	out := &SessionState{
		Position: s.Position,
		Score:    s.Score,
		Traits:   s.Traits.Clone(),
		History:  make([]HistoryEntry, len(s.History)),
	}
	for i, e := range s.History {
		e.Tags = append([]string(nil), e.Tags...)
		out.History[i] = e
	}
	if s.Pending != nil {
		p := s.Pending.clone()
		out.Pending = &p
	}
	return out
}

func uniqueTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	var out []string
	for _, t := range tags {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

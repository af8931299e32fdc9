package models

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// TraitCount pairs a trait name with its tally.
type TraitCount struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// TraitTally is an open mapping from trait name to counter that remembers
// the order in which names were first seen. The zero value is empty and
// ready to use; lookups of unknown names return 0.
type TraitTally struct {
	order  []string
	counts map[string]int
}

// NewTraitTally returns a tally with every name present at zero.
func NewTraitTally(names ...string) TraitTally {
	var t TraitTally
	for _, n := range names {
		t.ensure(n)
	}
	return t
}

func (t *TraitTally) ensure(name string) {
	if t.counts == nil {
		t.counts = make(map[string]int)
	}
	if _, ok := t.counts[name]; !ok {
		t.counts[name] = 0
		t.order = append(t.order, name)
	}
}

// Get returns the counter for name, or 0 when the name has never been seen.
func (t TraitTally) Get(name string) int {
	return t.counts[name]
}

// Add increments name by n, extending the tally when the name is new.
func (t *TraitTally) Add(name string, n int) {
	t.ensure(name)
	t.counts[name] += n
}

// Has reports whether name is part of the tally.
func (t TraitTally) Has(name string) bool {
	_, ok := t.counts[name]
	return ok
}

// Len returns the number of distinct trait names.
func (t TraitTally) Len() int {
	return len(t.order)
}

// Names returns the trait names in insertion order.
func (t TraitTally) Names() []string {
	return append([]string(nil), t.order...)
}

// Entries returns every trait with its count, in insertion order.
func (t TraitTally) Entries() []TraitCount {
	out := make([]TraitCount, 0, len(t.order))
	for _, n := range t.order {
		out = append(out, TraitCount{Name: n, Count: t.counts[n]})
	}
	return out
}

// Total is the sum of all counters.
func (t TraitTally) Total() int {
	total := 0
	for _, c := range t.counts {
		total += c
	}
	return total
}

// Map returns the counters as a plain map.
func (t TraitTally) Map() map[string]int {
	out := make(map[string]int, len(t.counts))
	for k, v := range t.counts {
		out[k] = v
	}
	return out
}

// Clone returns an independent copy.
func (t TraitTally) Clone() TraitTally {
	var out TraitTally
	for _, n := range t.order {
		out.Add(n, t.counts[n])
	}
	return out
}

// Equal reports whether both tallies hold the same names, order and counts.
func (t TraitTally) Equal(o TraitTally) bool {
	if len(t.order) != len(o.order) {
		return false
	}
	for i, n := range t.order {
		if o.order[i] != n || o.counts[n] != t.counts[n] {
			return false
		}
	}
	return true
}

// MarshalYAML writes the tally as a mapping in insertion order.
func (t TraitTally) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, n := range t.order {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(t.counts[n])},
		)
	}
	return node, nil
}

// UnmarshalYAML reads a mapping, keeping the document order of the keys.
func (t *TraitTally) UnmarshalYAML(value *yaml.Node) error {
	*t = TraitTally{}
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("traits: expected mapping, got line %d kind %d", value.Line, value.Kind)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		var count int
		if err := value.Content[i+1].Decode(&count); err != nil {
			return fmt.Errorf("traits: %s: %w", value.Content[i].Value, err)
		}
		if count < 0 {
			return fmt.Errorf("traits: %s: negative count %d", value.Content[i].Value, count)
		}
		t.Add(value.Content[i].Value, count)
	}
	return nil
}

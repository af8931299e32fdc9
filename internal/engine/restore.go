package engine

import (
	"context"
	"errors"

	"github.com/tatianab/ethics-journey/internal/models"
)

// Restore builds an engine and resumes the session saved in store. A
// missing save starts fresh. A corrupt save is discarded and replaced by a
// fresh session. When the store cannot be read at all the save is left in
// place and the session continues in memory. Score and traits are recomputed from the ledger so
// a restored session always satisfies the aggregation invariants.
func Restore(ctx context.Context, g *models.Graph, store models.Store, opts ...Option) *Engine {
	e := NewEngine(g, append(opts, WithStore(store))...)

	saved, err := store.Load(ctx)
	switch {
	case errors.Is(err, models.ErrNoSave):
		return e
	case errors.Is(err, models.ErrCorruptSave):
		e.diag(Diagnostic{Kind: DiagnosticPersistence, Op: "restore", Message: "discarding corrupt saved session", Err: err})
		if err := store.Clear(ctx); err != nil {
			e.diag(Diagnostic{Kind: DiagnosticPersistence, Op: "restore", Message: "clearing corrupt saved session failed", Err: err})
		}
		return e
	case err != nil:
		e.diag(Diagnostic{Kind: DiagnosticPersistence, Op: "restore", Message: "saved session unavailable, continuing in memory", Err: err})
		return e
	}

	score := SumScore(saved.History)
	traits := TallyTraits(g.TraitNames(), saved.History)
	if score != saved.Score || !sameCounts(traits, saved.Traits) {
		e.diag(Diagnostic{
			Kind:       DiagnosticPersistence,
			Op:         "restore",
			ScenarioID: saved.Position,
			Message:    "saved totals disagree with history, recomputed",
		})
	}
	saved.Score = score
	saved.Traits = traits
	saved.Pending = nil

	if !g.Has(saved.Position) {
		e.diag(Diagnostic{
			Kind:       DiagnosticFallback,
			Op:         "restore",
			ScenarioID: saved.Position,
			Message:    "saved position no longer exists, offering recovery",
		})
	}

	e.state = saved
	e.logger.Info("session restored", "scenario", saved.Position, "entries", len(saved.History))
	return e
}

// sameCounts compares counters ignoring zero entries and order.
func sameCounts(a, b models.TraitTally) bool {
	for _, e := range a.Entries() {
		if b.Get(e.Name) != e.Count {
			return false
		}
	}
	for _, e := range b.Entries() {
		if a.Get(e.Name) != e.Count {
			return false
		}
	}
	return true
}

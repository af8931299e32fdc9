package engine

import (
	"context"
	"log/slog"

	"github.com/tatianab/ethics-journey/internal/models"
)

// Phase is the engine's position in the select → confirm cycle.
type Phase int

const (
	// PhaseIdle offers the current scenario's choices.
	PhaseIdle Phase = iota
	// PhaseAwaitingConfirmation shows a selected choice's outcome until
	// ContinueToNext is called.
	PhaseAwaitingConfirmation
	// PhaseTerminal is PhaseIdle at the end node, or at any node without
	// choices; the offered choices are journey-complete actions.
	PhaseTerminal
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingConfirmation:
		return "awaiting_confirmation"
	case PhaseTerminal:
		return "terminal"
	}
	return "unknown"
}

// RestartChoiceID is the id of the synthetic "start a new journey" choice
// offered when the end node has no choices of its own.
const RestartChoiceID = "journey-restart"

// Engine drives a single session through the scenario graph. Commands never
// fail: misuse and malformed content degrade to defined fallbacks and are
// reported through the diagnostics hook. An Engine is not safe for
// concurrent use; callers issue one command at a time.
type Engine struct {
	graph    *models.Graph
	resolver *Resolver
	state    *models.SessionState
	store    models.Store
	diag     DiagnosticsHook
	logger   *slog.Logger

	saveFailed bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithStore makes every mutation write the session through to s.
func WithStore(s models.Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithDiagnostics installs the hook called on every fallback decision,
// rejected command and persistence failure.
func WithDiagnostics(h DiagnosticsHook) Option {
	return func(e *Engine) { e.diag = h }
}

// WithLogger sets the logger used for transition traces and, unless
// WithDiagnostics is also given, for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine returns an engine over g at a fresh session.
func NewEngine(g *models.Graph, opts ...Option) *Engine {
	e := &Engine{
		graph:    g,
		resolver: NewResolver(g),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.diag == nil {
		e.diag = LogDiagnostics(e.logger)
	}
	e.state = e.freshState()
	return e
}

func (e *Engine) freshState() *models.SessionState {
	return models.NewSessionState(e.resolver.Start(), e.graph.TraitNames())
}

// --- Read interface ---

// Graph returns the scenario graph.
func (e *Engine) Graph() *models.Graph { return e.graph }

// Resolver returns the engine's resolver.
func (e *Engine) Resolver() *Resolver { return e.resolver }

// Position is the current scenario id, which may be unknown to the graph.
func (e *Engine) Position() string { return e.state.Position }

// Current resolves the current position, falling back for unknown ids.
func (e *Engine) Current() models.Scenario {
	return e.resolver.Resolve(e.state.Position)
}

// Choices returns the choices offered at the current scenario. A scenario
// without choices offers the end node's journey-complete actions.
func (e *Engine) Choices() []models.Choice {
	if cur := e.Current(); len(cur.Choices) > 0 {
		return cur.Choices
	}
	return e.terminalChoices()
}

func (e *Engine) terminalChoices() []models.Choice {
	if end, ok := e.graph.Scenario(e.resolver.End()); ok && len(end.Choices) > 0 {
		return end.Choices
	}
	return []models.Choice{{ID: RestartChoiceID, Text: "Start a new journey", NextID: e.resolver.Start()}}
}

// Score is the cumulative score.
func (e *Engine) Score() int { return e.state.Score }

// Traits returns a copy of the trait tally.
func (e *Engine) Traits() models.TraitTally { return e.state.Traits.Clone() }

// History returns a copy of the history ledger.
func (e *Engine) History() []models.HistoryEntry { return e.state.Clone().History }

// Pending returns the choice awaiting confirmation, if any.
func (e *Engine) Pending() (models.Choice, bool) {
	if e.state.Pending == nil {
		return models.Choice{}, false
	}
	return *e.state.Pending, true
}

// IsComplete reports whether the session sits at the end node, or at a
// node that offers nothing else to do.
func (e *Engine) IsComplete() bool {
	return e.state.Position == e.resolver.End() || len(e.Current().Choices) == 0
}

// Phase reports the state machine's current phase.
func (e *Engine) Phase() Phase {
	switch {
	case e.state.Pending != nil:
		return PhaseAwaitingConfirmation
	case e.IsComplete():
		return PhaseTerminal
	}
	return PhaseIdle
}

// State returns a deep copy of the session.
func (e *Engine) State() *models.SessionState { return e.state.Clone() }

// --- Commands ---

// SelectChoice picks one of the offered choices. At a narrative scenario it
// records the choice's score and traits in the ledger and stages its
// outcome for confirmation. At navigation-only scenarios (the start
// preamble, the fallback scenario and journey-complete actions) it jumps
// directly with no scoring.
func (e *Engine) SelectChoice(ctx context.Context, choiceID string) {
	const op = "select_choice"
	if e.state.Pending != nil {
		e.reject(op, choiceID, "a choice is already awaiting confirmation")
		return
	}

	var choice models.Choice
	found := false
	for _, c := range e.Choices() {
		if c.ID == choiceID {
			choice, found = c, true
			break
		}
	}
	if !found {
		e.reject(op, choiceID, "choice is not offered at the current scenario")
		return
	}

	if e.navigationOnly() {
		switch {
		case choice.Terminal():
			e.reject(op, choiceID, "navigation choice has no target")
		case choice.NextID == e.resolver.Start():
			e.ResetGame(ctx)
		default:
			e.directNavigate(ctx, op, choice.NextID)
		}
		return
	}

	e.state.History = append(e.state.History, models.HistoryEntry{
		ScenarioID:  e.state.Position,
		ChoiceID:    choice.ID,
		ChoiceText:  choice.Text,
		OutcomeText: choice.Outcome,
		ScoreDelta:  choice.Score,
		Tags:        append([]string(nil), choice.Tags...),
	})
	e.state.Score += choice.Score
	for _, tag := range choice.Tags {
		e.state.Traits.Add(tag, 1)
	}
	pending := choice
	pending.Tags = append([]string(nil), choice.Tags...)
	e.state.Pending = &pending

	e.logger.Debug("choice selected",
		"scenario", e.state.Position, "choice", choice.ID, "score", e.state.Score)
	e.persist(ctx, op)
}

func (e *Engine) navigationOnly() bool {
	pos := e.state.Position
	return pos == e.resolver.Start() || !e.resolver.Exists(pos) || e.IsComplete()
}

// ContinueToNext confirms the pending outcome and advances along its edge.
// A terminal choice leaves the position unchanged; a dangling edge moves
// to the recovery scenario.
func (e *Engine) ContinueToNext(ctx context.Context) {
	const op = "continue"
	pending := e.state.Pending
	if pending == nil {
		e.reject(op, "", "no choice is awaiting confirmation")
		return
	}

	switch {
	case pending.Terminal():
		e.logger.Debug("terminal choice confirmed", "scenario", e.state.Position, "choice", pending.ID)
	case e.resolver.Exists(pending.NextID):
		e.state.Position = pending.NextID
	default:
		e.diag(Diagnostic{
			Kind:       DiagnosticFallback,
			Op:         op,
			ScenarioID: e.state.Position,
			Target:     pending.NextID,
			Message:    "dangling edge, moving to recovery scenario",
		})
		e.state.Position = e.resolver.Recovery()
	}
	e.state.Pending = nil

	e.logger.Debug("advanced", "scenario", e.state.Position)
	e.persist(ctx, op)
}

// DirectNavigate jumps to id from any phase without touching the ledger.
// Unknown ids land on the entry scenario.
func (e *Engine) DirectNavigate(ctx context.Context, id string) {
	e.directNavigate(ctx, "direct_navigate", id)
}

func (e *Engine) directNavigate(ctx context.Context, op, id string) {
	target := id
	if !e.resolver.Exists(id) {
		e.diag(Diagnostic{
			Kind:       DiagnosticFallback,
			Op:         op,
			ScenarioID: e.state.Position,
			Target:     id,
			Message:    "unknown navigation target, moving to entry scenario",
		})
		target = e.resolver.Entry()
	}
	e.state.Position = target
	e.state.Pending = nil

	e.logger.Debug("navigated", "scenario", target)
	e.persist(ctx, op)
}

// ResetGame discards all progress and the persisted save.
func (e *Engine) ResetGame(ctx context.Context) {
	e.state = e.freshState()
	e.logger.Debug("session reset")
	if e.store == nil {
		return
	}
	if err := e.store.Clear(ctx); err != nil {
		e.diag(Diagnostic{Kind: DiagnosticPersistence, Op: "reset", Message: "clearing saved session failed", Err: err})
	}
}

func (e *Engine) reject(op, target, msg string) {
	e.diag(Diagnostic{
		Kind:       DiagnosticRejected,
		Op:         op,
		ScenarioID: e.state.Position,
		Target:     target,
		Message:    msg,
	})
}

// persist writes the full session. A failure is reported and the next
// mutation simply writes again.
func (e *Engine) persist(ctx context.Context, op string) {
	if e.store == nil {
		return
	}
	if err := e.store.Save(ctx, e.state); err != nil {
		e.saveFailed = true
		e.diag(Diagnostic{
			Kind:       DiagnosticPersistence,
			Op:         op,
			ScenarioID: e.state.Position,
			Message:    "saving session failed",
			Err:        err,
		})
		return
	}
	if e.saveFailed {
		e.saveFailed = false
		e.logger.Info("session saving recovered", "scenario", e.state.Position)
	}
}

package engine

import (
	"context"
	"log/slog"
)

// DiagnosticKind classifies the events reported to a DiagnosticsHook.
type DiagnosticKind string

const (
	// DiagnosticFallback is a navigation that could not reach its target.
	DiagnosticFallback DiagnosticKind = "fallback"
	// DiagnosticRejected is a command issued in a state that does not allow it.
	DiagnosticRejected DiagnosticKind = "rejected"
	// DiagnosticPersistence is a failed load, save or clear.
	DiagnosticPersistence DiagnosticKind = "persistence"
)

// Diagnostic describes a degraded decision taken by the engine.
type Diagnostic struct {
	Kind       DiagnosticKind
	Op         string
	ScenarioID string
	Target     string
	Message    string
	Err        error
}

// DiagnosticsHook receives every Diagnostic. It must not call back into the engine.
type DiagnosticsHook func(Diagnostic)

// LogDiagnostics returns a hook writing diagnostics to logger.
func LogDiagnostics(logger *slog.Logger) DiagnosticsHook {
	return func(d Diagnostic) {
		level := slog.LevelInfo
		switch d.Kind {
		case DiagnosticFallback, DiagnosticPersistence:
			level = slog.LevelWarn
		}
		attrs := []slog.Attr{
			slog.String("kind", string(d.Kind)),
			slog.String("op", d.Op),
			slog.String("scenario", d.ScenarioID),
		}
		if d.Target != "" {
			attrs = append(attrs, slog.String("target", d.Target))
		}
		if d.Err != nil {
			attrs = append(attrs, slog.Any("error", d.Err))
		}
		logger.LogAttrs(context.Background(), level, d.Message, attrs...)
	}
}

// Recorder collects diagnostics in memory.
type Recorder struct {
	Events []Diagnostic
}

// Hook returns a DiagnosticsHook appending to r.Events.
func (r *Recorder) Hook() DiagnosticsHook {
	return func(d Diagnostic) { r.Events = append(r.Events, d) }
}

// Kinds returns the kinds of the recorded events in order.
func (r *Recorder) Kinds() []DiagnosticKind {
	out := make([]DiagnosticKind, len(r.Events))
	for i, d := range r.Events {
		out[i] = d.Kind
	}
	return out
}

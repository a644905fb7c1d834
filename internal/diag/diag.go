// Package diag carries non-fatal diagnostics out of the planning engine so the
// host decides how to surface them.
package diag

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// BudgetEvent reports an operation that ran longer than its soft time budget.
type BudgetEvent struct {
	Operation string
	Budget    time.Duration
	Elapsed   time.Duration
	Attrs     []slog.Attr
}

// InvariantEvent reports a checked invariant that drifted outside its tolerance.
type InvariantEvent struct {
	Invariant string
	Expected  float64
	Actual    float64
	Tolerance float64
	Attrs     []slog.Attr
}

// Sink receives diagnostics. Implementations must not block for long;
// they are called inline from the computation.
type Sink interface {
	BudgetExceeded(BudgetEvent)
	InvariantViolated(InvariantEvent)
}

// Nop discards every event.
type Nop struct{}

// BudgetExceeded discards the event.
func (Nop) BudgetExceeded(BudgetEvent) {}

// InvariantViolated discards the event.
func (Nop) InvariantViolated(InvariantEvent) {}

// SlogSink writes events as WARN records.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink returns a sink backed by logger, or slog.Default() when nil.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

// BudgetExceeded logs e at WARN as "time budget exceeded".
func (s *SlogSink) BudgetExceeded(e BudgetEvent) {
	attrs := append([]slog.Attr{
		slog.String("operation", e.Operation),
		slog.Duration("budget", e.Budget),
		slog.Duration("elapsed", e.Elapsed),
	}, e.Attrs...)
	s.logger.LogAttrs(context.Background(), slog.LevelWarn, "time budget exceeded", attrs...)
}

// InvariantViolated logs e at WARN as "invariant violated".
func (s *SlogSink) InvariantViolated(e InvariantEvent) {
	attrs := append([]slog.Attr{
		slog.String("invariant", e.Invariant),
		slog.Float64("expected", e.Expected),
		slog.Float64("actual", e.Actual),
		slog.Float64("tolerance", e.Tolerance),
	}, e.Attrs...)
	s.logger.LogAttrs(context.Background(), slog.LevelWarn, "invariant violated", attrs...)
}

// Recorder keeps every event in memory. It is safe for concurrent use.
type Recorder struct {
	mu         sync.Mutex
	budgets    []BudgetEvent
	invariants []InvariantEvent
}

// BudgetExceeded records e.
func (r *Recorder) BudgetExceeded(e BudgetEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.budgets = append(r.budgets, e)
}

// InvariantViolated records e.
func (r *Recorder) InvariantViolated(e InvariantEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invariants = append(r.invariants, e)
}

// Budgets returns a copy of the recorded budget events.
func (r *Recorder) Budgets() []BudgetEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]BudgetEvent(nil), r.budgets...)
}

// Invariants returns a copy of the recorded invariant events.
func (r *Recorder) Invariants() []InvariantEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]InvariantEvent(nil), r.invariants...)
}

// Multi fans every event out to each sink in order.
type Multi []Sink

// BudgetExceeded forwards e to every sink.
func (m Multi) BudgetExceeded(e BudgetEvent) {
	for _, s := range m {
		s.BudgetExceeded(e)
	}
}

// InvariantViolated forwards e to every sink.
func (m Multi) InvariantViolated(e InvariantEvent) {
	for _, s := range m {
		s.InvariantViolated(e)
	}
}

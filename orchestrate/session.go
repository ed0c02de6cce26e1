// Package orchestrate drives repeated tick evaluation over a resolved node
// graph and yields one record of sink values per tick.
package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rustyeddy/signalflow/graph"
	"github.com/rustyeddy/signalflow/node"
)

// Record maps each requested sink name to its value at one tick.
type Record map[string]node.Value

// debugEvery is how many ticks pass between orchestration debug log lines.
const debugEvery = 100000

// tickStrategy runs one full tick over the layered plan.
type tickStrategy interface {
	tick(ctx context.Context) error
}

// Session is one orchestration run over a fixed sink set. The execution
// layers are resolved once at construction and stay immutable for the
// session's lifetime; the produced sequence is lazy and infinite unless a
// raw source is finite.
type Session struct {
	sinks  map[string]node.Node
	layers [][]node.Node
	strat  tickStrategy
	logger *slog.Logger

	tick   int
	done   bool
	failed error
}

type sessionConfig struct {
	concurrent bool
	logger     *slog.Logger
}

// SessionOption configures a Session at construction.
type SessionOption func(*sessionConfig)

// Concurrent selects the tick strategy that fans out asynchronously-sourced
// nodes of each layer in one batch. Synchronous nodes still run
// sequentially.
func Concurrent() SessionOption {
	return func(c *sessionConfig) { c.concurrent = true }
}

// WithLogger installs a logger for per-session debug output.
func WithLogger(l *slog.Logger) SessionOption {
	return func(c *sessionConfig) { c.logger = l }
}

// New resolves the graph reachable from the sinks and prepares a session.
// Structural graph errors (no basis, unresolved cycle) surface here, before
// any tick runs. Requesting zero sinks is an error.
func New(sinks map[string]node.Node, opts ...SessionOption) (*Session, error) {
	if len(sinks) == 0 {
		return nil, errors.New("orchestrate: no sink nodes requested")
	}
	cfg := sessionConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	requested := make([]node.Node, 0, len(sinks))
	for _, n := range sinks {
		requested = append(requested, n)
	}
	layers, err := graph.Layers(requested...)
	if err != nil {
		return nil, err
	}

	s := &Session{
		sinks:  sinks,
		layers: layers,
		logger: cfg.logger,
	}
	if cfg.concurrent {
		s.strat = newConcurrent(layers)
	} else {
		s.strat = sequential{layers: layers}
	}
	return s, nil
}

// Next evaluates one tick and returns the sink record. It returns ok=false
// with a nil error when a raw source is exhausted (clean termination) and
// ok=false with the failure when any evaluation errors; a finished session
// keeps reporting the same outcome.
func (s *Session) Next(ctx context.Context) (Record, bool, error) {
	if s.done {
		return nil, false, s.failed
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	if err := s.strat.tick(ctx); err != nil {
		s.done = true
		if errors.Is(err, node.ErrExhausted) {
			return nil, false, nil
		}
		s.failed = fmt.Errorf("orchestrate: tick %d: %w", s.tick+1, err)
		return nil, false, s.failed
	}

	s.tick++
	if s.tick%debugEvery == 0 {
		s.logger.Debug("orchestration progress", "tick", s.tick)
	}

	rec := make(Record, len(s.sinks))
	for name, n := range s.sinks {
		rec[name] = node.Current(n)
	}
	return rec, true, nil
}

// Run pulls records until exhaustion or failure, passing each one to fn. A
// non-nil error from fn stops the session and is returned as-is.
func (s *Session) Run(ctx context.Context, fn func(Record) error) error {
	for {
		rec, ok, err := s.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}

// Ticks reports how many records the session has produced so far.
func (s *Session) Ticks() int { return s.tick }

package node

import "sync/atomic"

// Space is the graph-construction context. It owns the monotonic node id
// counter and the default none-safety policy, so neither lives in package
// globals. Nodes built in the same Space belong to the same graph universe;
// a Space is safe for concurrent construction, though graphs are normally
// wired from a single goroutine.
type Space struct {
	nonce    atomic.Int64
	safeNone bool
}

// SpaceOption configures a Space at construction.
type SpaceOption func(*Space)

// WithDefaultSafeNone sets the default none-safety applied to operation
// nodes that do not override it.
func WithDefaultSafeNone(on bool) SpaceOption {
	return func(s *Space) { s.safeNone = on }
}

// NewSpace returns a Space with none-safety enabled by default.
func NewSpace(opts ...SpaceOption) *Space {
	s := &Space{safeNone: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Space) nextID() int64 {
	return s.nonce.Add(1) - 1
}

// config collects the per-node construction options.
type config struct {
	def      Value
	histLen  int
	safeNone bool
}

func (s *Space) newConfig(opts []Option) config {
	cfg := config{histLen: 1, safeNone: s.safeNone}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option configures a single node at construction.
type Option func(*config)

// WithDefault sets the value substituted when the node cannot produce a
// real result.
func WithDefault(v Value) Option {
	return func(c *config) { c.def = v }
}

// WithHistory sets the initial history capacity. Downstream aggregators may
// still grow it further.
func WithHistory(n int) Option {
	return func(c *config) {
		if n > c.histLen {
			c.histLen = n
		}
	}
}

// WithSafeNone overrides the Space-wide none-safety for one node.
func WithSafeNone(on bool) Option {
	return func(c *config) { c.safeNone = on }
}

package node

import (
	"context"
	"fmt"
)

// Node is a single vertex of the dependency graph. It holds a bounded
// history of its own produced values and a fixed, ordered set of upstream
// nodes it reads from on every tick.
//
// Nodes have reference identity: two nodes are the same node only if they
// share an ID. Evaluation order is decided by the graph resolver; a node's
// Evaluate is called exactly once per tick and nothing else touches its
// mutable state.
type Node interface {
	// ID is the process-unique id assigned at construction.
	ID() int64

	// At returns the value produced k ticks ago; k=0 is the value from the
	// most recent evaluation. Reads beyond the history capacity fail with
	// ErrOutOfRange.
	At(k int) (Value, error)

	// Default is the value substituted when a computation cannot produce a
	// real result.
	Default() Value

	// PreRequisites is the ordered list of upstream nodes, without
	// duplicates.
	PreRequisites() []Node

	// Dependents lists the downstream nodes currently linked to this node.
	// It exists for graph traversal only and never decides evaluation
	// order.
	Dependents() []Node

	// GrowHistory raises the history capacity to at least n. Capacity
	// never shrinks; the new slots read as missing.
	GrowHistory(n int)

	// Sync reports whether the node evaluates synchronously.
	Sync() bool

	// Evaluate recomputes the current value from the pre-requisites'
	// current values and pushes it into the history. Calling it on an
	// asynchronous node fails with ErrKindMismatch.
	Evaluate() error

	// EvaluateAsync is the asynchronous counterpart of Evaluate. Calling
	// it on a synchronous node fails with ErrKindMismatch.
	EvaluateAsync(ctx context.Context) error
}

// Current returns n's most recent value. A node always has at least one
// history slot, so the k=0 read cannot fail.
func Current(n Node) Value {
	v, _ := n.At(0)
	return v
}

// history is a fixed-capacity ring buffer addressed most-recent-first.
type history struct {
	buf  []Value
	head int
}

func newHistory(capacity int) history {
	if capacity < 1 {
		capacity = 1
	}
	return history{buf: make([]Value, capacity)}
}

func (h *history) cap() int {
	return len(h.buf)
}

func (h *history) push(v Value) {
	h.head = (h.head + 1) % len(h.buf)
	h.buf[h.head] = v
}

func (h *history) at(k int) (Value, bool) {
	if k < 0 || k >= len(h.buf) {
		return Value{}, false
	}
	n := len(h.buf)
	return h.buf[((h.head-k)%n+n)%n], true
}

// grow rebuilds the buffer with capacity n, preserving every addressable
// value and padding the older slots with missing.
func (h *history) grow(n int) {
	if n <= len(h.buf) {
		return
	}
	buf := make([]Value, n)
	for k := 0; k < len(h.buf); k++ {
		v, _ := h.at(k)
		buf[n-1-k] = v
	}
	h.buf = buf
	h.head = n - 1
}

// Base carries the state shared by every node kind: identity, history,
// pre-requisites and downstream back-references. Concrete node types embed
// it and override Evaluate or EvaluateAsync.
type Base struct {
	id   int64
	def  Value
	hist history
	pres []Node
	deps map[int64]Node
	sync bool
}

// NewBase assembles the shared node state. The history is seeded with the
// default value, so At(0) is well-defined before the first tick. Duplicate
// pre-requisites are a construction-time programming error and panic.
func NewBase(s *Space, pres []Node, opts ...Option) Base {
	cfg := s.newConfig(opts)
	seen := make(map[int64]struct{}, len(pres))
	for _, p := range pres {
		if _, dup := seen[p.ID()]; dup {
			panic(fmt.Sprintf("node: duplicate pre-requisite %d", p.ID()))
		}
		seen[p.ID()] = struct{}{}
	}
	b := Base{
		id:   s.nextID(),
		def:  cfg.def,
		hist: newHistory(cfg.histLen),
		pres: pres,
		sync: true,
	}
	b.Set(cfg.def)
	return b
}

// Link records n as a dependent of each of its pre-requisites. Every
// concrete constructor must call it once the node is assembled; without it
// the resolver cannot walk the graph forward.
func Link(n Node) {
	for _, p := range n.PreRequisites() {
		if r, ok := p.(dependentRecorder); ok {
			r.addDependent(n)
		}
	}
}

type dependentRecorder interface {
	addDependent(Node)
}

func (b *Base) addDependent(n Node) {
	if b.deps == nil {
		b.deps = make(map[int64]Node)
	}
	b.deps[n.ID()] = n
}

func (b *Base) ID() int64 { return b.id }

func (b *Base) Default() Value { return b.def }

func (b *Base) At(k int) (Value, error) {
	v, ok := b.hist.at(k)
	if !ok {
		return Value{}, fmt.Errorf("node %d: index %d with capacity %d: %w", b.id, k, b.hist.cap(), ErrOutOfRange)
	}
	return v, nil
}

// Set pushes v as the node's new current value, evicting the oldest entry.
func (b *Base) Set(v Value) {
	b.hist.push(v)
}

func (b *Base) PreRequisites() []Node { return b.pres }

func (b *Base) Dependents() []Node {
	out := make([]Node, 0, len(b.deps))
	for _, d := range b.deps {
		out = append(out, d)
	}
	return out
}

func (b *Base) GrowHistory(n int) {
	b.hist.grow(n)
}

// HistoryCap reports the current history capacity.
func (b *Base) HistoryCap() int { return b.hist.cap() }

func (b *Base) Sync() bool { return b.sync }

// markAsync flips the node to the asynchronous evaluation kind.
func (b *Base) markAsync() { b.sync = false }

// Evaluate is the kind-mismatch fallback; synchronous node types override
// it.
func (b *Base) Evaluate() error {
	return fmt.Errorf("node %d: synchronous evaluate on asynchronous node: %w", b.id, ErrKindMismatch)
}

// EvaluateAsync is the kind-mismatch fallback; asynchronous node types
// override it.
func (b *Base) EvaluateAsync(context.Context) error {
	return fmt.Errorf("node %d: asynchronous evaluate on synchronous node: %w", b.id, ErrKindMismatch)
}

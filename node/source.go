package node

import (
	"context"
	"fmt"
)

// Sequence is a pull-based producer of optional values. Next returns
// ok=false once the sequence is exhausted; that is the only clean way an
// orchestration run terminates.
type Sequence interface {
	Next() (Value, bool)
}

// SequenceFunc adapts a function to the Sequence interface.
type SequenceFunc func() (Value, bool)

func (f SequenceFunc) Next() (Value, bool) { return f() }

// SliceSequence yields a fixed slice of values, then reports exhaustion.
type SliceSequence struct {
	vals []Value
	i    int
}

// FromValues builds a finite sequence from explicit samples.
func FromValues(vals ...Value) *SliceSequence {
	return &SliceSequence{vals: vals}
}

// FromFloats builds a finite sequence where every sample is present.
func FromFloats(fs ...float64) *SliceSequence {
	vals := make([]Value, len(fs))
	for i, f := range fs {
		vals[i] = Some(f)
	}
	return &SliceSequence{vals: vals}
}

func (s *SliceSequence) Next() (Value, bool) {
	if s.i >= len(s.vals) {
		return Value{}, false
	}
	v := s.vals[s.i]
	s.i++
	return v, true
}

// AsyncSequence is the asynchronous counterpart of Sequence. Next blocks
// until a value arrives, the producer finishes (ok=false), or ctx is
// cancelled.
type AsyncSequence interface {
	Next(ctx context.Context) (Value, bool, error)
}

// ChannelSequence adapts a channel of values to AsyncSequence. A closed
// channel means exhaustion.
type ChannelSequence struct {
	ch <-chan Value
}

func FromChannel(ch <-chan Value) *ChannelSequence {
	return &ChannelSequence{ch: ch}
}

func (c *ChannelSequence) Next(ctx context.Context) (Value, bool, error) {
	select {
	case v, ok := <-c.ch:
		return v, ok, nil
	case <-ctx.Done():
		return Value{}, false, ctx.Err()
	}
}

// RawSource is a basis node fed by a synchronous sequence. Each tick pulls
// exactly one value.
type RawSource struct {
	Base
	seq Sequence
}

func (s *Space) RawSource(seq Sequence, opts ...Option) *RawSource {
	r := &RawSource{Base: NewBase(s, nil, opts...), seq: seq}
	Link(r)
	return r
}

// Series is shorthand for a RawSource over a fixed slice of samples.
func (s *Space) Series(vals ...Value) *RawSource {
	return s.RawSource(FromValues(vals...))
}

func (r *RawSource) Evaluate() error {
	v, ok := r.seq.Next()
	if !ok {
		return fmt.Errorf("node %d: %w", r.ID(), ErrExhausted)
	}
	r.Set(v)
	return nil
}

// AsyncRawSource is a basis node fed by an asynchronous sequence.
type AsyncRawSource struct {
	Base
	seq AsyncSequence
}

func (s *Space) AsyncRawSource(seq AsyncSequence, opts ...Option) *AsyncRawSource {
	r := &AsyncRawSource{Base: NewBase(s, nil, opts...), seq: seq}
	r.markAsync()
	Link(r)
	return r
}

func (r *AsyncRawSource) EvaluateAsync(ctx context.Context) error {
	v, ok, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("node %d: %w", r.ID(), err)
	}
	if !ok {
		return fmt.Errorf("node %d: %w", r.ID(), ErrExhausted)
	}
	r.Set(v)
	return nil
}

// Const always reads as its fixed value, at any history offset, and has no
// pre-requisites.
type Const struct {
	Base
}

func (s *Space) Const(f float64) *Const {
	return s.ConstValue(Some(f))
}

func (s *Space) ConstValue(v Value) *Const {
	c := &Const{Base: NewBase(s, nil, WithDefault(v))}
	return c
}

func (c *Const) At(k int) (Value, error) {
	if k < 0 {
		return Value{}, fmt.Errorf("node %d: index %d: %w", c.ID(), k, ErrOutOfRange)
	}
	return c.Default(), nil
}

func (c *Const) Evaluate() error { return nil }

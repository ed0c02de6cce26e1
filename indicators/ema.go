// Package indicators is the catalogue of derived-signal nodes built on the
// core graph: recurrences like EMA, window composites like Bollinger bands,
// and small stateful helpers. Everything here is a plain node; the
// orchestrator treats it like any other vertex.
package indicators

import (
	"fmt"

	"github.com/rustyeddy/signalflow/node"
)

// EMA is an exponential moving average with a fixed forward weight:
// ema(t) = ema(t-1)*(1-w) + v(t)*w. The first non-missing source value
// seeds the average; a missing source value resets the node to its default.
type EMA struct {
	node.Base
	source node.Node
	weight float64
}

func NewEMA(sp *node.Space, source node.Node, weight float64, opts ...node.Option) (*EMA, error) {
	if weight <= 0 || weight >= 1 {
		return nil, fmt.Errorf("indicators: ema forward weight must be in (0, 1), got %v", weight)
	}
	e := &EMA{
		Base:   node.NewBase(sp, []node.Node{source}, opts...),
		source: source,
		weight: weight,
	}
	node.Link(e)
	return e, nil
}

func (e *EMA) Evaluate() error {
	v := node.Current(e.source)
	prev := node.Current(e)
	switch {
	case !v.Valid:
		e.Set(e.Default())
	case !prev.Valid:
		e.Set(v)
	default:
		e.Set(node.Some(prev.F*(1-e.weight) + v.F*e.weight))
	}
	return nil
}

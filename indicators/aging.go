package indicators

import "github.com/rustyeddy/signalflow/node"

// Aging counts consecutive ticks on which its source is truthy. A falsy or
// missing source value resets the age to zero. Useful for "condition has
// held for N ticks" signals.
type Aging struct {
	node.Base
	source node.Node
}

func NewAging(sp *node.Space, source node.Node) *Aging {
	a := &Aging{
		Base:   node.NewBase(sp, []node.Node{source}, node.WithDefault(node.Some(0))),
		source: source,
	}
	node.Link(a)
	return a
}

func (a *Aging) Evaluate() error {
	if node.Current(a.source).Bool() {
		a.Set(node.Some(node.Current(a).Or(0) + 1))
	} else {
		a.Set(node.Some(0))
	}
	return nil
}

package indicators

import "github.com/rustyeddy/signalflow/node"

// PrevDiff publishes v(0) - v(1) of its source, the one-tick change. When
// either sample is missing the node falls back to its default, which is 0
// unless overridden.
type PrevDiff struct {
	node.Base
	source node.Node
}

func NewPrevDiff(sp *node.Space, source node.Node, opts ...node.Option) *PrevDiff {
	source.GrowHistory(2)
	opts = append([]node.Option{node.WithDefault(node.Some(0))}, opts...)
	d := &PrevDiff{
		Base:   node.NewBase(sp, []node.Node{source}, opts...),
		source: source,
	}
	node.Link(d)
	return d
}

func (d *PrevDiff) Evaluate() error {
	v0 := node.Current(d.source)
	v1, err := d.source.At(1)
	if err != nil {
		return err
	}
	if v0.Valid && v1.Valid {
		d.Set(node.Some(v0.F - v1.F))
	} else {
		d.Set(d.Default())
	}
	return nil
}

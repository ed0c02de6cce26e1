package stats

import "github.com/rustyeddy/signalflow/node"

// SMA is a simple moving average over the trailing window of its source.
// Missing values contribute zero to the running sum but shrink the
// denominator, so SMA(src, n) = sum(window) / (n - missing). When every
// value in the window is missing the node publishes its default value.
type SMA struct {
	tracking
	sum float64
}

func NewSMA(sp *node.Space, source node.Node, window int, opts ...node.Option) (*SMA, error) {
	t, err := newTracking(sp, source, window, opts...)
	if err != nil {
		return nil, err
	}
	m := &SMA{tracking: t}
	node.Link(m)
	return m, nil
}

func (m *SMA) Evaluate() error {
	removed, added := m.shift()
	m.sum -= removed.Or(0)
	m.sum += added.Or(0)
	if n := m.live(); n > 0 {
		m.Set(node.Some(m.sum / float64(n)))
	} else {
		m.Set(m.Default())
	}
	return nil
}

package stats

import "github.com/rustyeddy/signalflow/node"

// Historical maintains an order-statistics multiset of the non-missing
// values in the trailing window. The node's own value is the window median;
// Min and Max expose the extremes as separate view nodes reading the same
// multiset. With no live values in the window every statistic is the
// default value.
type Historical struct {
	tracking
	set orderedSet

	minNode node.Node
	maxNode node.Node
}

func NewHistorical(sp *node.Space, source node.Node, window int, opts ...node.Option) (*Historical, error) {
	t, err := newTracking(sp, source, window, opts...)
	if err != nil {
		return nil, err
	}
	h := &Historical{tracking: t}
	// View nodes depend on h, so the resolver places them a layer later
	// and they observe the multiset state of the same tick.
	h.minNode = sp.Apply(func([]node.Value) (node.Value, error) {
		if h.set.len() == 0 {
			return h.Default(), nil
		}
		return node.Some(h.set.min()), nil
	}, []node.Node{h}, node.WithSafeNone(false))
	h.maxNode = sp.Apply(func([]node.Value) (node.Value, error) {
		if h.set.len() == 0 {
			return h.Default(), nil
		}
		return node.Some(h.set.max()), nil
	}, []node.Node{h}, node.WithSafeNone(false))
	node.Link(h)
	return h, nil
}

// Min is the smallest non-missing value in the window.
func (h *Historical) Min() node.Node { return h.minNode }

// Max is the largest non-missing value in the window.
func (h *Historical) Max() node.Node { return h.maxNode }

func (h *Historical) Evaluate() error {
	removed, added := h.shift()
	if removed.Valid {
		h.set.remove(removed.F)
	}
	if added.Valid {
		h.set.insert(added.F)
	}
	if h.set.len() == 0 {
		h.Set(h.Default())
		return nil
	}
	h.Set(node.Some(h.median()))
	return nil
}

func (h *Historical) median() float64 {
	n := h.set.len()
	if n%2 == 1 {
		return h.set.kth(n / 2)
	}
	return (h.set.kth(n/2-1) + h.set.kth(n/2)) / 2
}

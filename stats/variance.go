package stats

import "github.com/rustyeddy/signalflow/node"

// Variance is the population variance over the non-missing values in the
// trailing window, maintained from a running sum and sum of squares. When
// the window holds no live values it publishes its default value.
type Variance struct {
	tracking
	sum       float64
	squareSum float64
}

func NewVariance(sp *node.Space, source node.Node, window int, opts ...node.Option) (*Variance, error) {
	t, err := newTracking(sp, source, window, opts...)
	if err != nil {
		return nil, err
	}
	v := &Variance{tracking: t}
	node.Link(v)
	return v, nil
}

func (v *Variance) Evaluate() error {
	removed, added := v.shift()
	if removed.Valid {
		v.sum -= removed.F
		v.squareSum -= removed.F * removed.F
	}
	if added.Valid {
		v.sum += added.F
		v.squareSum += added.F * added.F
	}
	if n := v.live(); n > 0 {
		mean := v.sum / float64(n)
		v.Set(node.Some(v.squareSum/float64(n) - mean*mean))
	} else {
		v.Set(v.Default())
	}
	return nil
}

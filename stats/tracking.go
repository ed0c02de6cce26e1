// Package stats holds the incremental sliding-window aggregator nodes.
// Each aggregator tracks a bounded trailing window of one upstream node's
// values and maintains an auxiliary summary (running sum, sum of squares,
// an order-statistics multiset) that is updated by a remove-then-add pair
// every tick instead of rescanning the window.
package stats

import (
	"fmt"

	"github.com/rustyeddy/signalflow/node"
)

// tracking is the shared window-bookkeeping state. The tracked source's
// history is grown to window+1 slots so that, after the source evaluates,
// At(window) still holds the value that just slid out of the window and
// At(0) holds the one that slid in.
type tracking struct {
	node.Base
	source    node.Node
	window    int
	noneCount int
}

func newTracking(sp *node.Space, source node.Node, window int, opts ...node.Option) (tracking, error) {
	if window <= 0 {
		return tracking{}, fmt.Errorf("stats: window length must be positive, got %d", window)
	}
	source.GrowHistory(window + 1)
	return tracking{
		Base:   node.NewBase(sp, []node.Node{source}, opts...),
		source: source,
		window: window,
		// The window starts life holding only missing values.
		noneCount: window,
	}, nil
}

// shift reads the value evicted from the window and the value that just
// entered it, adjusting the missing-value count for both. Aggregates must
// apply the removal before the insertion to keep their running summaries
// equal to the true window contents.
func (t *tracking) shift() (removed, added node.Value) {
	removed, _ = t.source.At(t.window)
	if !removed.Valid {
		t.noneCount--
	}
	added = node.Current(t.source)
	if !added.Valid {
		t.noneCount++
	}
	return removed, added
}

// live is the number of non-missing values currently inside the window.
func (t *tracking) live() int {
	return t.window - t.noneCount
}

// Window reports the fixed window length.
func (t *tracking) Window() int {
	return t.window
}

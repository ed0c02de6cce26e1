package orchestrate

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/signalflow/node"
)

// concurrent partitions each layer once into synchronous and asynchronous
// sub-lists. Per tick and per layer the synchronous nodes run sequentially,
// then every asynchronous node is launched in one errgroup batch: the first
// failure cancels the batch context and aborts the remaining evaluations.
// Batching per layer keeps the number of suspension points proportional to
// the layer count, not the node count.
type concurrent struct {
	layers []partitionedLayer
}

type partitionedLayer struct {
	syncs  []node.Node
	asyncs []node.Node
}

func newConcurrent(layers [][]node.Node) *concurrent {
	c := &concurrent{layers: make([]partitionedLayer, 0, len(layers))}
	for _, layer := range layers {
		var pl partitionedLayer
		for _, n := range layer {
			if n.Sync() {
				pl.syncs = append(pl.syncs, n)
			} else {
				pl.asyncs = append(pl.asyncs, n)
			}
		}
		c.layers = append(c.layers, pl)
	}
	return c
}

func (c *concurrent) tick(ctx context.Context) error {
	for _, layer := range c.layers {
		for _, n := range layer.syncs {
			if err := n.Evaluate(); err != nil {
				return err
			}
		}
		if len(layer.asyncs) == 0 {
			continue
		}
		g, gctx := errgroup.WithContext(ctx)
		for _, n := range layer.asyncs {
			g.Go(func() error {
				return n.EvaluateAsync(gctx)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}

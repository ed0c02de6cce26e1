package orchestrate

import (
	"context"

	"github.com/rustyeddy/signalflow/node"
)

// sequential evaluates every node of every layer on the calling goroutine.
// Within a layer the iteration order is arbitrary; co-layer nodes have no
// dependency between them, so the published record does not depend on it.
type sequential struct {
	layers [][]node.Node
}

func (s sequential) tick(context.Context) error {
	for _, layer := range s.layers {
		for _, n := range layer {
			if err := n.Evaluate(); err != nil {
				return err
			}
		}
	}
	return nil
}

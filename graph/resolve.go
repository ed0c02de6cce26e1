// Package graph linearizes a dependency-node graph into execution layers.
//
// Layering follows Kahn's method: layer 0 holds the basis nodes (no
// pre-requisites); each later layer holds the nodes whose pending
// pre-requisites were all consumed by earlier layers. Nodes sharing a layer
// have no dependency between them and are safe to evaluate in any relative
// order.
package graph

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/signalflow/node"
)

var (
	// ErrCannotResolve is the common ancestor of all structural graph
	// errors. They are raised once, before any tick runs, and are
	// unrecoverable for the requested sink set.
	ErrCannotResolve = errors.New("cannot resolve node graph")

	// ErrNoBasis means the transitive closure holds no node without
	// pre-requisites; the closure is empty or entirely cyclic.
	ErrNoBasis = fmt.Errorf("no basis node in closure: %w", ErrCannotResolve)

	// ErrCyclic means layering left unresolved nodes behind, which only a
	// dependency cycle can cause.
	ErrCyclic = fmt.Errorf("unresolved nodes remain, dependency cycle suspected: %w", ErrCannotResolve)
)

// Closure returns the transitive pre-requisite closure of the sink nodes,
// sinks included, via depth-first traversal. It does not detect cycles.
func Closure(sinks ...node.Node) []node.Node {
	visited := make(map[int64]struct{})
	var out []node.Node

	var dfs func(n node.Node)
	dfs = func(n node.Node) {
		if _, ok := visited[n.ID()]; ok {
			return
		}
		visited[n.ID()] = struct{}{}
		out = append(out, n)
		for _, p := range n.PreRequisites() {
			dfs(p)
		}
	}
	for _, s := range sinks {
		dfs(s)
	}
	return out
}

// Layers partitions the closure of the sinks into ordered execution layers.
// Every node lands in a strictly later layer than all of its
// pre-requisites. Structural failures are ErrNoBasis and ErrCyclic.
func Layers(sinks ...node.Node) ([][]node.Node, error) {
	closure := Closure(sinks...)
	inClosure := make(map[int64]struct{}, len(closure))
	for _, n := range closure {
		inClosure[n.ID()] = struct{}{}
	}

	// Forward adjacency restricted to the closure, and the pending
	// pre-requisite count each node must see drained before it can run.
	forward := make(map[int64][]node.Node, len(closure))
	pending := make(map[int64]int, len(closure))
	for _, n := range closure {
		count := 0
		for _, p := range n.PreRequisites() {
			if _, ok := inClosure[p.ID()]; ok {
				count++
			}
		}
		pending[n.ID()] = count
		for _, d := range n.Dependents() {
			if _, ok := inClosure[d.ID()]; ok {
				forward[n.ID()] = append(forward[n.ID()], d)
			}
		}
	}

	var layers [][]node.Node
	var current []node.Node
	for _, n := range closure {
		if pending[n.ID()] == 0 {
			current = append(current, n)
		}
	}
	if len(current) == 0 {
		return nil, ErrNoBasis
	}

	resolved := 0
	for len(current) > 0 {
		layers = append(layers, current)
		resolved += len(current)
		var next []node.Node
		for _, n := range current {
			for _, d := range forward[n.ID()] {
				pending[d.ID()]--
				if pending[d.ID()] == 0 {
					next = append(next, d)
				}
			}
		}
		current = next
	}

	if resolved != len(closure) {
		return nil, ErrCyclic
	}
	return layers, nil
}

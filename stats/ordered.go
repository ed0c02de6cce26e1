package stats

import "math/rand/v2"

// orderedSet is an order-statistics multiset of float64 samples backed by a
// treap with subtree counts. Insert, remove and rank access are O(log n)
// with high probability, which keeps the min/max/median aggregator at
// O(log n) per tick regardless of window length.
type orderedSet struct {
	root *treapNode
}

type treapNode struct {
	key         float64
	pri         uint64
	size        int
	left, right *treapNode
}

func size(t *treapNode) int {
	if t == nil {
		return 0
	}
	return t.size
}

func (t *treapNode) refresh() {
	t.size = size(t.left) + size(t.right) + 1
}

// merge joins two treaps; every key in a must be <= every key in b.
func merge(a, b *treapNode) *treapNode {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.pri > b.pri {
		a.right = merge(a.right, b)
		a.refresh()
		return a
	}
	b.left = merge(a, b.left)
	b.refresh()
	return b
}

// split partitions t into keys < key and keys >= key.
func split(t *treapNode, key float64) (lt, ge *treapNode) {
	if t == nil {
		return nil, nil
	}
	if t.key < key {
		lt, ge = split(t.right, key)
		t.right = lt
		t.refresh()
		return t, ge
	}
	lt, ge = split(t.left, key)
	t.left = ge
	t.refresh()
	return lt, t
}

func (s *orderedSet) len() int {
	return size(s.root)
}

func (s *orderedSet) insert(key float64) {
	lt, ge := split(s.root, key)
	n := &treapNode{key: key, pri: rand.Uint64(), size: 1}
	s.root = merge(merge(lt, n), ge)
}

// remove erases one occurrence of key. It reports whether the key was
// present.
func (s *orderedSet) remove(key float64) bool {
	var removed bool
	var rec func(t *treapNode) *treapNode
	rec = func(t *treapNode) *treapNode {
		if t == nil {
			return nil
		}
		switch {
		case key < t.key:
			t.left = rec(t.left)
		case key > t.key:
			t.right = rec(t.right)
		default:
			removed = true
			return merge(t.left, t.right)
		}
		t.refresh()
		return t
	}
	s.root = rec(s.root)
	return removed
}

// kth returns the i-th smallest key, 0-based. The caller must keep i within
// range.
func (s *orderedSet) kth(i int) float64 {
	t := s.root
	for {
		l := size(t.left)
		switch {
		case i < l:
			t = t.left
		case i == l:
			return t.key
		default:
			i -= l + 1
			t = t.right
		}
	}
}

func (s *orderedSet) min() float64 {
	t := s.root
	for t.left != nil {
		t = t.left
	}
	return t.key
}

func (s *orderedSet) max() float64 {
	t := s.root
	for t.right != nil {
		t = t.right
	}
	return t.key
}

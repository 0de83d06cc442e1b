// Package blockdex provides a balanced 3-dimensional k-d tree that is
// built once from a fixed item set and then answers nearest-neighbor
// queries under squared Euclidean distance.
package blockdex

import (
	"sort"

	"github.com/okanos/blockdex/number"
)

// Index is a spatial index over items keyed by 3-component coordinates.
// It is immutable after New returns and safe for any number of
// concurrent FindClosest callers.
type Index[T number.Number, U any] struct {
	root *node[T, U]
	size int
}

// New builds an index from items, computing each item's coordinate with
// keyFn. keyFn must be pure and deterministic. An empty item slice
// yields a valid index that answers every query with "not found".
//
// Construction is eager: the whole tree is materialized by recursive
// median partitioning before New returns. Given the same item order and
// key function, the resulting tree is identical between runs.
func New[T number.Number, U any](items []U, keyFn func(U) Key[T]) *Index[T, U] {
	nodes := make([]*node[T, U], len(items))
	for i, item := range items {
		nodes[i] = &node[T, U]{
			key:  keyFn(item),
			item: item,
		}
	}
	return &Index[T, U]{
		root: buildTree(nodes, Axis0),
		size: len(items),
	}
}

// Len returns the number of stored items.
func (ix *Index[T, U]) Len() int {
	if ix == nil {
		return 0
	}
	return ix.size
}

// buildTree partitions nodes into a balanced subtree splitting on axis.
// Nodes are sorted descending by their axis component, the list is cut
// at len/2, and the tail element of the left half becomes the subtree
// root. The left half therefore holds components >= the pivot's and the
// right half components <= it, which is the invariant the search prunes
// against. Ties may land on either side.
func buildTree[T number.Number, U any](nodes []*node[T, U], axis Axis) *node[T, U] {
	if len(nodes) == 0 {
		return nil
	}
	if len(nodes) == 1 {
		n := nodes[0]
		n.axis = axis
		return n
	}

	sort.Slice(nodes, func(i, j int) bool {
		return nodes[j].key[axis] < nodes[i].key[axis]
	})

	median := len(nodes) / 2
	pivot := nodes[median-1]
	pivot.axis = axis
	pivot.left = buildTree(nodes[:median-1], axis.Next())
	pivot.right = buildTree(nodes[median:], axis.Next())
	return pivot
}

// FindClosest returns the payload of the stored item whose coordinate
// minimizes squared Euclidean distance to target, or (nil, false) when
// the index is empty. Ties between equally distant items resolve to
// whichever candidate the search encountered first.
//
// Branch pruning compares the splitting node's unsquared axis gap
// against the squared best distance. For keys whose nonzero component
// differences are at least 1 (any integer key) the gap never exceeds
// its own square and the result is an exact minimizer; floating-point
// keys with sub-unit gaps may skip a marginally closer item.
func (ix *Index[T, U]) FindClosest(target Key[T]) (*U, bool) {
	if ix == nil || ix.root == nil {
		return nil, false
	}
	n := findClosest(ix.root, target)
	return &n.item, true
}

func findClosest[T number.Number, U any](n *node[T, U], target Key[T]) *node[T, U] {
	if n.isLeaf() {
		return n
	}

	goLeft := target[n.axis] < n.key[n.axis]
	best := descend(n, target, goLeft)
	best = closer(target, best, n)

	// The far branch can still hold a closer point when the splitting
	// plane lies within the best distance found so far.
	if n.key.gap(target, n.axis) < best.sqDist(target) {
		best = closer(target, best, descend(n, target, !goLeft))
	}

	return closer(target, best, n)
}

// descend searches the child on the chosen side, falling back to n
// itself when that child is absent.
func descend[T number.Number, U any](n *node[T, U], target Key[T], goLeft bool) *node[T, U] {
	child := n.right
	if goLeft {
		child = n.left
	}
	if child == nil {
		return n
	}
	return findClosest(child, target)
}

func closer[T number.Number, U any](target Key[T], a, b *node[T, U]) *node[T, U] {
	if a.sqDist(target) < b.sqDist(target) {
		return a
	}
	return b
}

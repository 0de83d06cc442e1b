package blockdex

import (
	"github.com/okanos/blockdex/number"
)

// Axis identifies which of the three key components a tree level
// partitions on.
type Axis uint8

const (
	Axis0 Axis = iota
	Axis1
	Axis2
)

// Next returns the axis used one level deeper in the tree. Axes cycle
// Axis0 -> Axis1 -> Axis2 -> Axis0.
func (a Axis) Next() Axis {
	if a == Axis2 {
		return Axis0
	}
	return a + 1
}

// Key is a 3-component coordinate.
type Key[T number.Number] [3]T

// SqDist returns the squared Euclidean distance between k and other.
// Differences are widened to float64 before squaring, so integer keys
// never wrap; components whose differences exceed 2^53 may lose
// precision in tie decisions.
func (k Key[T]) SqDist(other Key[T]) float64 {
	d0 := float64(k[0]) - float64(other[0])
	d1 := float64(k[1]) - float64(other[1])
	d2 := float64(k[2]) - float64(other[2])
	return d0*d0 + d1*d1 + d2*d2
}

// gap returns the absolute component difference between k and other
// along axis a. Note this is a plain distance, not squared.
func (k Key[T]) gap(other Key[T], a Axis) float64 {
	return number.Abs(float64(k[a]) - float64(other[a]))
}

type node[T number.Number, U any] struct {
	key   Key[T]
	item  U
	axis  Axis
	left  *node[T, U]
	right *node[T, U]
}

func (n *node[T, U]) isLeaf() bool {
	return n.left == nil && n.right == nil
}

func (n *node[T, U]) sqDist(target Key[T]) float64 {
	return n.key.SqDist(target)
}

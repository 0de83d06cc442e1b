package blockdex

import (
	"fmt"
	"io"
	"strings"

	"github.com/okanos/blockdex/number"
)

// Dot writes a graphviz description of the tree structure to w. Each
// node is assigned a sequential id in pre-order and labeled with its
// split axis and coordinate; edges to children carry left/right labels.
// Diagnostic only.
func (ix *Index[T, U]) Dot(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "graph blockdex {"); err != nil {
		return err
	}
	if ix != nil && ix.root != nil {
		if _, err := dotNode(ix.root, w, 0); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

// DotString is Dot rendered to a string.
func (ix *Index[T, U]) DotString() string {
	var sb strings.Builder
	ix.Dot(&sb)
	return sb.String()
}

func dotNode[T number.Number, U any](n *node[T, U], w io.Writer, id uint64) (uint64, error) {
	if _, err := fmt.Fprintf(w, "%d [label=\"%d@(%v,%v,%v)\"]\n",
		id, n.axis, n.key[0], n.key[1], n.key[2]); err != nil {
		return 0, err
	}

	nextID := id + 1
	if n.left != nil {
		if _, err := fmt.Fprintf(w, "%d -- %d [label=\"left\"]\n", id, nextID); err != nil {
			return 0, err
		}
		var err error
		if nextID, err = dotNode(n.left, w, nextID); err != nil {
			return 0, err
		}
	}
	if n.right != nil {
		if _, err := fmt.Fprintf(w, "%d -- %d [label=\"right\"]\n", id, nextID); err != nil {
			return 0, err
		}
		var err error
		if nextID, err = dotNode(n.right, w, nextID); err != nil {
			return 0, err
		}
	}
	return nextID, nil
}

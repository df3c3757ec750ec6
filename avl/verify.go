// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package avl

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Verify checks the structural invariants of the table: elements are in
// strictly increasing order, every balance factor is in [-1, +1] and matches
// the subtree heights, parent pointers are consistent, and the element count
// is accurate.
func (t *Table[T]) Verify() error {
	if t.root != nil && t.root.parent != nil {
		return errors.AssertionFailedf("avl: root has a parent")
	}
	var v verifier[T]
	v.cmp = t.cmp
	if _, err := v.walk(t.root); err != nil {
		return err
	}
	if v.count != t.count {
		return errors.AssertionFailedf("avl: count is %d, but found %d elements", t.count, v.count)
	}
	return nil
}

type verifier[T any] struct {
	cmp   Compare[T]
	prev  *Node[T]
	count int
}

func (v *verifier[T]) walk(n *Node[T]) (height int, err error) {
	if n == nil {
		return 0, nil
	}
	if n.left != nil && n.left.parent != n {
		return 0, errors.AssertionFailedf("avl: left child of %v does not point to its parent", n.item)
	}
	if n.right != nil && n.right.parent != n {
		return 0, errors.AssertionFailedf("avl: right child of %v does not point to its parent", n.item)
	}
	lh, err := v.walk(n.left)
	if err != nil {
		return 0, err
	}
	if v.prev != nil && v.cmp(v.prev.item, n.item) >= 0 {
		return 0, errors.AssertionFailedf("avl: items are not sorted: %v >= %v", v.prev.item, n.item)
	}
	v.prev = n
	v.count++
	rh, err := v.walk(n.right)
	if err != nil {
		return 0, err
	}
	if d := rh - lh; d < -1 || d > 1 {
		return 0, errors.AssertionFailedf("avl: %v is unbalanced: heights %d and %d", n.item, lh, rh)
	} else if d != int(n.balance) {
		return 0, errors.AssertionFailedf("avl: %v has balance %d, but heights %d and %d",
			n.item, n.balance, lh, rh)
	}
	return 1 + max(lh, rh), nil
}

// String returns an indented rendering of the tree, largest element first,
// with each node annotated with its balance factor. It is intended for tests
// and debugging.
func (t *Table[T]) String() string {
	var b strings.Builder
	var walk func(n *Node[T], depth int)
	walk = func(n *Node[T], depth int) {
		if n == nil {
			return
		}
		walk(n.right, depth+1)
		fmt.Fprintf(&b, "%s%v (%+d)\n", strings.Repeat("  ", depth), n.item, n.balance)
		walk(n.left, depth+1)
	}
	walk(t.root, 0)
	return b.String()
}

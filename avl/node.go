// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package avl

import "github.com/cockroachdb/ordered/internal/invariants"

// Node is a node in a Table. A *Node is the handle returned by Insert and
// lookups; it stays valid, and keeps referring to the same element, until
// that element is deleted from the table. Deleting other elements never moves
// an element to a different node.
type Node[T any] struct {
	item                T
	parent, left, right *Node[T]
	// balance is height(right) - height(left), always in [-1, +1] outside of
	// a rebalancing step.
	balance int8
	// gen is incremented every time the node is released. A Cursor uses it to
	// detect that the node it last returned has been deleted.
	gen uint32
	// owner is the table the node belongs to, tracked in invariant builds.
	owner invariants.Value[*token]
}

// Item returns a pointer to the element stored in the node. The element may be
// modified in place as long as its position under the table's ordering does
// not change.
func (n *Node[T]) Item() *T {
	return &n.item
}

// Next returns the in-order successor of n, or nil if n is the last node.
func (n *Node[T]) Next() *Node[T] {
	if n.right != nil {
		n = n.right
		for n.left != nil {
			n = n.left
		}
		return n
	}
	for n.parent != nil && n == n.parent.right {
		n = n.parent
	}
	return n.parent
}

// Prev returns the in-order predecessor of n, or nil if n is the first node.
func (n *Node[T]) Prev() *Node[T] {
	if n.left != nil {
		n = n.left
		for n.right != nil {
			n = n.right
		}
		return n
	}
	for n.parent != nil && n == n.parent.left {
		n = n.parent
	}
	return n.parent
}

// token identifies a table in invariant builds. It survives MoveFrom, so the
// nodes of a moved table keep matching it.
type token struct {
	_ byte
}

// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package avl

// Cursor is the resumable position of an ascending enumeration of a Table.
// The zero value starts at the smallest element.
//
// A cursor remembers the node it last returned. If that node is still in the
// table the enumeration continues with its in-order successor; if it has been
// deleted in the meantime, the enumeration continues with the smallest element
// ordering after the one last returned. Deleting the element just returned
// before the next call is therefore always safe, which is what Clear relies
// on.
//
// A Cursor must not be shared by concurrent enumerations.
type Cursor[T any] struct {
	last *Node[T]
	gen  uint32
	key  T
	done bool
}

// Reset positions the cursor before the smallest element.
func (c *Cursor[T]) Reset() {
	*c = Cursor[T]{}
}

// Done returns true once an enumeration with this cursor has been exhausted.
func (c *Cursor[T]) Done() bool {
	return c.done
}

// Enumerate returns the next node in ascending order and advances the cursor,
// or returns nil once every element has been returned. It never changes the
// shape of the tree. Pass a fresh Cursor to start over.
func (t *Table[T]) Enumerate(c *Cursor[T]) *Node[T] {
	var n *Node[T]
	switch {
	case c.done:
		return nil
	case c.last == nil:
		n = t.First()
	case c.last.gen == c.gen:
		n = c.last.Next()
	default:
		n = t.upperBound(c.key)
	}
	if n == nil {
		*c = Cursor[T]{done: true}
		return nil
	}
	c.last = n
	c.gen = n.gen
	c.key = n.item
	return n
}

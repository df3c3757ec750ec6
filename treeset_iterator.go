// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ordered

import "github.com/cockroachdb/ordered/avl"

// TreeSetIterator enumerates the elements of a TreeSet in ascending order. It
// can only be restarted from the beginning. Iterators over the same set are
// independent of each other.
//
// The set must not be modified while an iterator is in use, except that the
// element most recently returned by Next may be removed.
type TreeSetIterator[E any] struct {
	table  *avl.Table[E]
	cursor avl.Cursor[E]
	// next is the node Next returns, fetched ahead so that HasNext does not
	// advance the cursor.
	next *avl.Node[E]
	// fetched is set once next holds the result of the latest enumeration
	// step.
	fetched bool
}

// Reset positions the iterator before the smallest element.
func (it *TreeSetIterator[E]) Reset() {
	it.cursor.Reset()
	it.next = nil
	it.fetched = false
}

func (it *TreeSetIterator[E]) fetch() {
	if !it.fetched {
		it.next = it.table.Enumerate(&it.cursor)
		it.fetched = true
	}
}

// HasNext returns true if Next would return an element.
func (it *TreeSetIterator[E]) HasNext() bool {
	it.fetch()
	return it.next != nil
}

// Next returns the next element in ascending order, or nil once the iterator
// is exhausted. The element may be removed from the set before the next call.
func (it *TreeSetIterator[E]) Next() *E {
	it.fetch()
	n := it.next
	if n == nil {
		return nil
	}
	it.next = nil
	it.fetched = false
	return n.Item()
}

// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ilist

import "github.com/cockroachdb/errors"

// Iterator walks a list front to back. It is positioned between elements:
// Next moves past an element and returns it, and Remove unlinks the element
// most recently returned by Next.
type Iterator[T any] struct {
	head *Link[T]
	cur  *Link[T]
	// removed is set when cur is not an element that Remove may unlink: the
	// iterator has not returned an element yet, or it has already been removed.
	removed bool
}

// Iterator returns an iterator positioned before the first element.
func (l *List[T]) Iterator() Iterator[T] {
	l.lazyInit()
	return Iterator[T]{head: &l.head, cur: &l.head, removed: true}
}

// IteratorFrom returns an iterator positioned at e, which must be linked into
// l. The first call to Next returns the element after e.
func (l *List[T]) IteratorFrom(e *T) Iterator[T] {
	return Iterator[T]{head: &l.head, cur: l.mustBeLinked(e), removed: true}
}

// HasNext returns true if Next would return an element.
func (it *Iterator[T]) HasNext() bool {
	return it.cur.next != it.head
}

// Next advances the iterator and returns the element it moved past. It
// returns nil when the iterator is exhausted.
func (it *Iterator[T]) Next() *T {
	if !it.HasNext() {
		return nil
	}
	it.cur = it.cur.next
	it.removed = false
	return it.cur.elem
}

// Remove unlinks the element most recently returned by Next. The iterator
// steps back to the predecessor first, so iteration continues with the
// element that followed the removed one. Calling Remove again before the next
// call to Next panics.
func (it *Iterator[T]) Remove() {
	if it.removed {
		panic(errors.AssertionFailedf("ilist: Remove without a preceding Next"))
	}
	link := it.cur
	it.cur = link.prev
	it.removed = true
	unlink(link)
}

// DescendingIterator walks a list back to front, most recently added element
// first when elements are added with AddLast.
type DescendingIterator[T any] struct {
	head    *Link[T]
	cur     *Link[T]
	removed bool
}

// DescendingIterator returns an iterator positioned after the last element.
func (l *List[T]) DescendingIterator() DescendingIterator[T] {
	l.lazyInit()
	return DescendingIterator[T]{head: &l.head, cur: &l.head, removed: true}
}

// DescendingIteratorFrom returns an iterator positioned at e, which must be
// linked into l. The first call to Next returns the element before e.
func (l *List[T]) DescendingIteratorFrom(e *T) DescendingIterator[T] {
	return DescendingIterator[T]{head: &l.head, cur: l.mustBeLinked(e), removed: true}
}

// HasNext returns true if Next would return an element.
func (it *DescendingIterator[T]) HasNext() bool {
	return it.cur.prev != it.head
}

// Next moves the iterator one element towards the front and returns that
// element, or nil when the iterator is exhausted.
func (it *DescendingIterator[T]) Next() *T {
	if !it.HasNext() {
		return nil
	}
	it.cur = it.cur.prev
	it.removed = false
	return it.cur.elem
}

// Remove unlinks the element most recently returned by Next. Like
// Iterator.Remove, it panics unless Next was called since the last Remove.
func (it *DescendingIterator[T]) Remove() {
	if it.removed {
		panic(errors.AssertionFailedf("ilist: Remove without a preceding Next"))
	}
	link := it.cur
	it.cur = link.next
	it.removed = true
	unlink(link)
}

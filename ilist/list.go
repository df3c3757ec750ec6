// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package ilist implements an intrusive, circular, doubly linked list.
//
// The links live inside the elements, so adding and removing an element never
// allocates. A list is parametrized by an Accessor that returns the Link
// embedded in an element; an element can be a member of several lists at once
// by embedding several links.
//
// To iterate over a list l:
//
//	it := l.Iterator()
//	for it.HasNext() {
//		e := it.Next()
//		// do something with e; it.Remove() unlinks it.
//	}
package ilist

import (
	"iter"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/ordered/internal/invariants"
)

// Link is the pair of pointers embedded in an element. The zero value is a
// detached link. A link that is not in a list is always detached.
type Link[T any] struct {
	next, prev *Link[T]
	// elem is the element that embeds the link. It is recorded when the element
	// is linked.
	elem *T
}

// Linked returns true if the link is currently part of a list.
func (l *Link[T]) Linked() bool {
	return l.next != nil && l.next != l
}

func (l *Link[T]) detach() {
	l.next = l
	l.prev = l
	l.elem = nil
}

// Accessor returns the Link embedded in an element. It must return the same
// link for the same element every time.
type Accessor[T any] func(e *T) *Link[T]

// List is an intrusive doubly linked list. The list value itself is the
// sentinel of the ring and must not be copied once elements have been added;
// use MoveFrom to transfer the contents to another list.
type List[T any] struct {
	head     Link[T]
	accessor Accessor[T]
}

// New returns an empty list that finds the links of its elements with
// accessor.
func New[T any](accessor Accessor[T]) *List[T] {
	return new(List[T]).Init(accessor)
}

// Init initializes or clears list l. Elements that were in the list are not
// unlinked; use Clear for that.
func (l *List[T]) Init(accessor Accessor[T]) *List[T] {
	l.accessor = accessor
	l.head.detach()
	return l
}

func (l *List[T]) lazyInit() {
	if l.head.next == nil {
		l.head.detach()
	}
}

// Empty returns true iff the list is empty.
func (l *List[T]) Empty() bool {
	return !l.head.Linked()
}

// Len returns the number of elements in the list.
//
// NOTE: This is an O(n) operation.
func (l *List[T]) Len() int {
	n := 0
	for link := l.head.next; link != nil && link != &l.head; link = link.next {
		n++
	}
	return n
}

// Front returns the first element of the list, or nil.
func (l *List[T]) Front() *T {
	if l.Empty() {
		return nil
	}
	return l.head.next.elem
}

// Back returns the last element of the list, or nil.
func (l *List[T]) Back() *T {
	if l.Empty() {
		return nil
	}
	return l.head.prev.elem
}

// insertAfter links e into the ring immediately after at.
func (l *List[T]) insertAfter(at *Link[T], e *T) {
	link := l.accessor(e)
	if invariants.Enabled && link.Linked() {
		panic(errors.AssertionFailedf("ilist: element is already linked"))
	}
	link.elem = e
	link.prev = at
	link.next = at.next
	at.next.prev = link
	at.next = link
}

func unlink[T any](link *Link[T]) {
	link.prev.next = link.next
	link.next.prev = link.prev
	link.detach()
}

// AddFirst inserts e at the front of the list. The link of e must be
// detached.
func (l *List[T]) AddFirst(e *T) {
	l.lazyInit()
	l.insertAfter(&l.head, e)
}

// AddLast inserts e at the back of the list. The link of e must be detached.
func (l *List[T]) AddLast(e *T) {
	l.lazyInit()
	l.insertAfter(l.head.prev, e)
}

// AddBefore inserts e immediately before existing, which must be linked. The
// link of e must be detached.
func (l *List[T]) AddBefore(existing, e *T) {
	at := l.mustBeLinked(existing)
	l.insertAfter(at.prev, e)
}

// AddAfter inserts e immediately after existing, which must be linked. The
// link of e must be detached.
func (l *List[T]) AddAfter(existing, e *T) {
	at := l.mustBeLinked(existing)
	l.insertAfter(at, e)
}

func (l *List[T]) mustBeLinked(e *T) *Link[T] {
	link := l.accessor(e)
	if invariants.Enabled && !link.Linked() {
		panic(errors.AssertionFailedf("ilist: element is not linked"))
	}
	return link
}

// Remove unlinks e and resets its link to the detached state. It returns false
// if e was already detached.
func (l *List[T]) Remove(e *T) bool {
	link := l.accessor(e)
	if !link.Linked() {
		return false
	}
	unlink(link)
	return true
}

// RemoveFirst unlinks and returns the first element, or returns nil if the
// list is empty.
func (l *List[T]) RemoveFirst() *T {
	if l.Empty() {
		return nil
	}
	link := l.head.next
	e := link.elem
	unlink(link)
	return e
}

// RemoveLast unlinks and returns the last element, or returns nil if the list
// is empty.
func (l *List[T]) RemoveLast() *T {
	if l.Empty() {
		return nil
	}
	link := l.head.prev
	e := link.elem
	unlink(link)
	return e
}

// IndexOf returns the position of e in the list, or -1 if e is not in the
// list. O(n).
func (l *List[T]) IndexOf(e *T) int {
	target := l.accessor(e)
	i := 0
	for link := l.head.next; link != nil && link != &l.head; link = link.next {
		if link == target {
			return i
		}
		i++
	}
	return -1
}

// Contains returns true if e is in the list. O(n).
func (l *List[T]) Contains(e *T) bool {
	return l.IndexOf(e) >= 0
}

// Clear unlinks every element.
func (l *List[T]) Clear() {
	l.Drain(nil)
}

// Drain unlinks every element front to back and, if fn is non-nil, calls fn
// exactly once for each element after it has been unlinked. fn may release
// the element.
func (l *List[T]) Drain(fn func(e *T)) {
	it := l.Iterator()
	for it.HasNext() {
		e := it.Next()
		it.Remove()
		if fn != nil {
			fn(e)
		}
	}
}

// MoveFrom transfers the elements of src to l in O(1) and leaves src empty.
// Elements previously in l are unlinked first.
func (l *List[T]) MoveFrom(src *List[T]) {
	if l == src {
		return
	}
	l.Clear()
	l.accessor = src.accessor
	l.head.detach()
	if src.Empty() {
		src.lazyInit()
		return
	}
	next, prev := src.head.next, src.head.prev
	next.prev = &l.head
	prev.next = &l.head
	l.head.next = next
	l.head.prev = prev
	src.head.detach()
}

// All returns an iterator over the elements front to back. The element just
// yielded may be removed from the list before the iteration resumes.
func (l *List[T]) All() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for link := l.head.next; link != nil && link != &l.head; {
			next := link.next
			if !yield(link.elem) {
				return
			}
			link = next
		}
	}
}

// Backward returns an iterator over the elements back to front. The element
// just yielded may be removed from the list before the iteration resumes.
func (l *List[T]) Backward() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for link := l.head.prev; link != nil && link != &l.head; {
			prev := link.prev
			if !yield(link.elem) {
				return
			}
			link = prev
		}
	}
}

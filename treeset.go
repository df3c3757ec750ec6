// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ordered

import (
	"cmp"
	"iter"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/ordered/avl"
	"github.com/cockroachdb/ordered/internal/base"
	"github.com/cockroachdb/ordered/manual"
)

// TreeSet is an ordered set of elements.
type TreeSet[E any] struct {
	opts  *Options
	table avl.Table[E]
}

// NewTreeSet returns an empty set ordered by cmp. A nil opts selects the
// defaults.
func NewTreeSet[E any](cmp Compare[E], opts *Options) *TreeSet[E] {
	s := &TreeSet[E]{opts: opts.resolve()}
	s.table.Init(cmp, s.opts.tableOptions(manual.TableNode))
	return s
}

// NewOrderedTreeSet returns an empty set ordered by the natural ordering of E.
func NewOrderedTreeSet[E cmp.Ordered](opts *Options) *TreeSet[E] {
	return NewTreeSet(base.OrderedCompare[E](), opts)
}

// Add adds e to the set. If an equal element is already present it is
// replaced by e. Add fails only when the allocator refuses storage for a new
// element, in which case the set is unchanged.
func (s *TreeSet[E]) Add(e E) error {
	if _, _, err := s.table.Insert(e); err != nil {
		return allocationFailed(s.opts, "TreeSet", s.table.Len(), err)
	}
	return nil
}

// Contains returns true if an element equal to e is in the set.
func (s *TreeSet[E]) Contains(e E) bool {
	return s.table.Lookup(e) != nil
}

// Find returns a pointer to the element equal to e, or nil. The pointer is
// valid until that element is removed.
func (s *TreeSet[E]) Find(e E) *E {
	if n := s.table.Lookup(e); n != nil {
		return n.Item()
	}
	return nil
}

// Remove removes the element equal to e. It returns false if there is no such
// element.
func (s *TreeSet[E]) Remove(e E) bool {
	return s.table.Delete(e)
}

// Len returns the number of elements in the set.
func (s *TreeSet[E]) Len() int {
	return s.table.Len()
}

// Empty returns true if the set has no elements.
func (s *TreeSet[E]) Empty() bool {
	return s.table.Empty()
}

// Clear removes every element.
func (s *TreeSet[E]) Clear() {
	s.table.Clear()
}

// Iterator returns an iterator positioned before the smallest element.
func (s *TreeSet[E]) Iterator() *TreeSetIterator[E] {
	it := &TreeSetIterator[E]{table: &s.table}
	it.Reset()
	return it
}

// All returns an iterator over the elements in ascending order. The element
// just yielded may be removed before the iteration resumes.
func (s *TreeSet[E]) All() iter.Seq[E] {
	return func(yield func(E) bool) {
		for e := range s.table.All() {
			if !yield(*e) {
				return
			}
		}
	}
}

// MoveFrom transfers the elements of src to s and leaves src empty. Elements
// previously in s are removed. Pointers returned by src.Find remain valid.
func (s *TreeSet[E]) MoveFrom(src *TreeSet[E]) {
	if s == src {
		return
	}
	s.table.MoveFrom(&src.table)
	s.opts = src.opts
}

// String returns the tree structure of the set. It is intended for tests and
// debugging.
func (s *TreeSet[E]) String() string {
	return s.table.String()
}

// Verify checks the structural invariants of the set.
func (s *TreeSet[E]) Verify() error {
	return s.table.Verify()
}

// allocationFailed annotates an allocation failure with the container that
// hit it and reports it to the event listener.
func allocationFailed(opts *Options, container string, n int, err error) error {
	err = errors.Wrapf(err, "ordered: %s", errors.Safe(container))
	opts.EventListener.AllocationFailed(AllocationFailedInfo{
		Container: container,
		Len:       n,
		Err:       err,
	})
	return err
}

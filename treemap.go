// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ordered

import (
	"cmp"
	"fmt"
	"iter"

	"github.com/cockroachdb/ordered/avl"
	"github.com/cockroachdb/ordered/internal/base"
	"github.com/cockroachdb/ordered/manual"
)

type entry[K, V any] struct {
	key   K
	value V
}

func (e entry[K, V]) String() string {
	return fmt.Sprintf("%v:%v", e.key, e.value)
}

// Handle refers to an entry of a TreeMap. It stays valid, and keeps referring
// to the same entry, until that entry is removed; putting a new value for the
// same key does not invalidate it. The zero Handle is returned when a lookup
// finds nothing.
type Handle[K, V any] struct {
	n *avl.Node[entry[K, V]]
}

// Valid returns false for the zero Handle.
func (h Handle[K, V]) Valid() bool {
	return h.n != nil
}

// Key returns the key of the entry.
func (h Handle[K, V]) Key() K {
	return h.n.Item().key
}

// Value returns a pointer to the value of the entry, which may be modified in
// place.
func (h Handle[K, V]) Value() *V {
	return &h.n.Item().value
}

// TreeMap is an ordered map from keys to values.
type TreeMap[K, V any] struct {
	opts  *Options
	table avl.Table[entry[K, V]]
}

// NewTreeMap returns an empty map ordered by cmp. A nil opts selects the
// defaults.
func NewTreeMap[K, V any](cmp Compare[K], opts *Options) *TreeMap[K, V] {
	m := &TreeMap[K, V]{opts: opts.resolve()}
	m.table.Init(func(a, b entry[K, V]) int {
		return cmp(a.key, b.key)
	}, m.opts.tableOptions(manual.TableNode))
	return m
}

// NewOrderedTreeMap returns an empty map ordered by the natural ordering of K.
func NewOrderedTreeMap[K cmp.Ordered, V any](opts *Options) *TreeMap[K, V] {
	return NewTreeMap[K, V](base.OrderedCompare[K](), opts)
}

// Put associates v with k. If k is already present its value is replaced in
// place and the returned handle is the one the entry already had. Put fails
// only when the allocator refuses storage for a new entry, in which case the
// map is unchanged.
func (m *TreeMap[K, V]) Put(k K, v V) (Handle[K, V], error) {
	n, _, err := m.table.Insert(entry[K, V]{key: k, value: v})
	if err != nil {
		return Handle[K, V]{}, allocationFailed(m.opts, "TreeMap", m.table.Len(), err)
	}
	return Handle[K, V]{n: n}, nil
}

// Get returns the entry for k.
func (m *TreeMap[K, V]) Get(k K) (Handle[K, V], bool) {
	n := m.table.Lookup(entry[K, V]{key: k})
	return Handle[K, V]{n: n}, n != nil
}

// ContainsKey returns true if k is present.
func (m *TreeMap[K, V]) ContainsKey(k K) bool {
	return m.table.Lookup(entry[K, V]{key: k}) != nil
}

// GetByIndex returns the entry with the i-th smallest key.
//
// NOTE: This is an O(i) operation.
func (m *TreeMap[K, V]) GetByIndex(i int) (Handle[K, V], bool) {
	n := m.table.At(i)
	return Handle[K, V]{n: n}, n != nil
}

// Remove removes the entry for k. It returns false if k is absent.
func (m *TreeMap[K, V]) Remove(k K) bool {
	return m.table.Delete(entry[K, V]{key: k})
}

// RemoveByObject removes the entry h refers to. h must have been returned by
// this map. It returns false if h is the zero Handle or its entry has already
// been removed.
func (m *TreeMap[K, V]) RemoveByObject(h Handle[K, V]) bool {
	return m.table.DeleteNode(h.n)
}

// Len returns the number of entries.
func (m *TreeMap[K, V]) Len() int {
	return m.table.Len()
}

// Empty returns true if the map has no entries.
func (m *TreeMap[K, V]) Empty() bool {
	return m.table.Empty()
}

// Clear removes every entry.
func (m *TreeMap[K, V]) Clear() {
	m.table.Clear()
}

// All returns an iterator over the entries in ascending key order. The entry
// just yielded may be removed before the iteration resumes.
func (m *TreeMap[K, V]) All() iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		for e := range m.table.All() {
			if !yield(e.key, &e.value) {
				return
			}
		}
	}
}

// Keys returns an iterator over the keys in ascending order.
func (m *TreeMap[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for e := range m.table.All() {
			if !yield(e.key) {
				return
			}
		}
	}
}

// MoveFrom transfers the entries of src to m and leaves src empty. Entries
// previously in m are removed. Handles into src remain valid and now refer to
// entries of m.
func (m *TreeMap[K, V]) MoveFrom(src *TreeMap[K, V]) {
	if m == src {
		return
	}
	m.table.MoveFrom(&src.table)
	m.opts = src.opts
}

// String returns the tree structure of the map. It is intended for tests and
// debugging.
func (m *TreeMap[K, V]) String() string {
	return m.table.String()
}

// Verify checks the structural invariants of the map.
func (m *TreeMap[K, V]) Verify() error {
	return m.table.Verify()
}

// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ordered

import (
	"cmp"
	"fmt"
	"iter"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/ordered/avl"
	"github.com/cockroachdb/ordered/ilist"
	"github.com/cockroachdb/ordered/internal/base"
	"github.com/cockroachdb/ordered/internal/invariants"
	"github.com/cockroachdb/ordered/manual"
)

// linkedEntry is stored in a table node; its link threads it through the
// insertion-order list. The node, and therefore the link, never moves while
// the entry is in the map.
type linkedEntry[K, V any] struct {
	key   K
	value V
	link  ilist.Link[linkedEntry[K, V]]
	// node is the table node holding the entry. It is set by Put.
	node *avl.Node[linkedEntry[K, V]]
}

func (e linkedEntry[K, V]) String() string {
	return fmt.Sprintf("%v:%v", e.key, e.value)
}

func linkedEntryLink[K, V any](e *linkedEntry[K, V]) *ilist.Link[linkedEntry[K, V]] {
	return &e.link
}

// LinkedHandle refers to an entry of a LinkedTreeMap. It stays valid until the
// entry is removed. The zero LinkedHandle is returned when a lookup finds
// nothing.
type LinkedHandle[K, V any] struct {
	n *avl.Node[linkedEntry[K, V]]
}

// Valid returns false for the zero LinkedHandle.
func (h LinkedHandle[K, V]) Valid() bool {
	return h.n != nil
}

// Key returns the key of the entry.
func (h LinkedHandle[K, V]) Key() K {
	return h.n.Item().key
}

// Value returns a pointer to the value of the entry, which may be modified in
// place.
func (h LinkedHandle[K, V]) Value() *V {
	return &h.n.Item().value
}

// LinkedTreeMap is an ordered map that also remembers the order in which keys
// were put. Lookups by key are O(log n); iteration in insertion order does not
// depend on the shape of the tree. Putting a key that is already present
// moves it to the most recent position.
type LinkedTreeMap[K, V any] struct {
	opts  *Options
	table avl.Table[linkedEntry[K, V]]
	list  ilist.List[linkedEntry[K, V]]
}

// NewLinkedTreeMap returns an empty map ordered by cmp. A nil opts selects the
// defaults.
func NewLinkedTreeMap[K, V any](cmp Compare[K], opts *Options) *LinkedTreeMap[K, V] {
	m := &LinkedTreeMap[K, V]{opts: opts.resolve()}
	m.table.Init(func(a, b linkedEntry[K, V]) int {
		return cmp(a.key, b.key)
	}, m.opts.tableOptions(manual.LinkedEntry))
	m.list.Init(linkedEntryLink[K, V])
	return m
}

// NewOrderedLinkedTreeMap returns an empty map ordered by the natural ordering
// of K.
func NewOrderedLinkedTreeMap[K cmp.Ordered, V any](opts *Options) *LinkedTreeMap[K, V] {
	return NewLinkedTreeMap[K, V](base.OrderedCompare[K](), opts)
}

// Put associates v with k and makes k the most recently put key. If k is
// already present its entry keeps its node, and the returned handle is the one
// the entry already had. Put fails only when the allocator refuses storage for
// a new entry, in which case the map is unchanged.
func (m *LinkedTreeMap[K, V]) Put(k K, v V) (LinkedHandle[K, V], error) {
	prev := m.table.Lookup(linkedEntry[K, V]{key: k})
	if prev != nil {
		// The entry's link is overwritten by the insertion below; it has to
		// be detached first.
		m.list.Remove(prev.Item())
	}
	n, isNew, err := m.table.Insert(linkedEntry[K, V]{key: k, value: v})
	if err != nil {
		return LinkedHandle[K, V]{}, allocationFailed(m.opts, "LinkedTreeMap", m.table.Len(), err)
	}
	if invariants.Enabled && (isNew != (prev == nil) || (prev != nil && prev != n)) {
		panic(errors.AssertionFailedf("ordered: put of an existing key moved its entry"))
	}
	// Insert overwrote the whole entry, back-pointer included.
	n.Item().node = n
	m.list.AddLast(n.Item())
	return LinkedHandle[K, V]{n: n}, nil
}

// Get returns the entry for k. Insertion order is unaffected.
func (m *LinkedTreeMap[K, V]) Get(k K) (LinkedHandle[K, V], bool) {
	n := m.table.Lookup(linkedEntry[K, V]{key: k})
	return LinkedHandle[K, V]{n: n}, n != nil
}

// ContainsKey returns true if k is present.
func (m *LinkedTreeMap[K, V]) ContainsKey(k K) bool {
	return m.table.Lookup(linkedEntry[K, V]{key: k}) != nil
}

// GetByIndex returns the i-th entry in insertion order, oldest first.
//
// NOTE: This is an O(i) operation.
func (m *LinkedTreeMap[K, V]) GetByIndex(i int) (LinkedHandle[K, V], bool) {
	if i < 0 || i >= m.table.Len() {
		return LinkedHandle[K, V]{}, false
	}
	it := m.list.Iterator()
	for it.HasNext() {
		e := it.Next()
		if i == 0 {
			return LinkedHandle[K, V]{n: e.node}, true
		}
		i--
	}
	return LinkedHandle[K, V]{}, false
}

// Remove removes the entry for k. It returns false if k is absent.
func (m *LinkedTreeMap[K, V]) Remove(k K) bool {
	n := m.table.Lookup(linkedEntry[K, V]{key: k})
	if n == nil {
		return false
	}
	m.list.Remove(n.Item())
	return m.table.DeleteNode(n)
}

// RemoveByObject removes the entry h refers to. h must have been returned by
// this map. It returns false if h is the zero LinkedHandle or its entry has
// already been removed.
func (m *LinkedTreeMap[K, V]) RemoveByObject(h LinkedHandle[K, V]) bool {
	if h.n == nil || !h.n.Item().link.Linked() {
		return false
	}
	m.list.Remove(h.n.Item())
	return m.table.DeleteNode(h.n)
}

// Len returns the number of entries.
func (m *LinkedTreeMap[K, V]) Len() int {
	return m.table.Len()
}

// Empty returns true if the map has no entries.
func (m *LinkedTreeMap[K, V]) Empty() bool {
	return m.table.Empty()
}

// Clear removes every entry.
func (m *LinkedTreeMap[K, V]) Clear() {
	m.list.Clear()
	m.table.Clear()
}

// All returns an iterator over the entries in insertion order, oldest first.
// The entry just yielded may be removed before the iteration resumes.
func (m *LinkedTreeMap[K, V]) All() iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		for e := range m.list.All() {
			if !yield(e.key, &e.value) {
				return
			}
		}
	}
}

// Backward returns an iterator over the entries in insertion order, most
// recent first. The entry just yielded may be removed before the iteration
// resumes.
func (m *LinkedTreeMap[K, V]) Backward() iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		for e := range m.list.Backward() {
			if !yield(e.key, &e.value) {
				return
			}
		}
	}
}

// Keys returns an iterator over the keys in ascending key order.
func (m *LinkedTreeMap[K, V]) Keys() iter.Seq[K] {
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
func (m *LinkedTreeMap[K, V]) MoveFrom(src *LinkedTreeMap[K, V]) {
	if m == src {
		return
	}
	m.Clear()
	m.list.MoveFrom(&src.list)
	m.table.MoveFrom(&src.table)
	m.opts = src.opts
}

// Verify checks the structural invariants of the map: those of the tree, and
// that every entry of the tree is linked exactly once into the list.
func (m *LinkedTreeMap[K, V]) Verify() error {
	if err := m.table.Verify(); err != nil {
		return err
	}
	n := 0
	for e := range m.list.All() {
		if e.node == nil || e.node.Item() != e {
			return errors.AssertionFailedf("ordered: listed key %v has a stale node", e.key)
		}
		if m.table.Lookup(*e) != e.node {
			return errors.AssertionFailedf("ordered: listed key %v is not in the tree", e.key)
		}
		n++
	}
	if n != m.table.Len() {
		return errors.AssertionFailedf("ordered: list holds %d entries, tree holds %d", n, m.table.Len())
	}
	return nil
}

// String returns the entries in insertion order. It is intended for tests and
// debugging.
func (m *LinkedTreeMap[K, V]) String() string {
	var b strings.Builder
	b.WriteString("[")
	for e := range m.list.All() {
		if b.Len() > 1 {
			b.WriteString(" ")
		}
		b.WriteString(e.String())
	}
	b.WriteString("]")
	return b.String()
}

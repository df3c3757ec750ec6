// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package avl implements an ordered table on top of an AVL tree.
//
// A Table stores elements ordered by a user supplied comparison, draws the
// storage for its nodes from a manual.Allocator, and reports allocation
// failure as an error instead of panicking. Lookups and enumeration never
// change the shape of the tree.
//
// A Table is not safe for concurrent use. Callers must hold an exclusive lock
// around mutations and at least a lock that excludes mutations around lookups
// and enumeration.
package avl

import (
	"iter"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/ordered/internal/base"
	"github.com/cockroachdb/ordered/internal/invariants"
	"github.com/cockroachdb/ordered/manual"
)

// Compare returns -1, 0, or +1 depending on whether a is 'less than', 'equal
// to' or 'greater than' b.
type Compare[T any] = base.Compare[T]

// Options configure a Table.
type Options struct {
	// Allocator admits the storage of every node. Defaults to manual.Default.
	Allocator manual.Allocator
	// Purpose is the purpose charged for node allocations. Defaults to
	// manual.TableNode.
	Purpose manual.Purpose
	// FreeListSize is the number of released nodes the table retains for
	// reuse. Zero disables reuse.
	FreeListSize int
}

// EnsureDefaults fills in default values for unset fields.
func (o *Options) EnsureDefaults() {
	if o.Allocator == nil {
		o.Allocator = manual.Default
	}
	if o.Purpose == 0 {
		o.Purpose = manual.TableNode
	}
}

// Table is an ordered table of unique elements.
//
// The zero value is not usable; use New or Init.
type Table[T any] struct {
	cmp   Compare[T]
	opts  Options
	root  *Node[T]
	count int
	pool  manual.Pool[Node[T]]
	token *token
}

// New returns an empty table ordered by cmp.
func New[T any](cmp Compare[T], opts Options) *Table[T] {
	t := &Table[T]{}
	t.Init(cmp, opts)
	return t
}

// Init initializes an empty table. It must not be called on a table that
// holds elements; use Clear first.
func (t *Table[T]) Init(cmp Compare[T], opts Options) {
	opts.EnsureDefaults()
	*t = Table[T]{
		cmp:  cmp,
		opts: opts,
	}
	t.pool.Init(opts.Allocator, opts.Purpose, opts.FreeListSize)
	if invariants.Enabled {
		t.token = &token{}
	}
}

// Len returns the number of elements in the table. O(1).
func (t *Table[T]) Len() int {
	return t.count
}

// Empty returns true if the table holds no elements.
func (t *Table[T]) Empty() bool {
	return t.count == 0
}

// Insert adds item to the table.
//
// If an element equal to item is already present, that element is replaced by
// item in place: the returned node is the node that held the old element, no
// allocation is made, and isNew is false. Otherwise a node is allocated,
// linked and the tree rebalanced; isNew is true.
//
// If the allocator refuses the allocation, Insert returns an error wrapping
// manual.ErrOutOfMemory and the table is unchanged.
func (t *Table[T]) Insert(item T) (n *Node[T], isNew bool, err error) {
	var parent *Node[T]
	link := &t.root
	for cur := t.root; cur != nil; {
		c := t.cmp(item, cur.item)
		if c == 0 {
			cur.item = item
			return cur, false, nil
		}
		parent = cur
		if c < 0 {
			link = &cur.left
		} else {
			link = &cur.right
		}
		cur = *link
	}

	n, err = t.pool.Get()
	if err != nil {
		return nil, false, errors.Wrapf(err, "avl: inserting into table of %d elements", t.count)
	}
	n.item = item
	n.parent = parent
	n.left = nil
	n.right = nil
	n.balance = 0
	n.owner.Set(t.token)
	*link = n
	t.count++
	t.insertFixup(n)
	t.maybeVerify()
	return n, true, nil
}

// Lookup returns the node holding the element equal to probe, or nil.
func (t *Table[T]) Lookup(probe T) *Node[T] {
	for n := t.root; n != nil; {
		c := t.cmp(probe, n.item)
		switch {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			return n
		}
	}
	return nil
}

// Search returns a node for which fn returns 0, or nil. fn must be consistent
// with the table's ordering: it returns a negative value if the element being
// searched for orders before item and a positive value if it orders after.
func (t *Table[T]) Search(fn func(item *T) int) *Node[T] {
	for n := t.root; n != nil; {
		c := fn(&n.item)
		switch {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			return n
		}
	}
	return nil
}

// upperBound returns the first node whose element orders strictly after
// probe, or nil.
func (t *Table[T]) upperBound(probe T) *Node[T] {
	var res *Node[T]
	for n := t.root; n != nil; {
		if t.cmp(probe, n.item) < 0 {
			res = n
			n = n.left
		} else {
			n = n.right
		}
	}
	return res
}

// Delete removes the element equal to probe. It returns false if there is no
// such element.
func (t *Table[T]) Delete(probe T) bool {
	n := t.Lookup(probe)
	if n == nil {
		return false
	}
	t.remove(n)
	return true
}

// DeleteNode removes the element held by n, which must be a node of this
// table. It returns false if n is nil or its element has already been
// deleted.
func (t *Table[T]) DeleteNode(n *Node[T]) bool {
	if n == nil {
		return false
	}
	if n.parent == nil && t.root != n {
		return false
	}
	if invariants.Enabled && n.owner.Get() != t.token {
		panic(errors.AssertionFailedf("avl: node does not belong to this table"))
	}
	t.remove(n)
	return true
}

// First returns the node holding the smallest element, or nil.
func (t *Table[T]) First() *Node[T] {
	n := t.root
	if n == nil {
		return nil
	}
	for n.left != nil {
		n = n.left
	}
	return n
}

// Last returns the node holding the largest element, or nil.
func (t *Table[T]) Last() *Node[T] {
	n := t.root
	if n == nil {
		return nil
	}
	for n.right != nil {
		n = n.right
	}
	return n
}

// At returns the node holding the i-th smallest element, or nil if i is out of
// range. The walk is O(i).
func (t *Table[T]) At(i int) *Node[T] {
	if i < 0 || i >= t.count {
		return nil
	}
	var c Cursor[T]
	n := t.Enumerate(&c)
	for ; i > 0 && n != nil; i-- {
		n = t.Enumerate(&c)
	}
	return n
}

// All returns an iterator over the elements in ascending order. The element
// just yielded may be deleted before the iteration resumes.
func (t *Table[T]) All() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		var c Cursor[T]
		for n := t.Enumerate(&c); n != nil; n = t.Enumerate(&c) {
			if !yield(&n.item) {
				return
			}
		}
	}
}

// Clear deletes every element. Each round restarts the enumeration and
// deletes the first element it yields.
func (t *Table[T]) Clear() {
	for {
		var c Cursor[T]
		n := t.Enumerate(&c)
		if n == nil {
			break
		}
		t.remove(n)
	}
}

// MoveFrom transfers the contents of src to t without reallocating any node,
// and leaves src empty and ready for use. Elements previously in t are
// deleted. Handles into src remain valid and now refer to elements of t.
func (t *Table[T]) MoveFrom(src *Table[T]) {
	if t == src {
		return
	}
	t.Clear()
	*t = *src
	src.Init(src.cmp, src.opts)
}

// Height returns the height of the tree.
func (t *Table[T]) Height() int {
	h := 0
	for n := t.root; n != nil; h++ {
		if n.balance > 0 {
			n = n.right
		} else {
			n = n.left
		}
	}
	return h
}

// Allocator returns the allocator the table draws from.
func (t *Table[T]) Allocator() manual.Allocator {
	return t.pool.Allocator()
}

// NodeSize returns the number of bytes charged to the allocator per element.
func (t *Table[T]) NodeSize() uintptr {
	return t.pool.Size()
}

// remove unlinks n, rebalances and releases the node.
func (t *Table[T]) remove(n *Node[T]) {
	var retrace *Node[T]
	var leftShrank bool

	if n.left != nil && n.right != nil {
		// Promote the in-order successor s into n's position by relinking the
		// nodes; the elements stay in their nodes.
		s := n.right
		for s.left != nil {
			s = s.left
		}
		if s.parent != n {
			retrace, leftShrank = s.parent, true
			s.parent.left = s.right
			if s.right != nil {
				s.right.parent = s.parent
			}
			s.right = n.right
			n.right.parent = s
		} else {
			retrace, leftShrank = s, false
		}
		s.left = n.left
		n.left.parent = s
		s.balance = n.balance
		t.replaceChild(n.parent, n, s)
	} else {
		child := n.left
		if child == nil {
			child = n.right
		}
		retrace = n.parent
		leftShrank = retrace != nil && retrace.left == n
		t.replaceChild(n.parent, n, child)
	}

	t.deleteFixup(retrace, leftShrank)
	t.count--
	t.release(n)
	t.maybeVerify()
}

func (t *Table[T]) release(n *Node[T]) {
	var zero T
	n.item = zero
	n.parent = nil
	n.left = nil
	n.right = nil
	n.balance = 0
	n.gen++
	n.owner.Set(nil)
	t.pool.Put(n)
}

// replaceChild makes child take the place of old under parent (or at the
// root when parent is nil).
func (t *Table[T]) replaceChild(parent, old, child *Node[T]) {
	if child != nil {
		child.parent = parent
	}
	switch {
	case parent == nil:
		t.root = child
	case parent.left == old:
		parent.left = child
	default:
		parent.right = child
	}
}

// insertFixup walks up from the freshly linked node n, updating balance
// factors until a subtree's height is unchanged, rotating at most once.
func (t *Table[T]) insertFixup(n *Node[T]) {
	for p := n.parent; p != nil; n, p = p, p.parent {
		if n == p.left {
			p.balance--
		} else {
			p.balance++
		}
		switch p.balance {
		case 0:
			return
		case -2, 2:
			t.rebalance(p)
			return
		}
	}
}

// deleteFixup walks up from p, whose left (or right) subtree just lost one
// level of height, until a subtree's height is unchanged.
func (t *Table[T]) deleteFixup(p *Node[T], leftShrank bool) {
	for p != nil {
		if leftShrank {
			p.balance++
		} else {
			p.balance--
		}
		top := p
		switch p.balance {
		case -1, 1:
			return
		case -2, 2:
			var tallerBalance int8
			if p.balance > 0 {
				tallerBalance = p.right.balance
			} else {
				tallerBalance = p.left.balance
			}
			top = t.rebalance(p)
			if tallerBalance == 0 {
				// A single rotation over a balanced child leaves the height of
				// the subtree unchanged.
				return
			}
		}
		parent := top.parent
		if parent == nil {
			return
		}
		leftShrank = parent.left == top
		p = parent
	}
}

// rebalance restores the balance of x, whose balance factor is +2 or -2, and
// returns the new root of the subtree.
func (t *Table[T]) rebalance(x *Node[T]) *Node[T] {
	if x.balance > 0 {
		if x.right.balance < 0 {
			t.rotateRight(x.right)
		}
		return t.rotateLeft(x)
	}
	if x.left.balance > 0 {
		t.rotateLeft(x.left)
	}
	return t.rotateRight(x)
}

// rotateLeft lifts the right child z of x into x's position.
func (t *Table[T]) rotateLeft(x *Node[T]) *Node[T] {
	z := x.right
	x.right = z.left
	if z.left != nil {
		z.left.parent = x
	}
	t.replaceChild(x.parent, x, z)
	z.left = x
	x.parent = z
	x.balance -= 1 + max(z.balance, 0)
	z.balance -= 1 - min(x.balance, 0)
	return z
}

// rotateRight lifts the left child z of x into x's position.
func (t *Table[T]) rotateRight(x *Node[T]) *Node[T] {
	z := x.left
	x.left = z.right
	if z.right != nil {
		z.right.parent = x
	}
	t.replaceChild(x.parent, x, z)
	z.right = x
	x.parent = z
	x.balance += 1 - min(z.balance, 0)
	z.balance += 1 + max(x.balance, 0)
	return z
}

func (t *Table[T]) maybeVerify() {
	if invariants.Sometimes(10) {
		if err := t.Verify(); err != nil {
			panic(err)
		}
	}
}

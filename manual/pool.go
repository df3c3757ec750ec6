// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package manual

import "unsafe"

// Pool hands out objects of type N whose storage has been admitted by an
// Allocator. Released objects are kept on a bounded free list and reused by
// later calls to Get, which is how a table can operate on a fixed set of
// nodes once it has warmed up.
//
// A Pool is not safe for concurrent use; it is owned by a single table.
type Pool[N any] struct {
	alloc   Allocator
	purpose Purpose
	// free is a stack of released objects. Its capacity is the maximum number
	// of objects retained.
	free []*N
}

// Init initializes the pool. maxFree bounds the number of released objects
// kept for reuse; zero disables reuse.
func (p *Pool[N]) Init(alloc Allocator, purpose Purpose, maxFree int) {
	if alloc == nil {
		alloc = Default
	}
	*p = Pool[N]{
		alloc:   alloc,
		purpose: purpose,
	}
	if maxFree > 0 {
		p.free = make([]*N, 0, maxFree)
	}
}

// Size is the number of bytes charged to the allocator for each object.
func (p *Pool[N]) Size() uintptr {
	var n N
	return unsafe.Sizeof(n)
}

// Allocator returns the allocator backing the pool.
func (p *Pool[N]) Allocator() Allocator {
	return p.alloc
}

// Get returns an object, or an error wrapping ErrOutOfMemory if the allocator
// refused the allocation. A reused object is returned as it was passed to
// Put; the caller is responsible for initializing it.
func (p *Pool[N]) Get() (*N, error) {
	if err := p.alloc.Alloc(p.purpose, p.Size()); err != nil {
		return nil, err
	}
	if i := len(p.free) - 1; i >= 0 {
		n := p.free[i]
		p.free[i] = nil
		p.free = p.free[:i]
		return n, nil
	}
	return new(N), nil
}

// Put releases an object obtained from Get. The object is not cleared.
func (p *Pool[N]) Put(n *N) {
	p.alloc.Free(p.purpose, p.Size())
	if len(p.free) < cap(p.free) {
		p.free = append(p.free, n)
	}
}

// Retained returns the number of released objects available for reuse.
func (p *Pool[N]) Retained() int {
	return len(p.free)
}

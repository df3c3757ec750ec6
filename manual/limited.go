// Copyright 2020 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package manual

import (
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/ordered/internal/invariants"
)

// Limited is an Allocator with a fixed byte budget, shared by every table
// that uses it. Allocations that would exceed the budget fail with
// ErrOutOfMemory and do not change the amount in use.
type Limited struct {
	capacity uint64
	used     atomic.Uint64
	c        counters
}

var _ Allocator = (*Limited)(nil)
var _ MetricsProvider = (*Limited)(nil)

// NewLimited returns an allocator that admits at most capacity bytes at any
// point in time.
func NewLimited(capacity uint64) *Limited {
	return &Limited{capacity: capacity}
}

// Alloc implements Allocator.
func (l *Limited) Alloc(purpose Purpose, n uintptr) error {
	for {
		used := l.used.Load()
		// Compare against the remaining space rather than computing used+n so
		// that very large requests cannot overflow the accounting.
		if uint64(n) > l.capacity-used {
			l.c.recordFailure(purpose)
			return errors.Wrapf(ErrOutOfMemory, "allocating %d bytes for %s (%d of %d bytes in use)",
				n, purpose, used, l.capacity)
		}
		if l.used.CompareAndSwap(used, used+uint64(n)) {
			l.c.recordAlloc(purpose, n)
			return nil
		}
	}
}

// Free implements Allocator.
func (l *Limited) Free(purpose Purpose, n uintptr) {
	for {
		used := l.used.Load()
		if l.used.CompareAndSwap(used, invariants.SafeSub(used, uint64(n))) {
			break
		}
	}
	l.c.recordFree(purpose, n)
}

// Capacity returns the budget of the allocator.
func (l *Limited) Capacity() uint64 {
	return l.capacity
}

// Used returns the number of bytes currently admitted.
func (l *Limited) Used() uint64 {
	return l.used.Load()
}

// Metrics implements MetricsProvider.
func (l *Limited) Metrics() Metrics {
	return l.c.metrics()
}

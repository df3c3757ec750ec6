// Copyright 2023 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package manual

import (
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

// Injector wraps an Allocator and refuses the allocations selected by a
// predicate. It is used to exercise allocation failure paths.
type Injector struct {
	next       Allocator
	shouldFail func(purpose Purpose, n uintptr) bool
	injected   atomic.Uint64
}

var _ Allocator = (*Injector)(nil)

// NewInjector returns an Injector that delegates to next unless shouldFail
// returns true for the allocation.
func NewInjector(next Allocator, shouldFail func(purpose Purpose, n uintptr) bool) *Injector {
	return &Injector{next: next, shouldFail: shouldFail}
}

// Alloc implements Allocator.
func (i *Injector) Alloc(purpose Purpose, n uintptr) error {
	if i.shouldFail(purpose, n) {
		i.injected.Add(1)
		return errors.WithDetailf(errors.WithStack(ErrOutOfMemory), "injected failure allocating %d bytes for %s", n, purpose)
	}
	return i.next.Alloc(purpose, n)
}

// Free implements Allocator.
func (i *Injector) Free(purpose Purpose, n uintptr) {
	i.next.Free(purpose, n)
}

// Injected returns the number of allocations refused so far.
func (i *Injector) Injected() uint64 {
	return i.injected.Load()
}

// FailAfter returns a predicate for NewInjector that admits the first n
// allocations and refuses every allocation after that.
func FailAfter(n int) func(Purpose, uintptr) bool {
	var count atomic.Int64
	return func(Purpose, uintptr) bool {
		return count.Add(1) > int64(n)
	}
}

// FailAlways is a predicate for NewInjector that refuses every allocation.
func FailAlways(Purpose, uintptr) bool {
	return true
}

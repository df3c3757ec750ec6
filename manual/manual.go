// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package manual provides the allocators that ordered tables draw their node
// storage from.
//
// An Allocator is a fallible source of memory: every allocation either
// succeeds or returns an error wrapping ErrOutOfMemory. Nothing in this
// package panics or aborts when memory runs out. The Go runtime still owns
// the underlying storage; an Allocator decides whether an allocation of a
// given size is admitted and accounts for it, and a Pool turns admitted
// allocations into typed, optionally recycled, objects.
package manual

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Purpose identifies the use-case for an allocation.
type Purpose uint8

const (
	_ Purpose = iota

	// TableNode is a node of an ordered table (TreeSet, TreeMap).
	TableNode
	// LinkedEntry is an entry of a LinkedTreeMap: a table node that also
	// carries an intrusive list link.
	LinkedEntry
	// Other is used by callers that allocate through an Allocator directly.
	Other

	NumPurposes
)

var purposeNames = [NumPurposes]string{
	TableNode:   "table-node",
	LinkedEntry: "linked-entry",
	Other:       "other",
}

// String implements fmt.Stringer.
func (p Purpose) String() string {
	if p == 0 || p >= NumPurposes {
		return fmt.Sprintf("purpose(%d)", uint8(p))
	}
	return purposeNames[p]
}

// ErrOutOfMemory is returned (possibly wrapped) by an Allocator that cannot
// satisfy an allocation. Use errors.Is to test for it.
var ErrOutOfMemory = errors.New("manual: out of memory")

// Allocator is a fallible memory allocator.
//
// Alloc admits an allocation of n bytes for the given purpose or returns an
// error wrapping ErrOutOfMemory. Free releases an allocation previously
// admitted by Alloc with the same purpose and size.
//
// Implementations in this package are safe for concurrent use. The tables
// that consume an Allocator are not; see the package documentation of
// github.com/cockroachdb/ordered.
type Allocator interface {
	Alloc(purpose Purpose, n uintptr) error
	Free(purpose Purpose, n uintptr)
}

// MetricsProvider is implemented by allocators that track usage.
type MetricsProvider interface {
	Metrics() Metrics
}

// Default is the allocator used when none is configured. It never fails.
var Default Allocator = &Heap{}

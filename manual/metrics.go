// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package manual

import (
	"sync/atomic"

	"github.com/cockroachdb/crlib/crhumanize"
	"github.com/cockroachdb/ordered/internal/invariants"
	"github.com/cockroachdb/redact"
)

// PurposeMetrics contains memory statistics for a single purpose.
type PurposeMetrics struct {
	// InUseBytes is the total number of bytes currently allocated. This is just
	// the sum of the lengths of the allocations and does not include any
	// overhead or fragmentation.
	InUseBytes uint64
	// TotalBytes is the total cumulative number of bytes allocated.
	TotalBytes uint64
	// Allocs is the cumulative number of successful allocations.
	Allocs uint64
	// Failures is the cumulative number of allocations that were refused.
	Failures uint64
}

// SafeFormat implements redact.SafeFormatter.
func (m PurposeMetrics) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("%s in use, %s total over %s allocs, %d failures",
		crhumanize.Bytes(m.InUseBytes, crhumanize.Compact, crhumanize.OmitI),
		crhumanize.Bytes(m.TotalBytes, crhumanize.Compact, crhumanize.OmitI),
		crhumanize.Count(m.Allocs, crhumanize.Compact),
		redact.Safe(m.Failures))
}

func (m PurposeMetrics) String() string {
	return redact.StringWithoutMarkers(m)
}

// Metrics contains memory statistics by purpose.
type Metrics [NumPurposes]PurposeMetrics

// Total returns the sum over all purposes.
func (m *Metrics) Total() PurposeMetrics {
	var t PurposeMetrics
	for i := range m {
		t.InUseBytes += m[i].InUseBytes
		t.TotalBytes += m[i].TotalBytes
		t.Allocs += m[i].Allocs
		t.Failures += m[i].Failures
	}
	return t
}

// SafeFormat implements redact.SafeFormatter.
func (m *Metrics) SafeFormat(w redact.SafePrinter, _ rune) {
	for p := Purpose(1); p < NumPurposes; p++ {
		if m[p] == (PurposeMetrics{}) {
			continue
		}
		w.Printf("%s: %s\n", redact.SafeString(p.String()), m[p])
	}
}

func (m *Metrics) String() string {
	return redact.StringWithoutMarkers(m)
}

// counters are the atomic counters behind Metrics. They are embedded in the
// allocators of this package.
type counters [NumPurposes]struct {
	allocated atomic.Uint64
	freed     atomic.Uint64
	allocs    atomic.Uint64
	failures  atomic.Uint64
	// Pad to separate counters into cache lines. This reduces the overhead when
	// multiple purposes are used frequently. We assume 64 byte cache line size
	// which is the case for ARM64 servers and AMD64.
	_ [4]uint64
}

func (c *counters) recordAlloc(purpose Purpose, n uintptr) {
	c[purpose].allocated.Add(uint64(n))
	c[purpose].allocs.Add(1)
}

func (c *counters) recordFree(purpose Purpose, n uintptr) {
	c[purpose].freed.Add(uint64(n))
}

func (c *counters) recordFailure(purpose Purpose) {
	c[purpose].failures.Add(1)
}

func (c *counters) metrics() Metrics {
	var res Metrics
	for i := range res {
		// Load freed before allocated so that a concurrent alloc/free pair can
		// never make the difference negative.
		freed := c[i].freed.Load()
		res[i].TotalBytes = c[i].allocated.Load()
		res[i].InUseBytes = invariants.SafeSub(res[i].TotalBytes, freed)
		res[i].Allocs = c[i].allocs.Load()
		res[i].Failures = c[i].failures.Load()
	}
	return res
}

// Copyright 2020 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package manual

// Heap is an Allocator backed by the Go heap. It admits every allocation and
// only keeps statistics. The zero value is ready to use.
type Heap struct {
	c counters
}

var _ Allocator = (*Heap)(nil)
var _ MetricsProvider = (*Heap)(nil)

// Alloc implements Allocator.
func (h *Heap) Alloc(purpose Purpose, n uintptr) error {
	h.c.recordAlloc(purpose, n)
	return nil
}

// Free implements Allocator.
func (h *Heap) Free(purpose Purpose, n uintptr) {
	h.c.recordFree(purpose, n)
}

// Metrics implements MetricsProvider.
func (h *Heap) Metrics() Metrics {
	return h.c.metrics()
}

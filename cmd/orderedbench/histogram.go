// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/metamorphic"
)

const (
	minLatency = 10 * time.Nanosecond
	maxLatency = 10 * time.Second
)

func newHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(minLatency.Nanoseconds(), maxLatency.Nanoseconds(), 1)
}

// latencies tracks the latency distribution of every operation present in a
// workload, both for the current tick and for the whole run.
type latencies struct {
	ops [numBenchOps]*opLatency
}

type opLatency struct {
	mu struct {
		sync.Mutex
		current *hdrhistogram.Histogram
	}
	// cumulative and lastTick belong to the goroutine calling tick.
	cumulative *hdrhistogram.Histogram
	lastTick   time.Time
}

// latencyTick is what one operation did since the previous tick.
type latencyTick struct {
	op benchOp
	// hist.TotalCount() is the number of operations during the tick.
	hist *hdrhistogram.Histogram
	// cumulative covers the run so far, hist included.
	cumulative *hdrhistogram.Histogram
	elapsed    time.Duration
}

func newLatencies(weights metamorphic.Weighted[benchOp]) *latencies {
	l := &latencies{}
	now := time.Now()
	for _, w := range weights {
		if l.ops[w.Item] != nil {
			continue
		}
		o := &opLatency{cumulative: newHistogram(), lastTick: now}
		o.mu.current = newHistogram()
		l.ops[w.Item] = o
	}
	return l
}

func (l *latencies) enabled(op benchOp) bool {
	return l.ops[op] != nil
}

func (l *latencies) record(op benchOp, elapsed time.Duration) {
	elapsed = min(max(elapsed, minLatency), maxLatency)
	o := l.ops[op]
	o.mu.Lock()
	err := o.mu.current.RecordValue(elapsed.Nanoseconds())
	o.mu.Unlock()
	if err != nil {
		// Values are clamped to the histogram's range, so recording cannot fail.
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "%s: recording latency", op))
	}
}

// tick swaps out the current histogram of every enabled operation and calls
// fn for each, in operation order.
func (l *latencies) tick(fn func(latencyTick)) {
	now := time.Now()
	for op, o := range l.ops {
		if o == nil {
			continue
		}
		o.mu.Lock()
		h := o.mu.current
		o.mu.current = newHistogram()
		o.mu.Unlock()

		o.cumulative.Merge(h)
		elapsed := now.Sub(o.lastTick)
		o.lastTick = now
		fn(latencyTick{
			op:         benchOp(op),
			hist:       h,
			cumulative: o.cumulative,
			elapsed:    elapsed,
		})
	}
}

// count returns the number of operations recorded up to the last tick.
func (l *latencies) count(op benchOp) int64 {
	if o := l.ops[op]; o != nil {
		return o.cumulative.TotalCount()
	}
	return 0
}

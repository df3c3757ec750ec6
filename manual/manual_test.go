// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package manual

import (
	"strings"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestPurposeString(t *testing.T) {
	require.Equal(t, "table-node", TableNode.String())
	require.Equal(t, "linked-entry", LinkedEntry.String())
	require.Equal(t, "other", Other.String())
	require.Equal(t, "purpose(0)", Purpose(0).String())
	require.Equal(t, "purpose(9)", Purpose(9).String())
}

func TestHeap(t *testing.T) {
	var h Heap
	require.NoError(t, h.Alloc(TableNode, 100))
	require.NoError(t, h.Alloc(TableNode, 50))
	h.Free(TableNode, 100)
	m := h.Metrics()
	require.Equal(t, PurposeMetrics{InUseBytes: 50, TotalBytes: 150, Allocs: 2}, m[TableNode])
	require.Equal(t, PurposeMetrics{}, m[LinkedEntry])
}

func TestLimited(t *testing.T) {
	l := NewLimited(100)
	require.Equal(t, uint64(100), l.Capacity())

	require.NoError(t, l.Alloc(TableNode, 60))
	err := l.Alloc(LinkedEntry, 50)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrOutOfMemory))
	require.Contains(t, err.Error(), "allocating 50 bytes for linked-entry")
	require.Equal(t, uint64(60), l.Used())

	require.NoError(t, l.Alloc(LinkedEntry, 40))
	require.Equal(t, uint64(100), l.Used())
	require.Error(t, l.Alloc(Other, 1))

	l.Free(TableNode, 60)
	require.Equal(t, uint64(40), l.Used())

	m := l.Metrics()
	require.Equal(t, PurposeMetrics{InUseBytes: 0, TotalBytes: 60, Allocs: 1}, m[TableNode])
	require.Equal(t, PurposeMetrics{InUseBytes: 40, TotalBytes: 40, Allocs: 1, Failures: 1}, m[LinkedEntry])
	require.Equal(t, PurposeMetrics{Failures: 1}, m[Other])
	require.Equal(t, PurposeMetrics{InUseBytes: 40, TotalBytes: 100, Allocs: 2, Failures: 2}, m.Total())
}

func TestLimitedHugeAllocation(t *testing.T) {
	l := NewLimited(100)
	require.NoError(t, l.Alloc(Other, 10))
	require.Error(t, l.Alloc(Other, ^uintptr(0)))
	require.Equal(t, uint64(10), l.Used())
}

func TestLimitedConcurrent(t *testing.T) {
	const workers = 8
	const perWorker = 1000
	l := NewLimited(workers * perWorker / 2)

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n := 0
			for j := 0; j < perWorker; j++ {
				if l.Alloc(Other, 1) == nil {
					n++
				}
			}
			mu.Lock()
			admitted += n
			mu.Unlock()
		}()
	}
	wg.Wait()
	require.Equal(t, workers*perWorker/2, admitted)
	require.Equal(t, l.Capacity(), l.Used())
	m := l.Metrics()
	require.Equal(t, uint64(workers*perWorker/2), m[Other].Failures)
}

func TestInjector(t *testing.T) {
	var h Heap
	inj := NewInjector(&h, FailAfter(2))
	require.NoError(t, inj.Alloc(TableNode, 8))
	require.NoError(t, inj.Alloc(TableNode, 8))
	err := inj.Alloc(TableNode, 8)
	require.True(t, errors.Is(err, ErrOutOfMemory))
	require.Contains(t, strings.Join(errors.GetAllDetails(err), "\n"), "injected failure allocating 8 bytes for table-node")
	require.Equal(t, uint64(1), inj.Injected())

	inj.Free(TableNode, 8)
	m := h.Metrics()
	require.Equal(t, PurposeMetrics{InUseBytes: 8, TotalBytes: 16, Allocs: 2}, m[TableNode])

	always := NewInjector(&h, FailAlways)
	require.Error(t, always.Alloc(Other, 1))
	require.Equal(t, uint64(1), always.Injected())
}

func TestPool(t *testing.T) {
	l := NewLimited(16)
	var p Pool[int64]
	p.Init(l, Other, 1)
	require.Equal(t, uintptr(8), p.Size())
	require.Equal(t, Allocator(l), p.Allocator())

	a, err := p.Get()
	require.NoError(t, err)
	b, err := p.Get()
	require.NoError(t, err)
	require.NotSame(t, a, b)
	_, err = p.Get()
	require.True(t, errors.Is(err, ErrOutOfMemory))

	*a = 42
	p.Put(a)
	p.Put(b)
	// Only one object is retained.
	require.Equal(t, 1, p.Retained())
	require.Equal(t, uint64(0), l.Used())

	c, err := p.Get()
	require.NoError(t, err)
	require.Same(t, a, c)
	require.Equal(t, int64(42), *c)
	require.Equal(t, 0, p.Retained())
	require.Equal(t, uint64(8), l.Used())
}

func TestPoolRetainedObjectsStillCharged(t *testing.T) {
	l := NewLimited(8)
	var p Pool[int64]
	p.Init(l, Other, 4)
	a, err := p.Get()
	require.NoError(t, err)
	p.Put(a)
	require.NoError(t, l.Alloc(Other, 8))
	// The retained object cannot be reused without the allocator's consent.
	_, err = p.Get()
	require.Error(t, err)
	require.Equal(t, 1, p.Retained())
}

func TestPoolDefaultAllocator(t *testing.T) {
	var p Pool[struct{ a, b int32 }]
	p.Init(nil, Other, 0)
	require.Equal(t, Default, p.Allocator())
	x, err := p.Get()
	require.NoError(t, err)
	p.Put(x)
	require.Equal(t, 0, p.Retained())
}

func TestMetricsString(t *testing.T) {
	var m Metrics
	m[TableNode] = PurposeMetrics{InUseBytes: 2048, TotalBytes: 4096, Allocs: 3, Failures: 1}
	s := m.String()
	require.Contains(t, s, "table-node: ")
	require.Contains(t, s, "1 failures")
	require.NotContains(t, s, "linked-entry")
	require.Equal(t, 1, strings.Count(s, "\n"))
}

func TestCollector(t *testing.T) {
	l := NewLimited(1 << 10)
	require.NoError(t, l.Alloc(TableNode, 64))
	require.Error(t, l.Alloc(LinkedEntry, 1<<20))

	c := NewCollector("ordered", l)
	require.Equal(t, 4*int(NumPurposes-1), testutil.CollectAndCount(c))

	const expected = `
# HELP ordered_manual_inuse_bytes Bytes currently allocated.
# TYPE ordered_manual_inuse_bytes gauge
ordered_manual_inuse_bytes{purpose="linked-entry"} 0
ordered_manual_inuse_bytes{purpose="other"} 0
ordered_manual_inuse_bytes{purpose="table-node"} 64
# HELP ordered_manual_alloc_failures_total Cumulative number of refused allocations.
# TYPE ordered_manual_alloc_failures_total counter
ordered_manual_alloc_failures_total{purpose="linked-entry"} 1
ordered_manual_alloc_failures_total{purpose="other"} 0
ordered_manual_alloc_failures_total{purpose="table-node"} 0
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"ordered_manual_inuse_bytes", "ordered_manual_alloc_failures_total"))
}

// collectPurpose returns the values the collector reports for purpose p.
func collectPurpose(t *testing.T, c *Collector, p Purpose) map[string]float64 {
	t.Helper()
	names := map[*prometheus.Desc]string{
		c.inUse:    "inuse",
		c.total:    "total",
		c.allocs:   "allocs",
		c.failures: "failures",
	}
	ch := make(chan prometheus.Metric, 4*int(NumPurposes))
	c.Collect(ch)
	close(ch)
	values := make(map[string]float64)
	for m := range ch {
		metric := &dto.Metric{}
		require.NoError(t, m.Write(metric))
		require.Len(t, metric.GetLabel(), 1)
		if metric.GetLabel()[0].GetValue() != p.String() {
			continue
		}
		if g := metric.GetGauge(); g != nil {
			values[names[m.Desc()]] = g.GetValue()
		} else {
			values[names[m.Desc()]] = metric.GetCounter().GetValue()
		}
	}
	return values
}

func TestCollectorValues(t *testing.T) {
	h := &Heap{}
	require.NoError(t, h.Alloc(TableNode, 48))
	require.NoError(t, h.Alloc(TableNode, 16))
	h.Free(TableNode, 48)
	require.Equal(t, map[string]float64{
		"inuse":    16,
		"total":    64,
		"allocs":   2,
		"failures": 0,
	}, collectPurpose(t, NewCollector("test", h), TableNode))

	l := NewLimited(32)
	require.NoError(t, l.Alloc(LinkedEntry, 24))
	require.Error(t, l.Alloc(LinkedEntry, 16))
	require.Equal(t, map[string]float64{
		"inuse":    24,
		"total":    24,
		"allocs":   1,
		"failures": 1,
	}, collectPurpose(t, NewCollector("test", l), LinkedEntry))
}

// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/ordered"
	"github.com/cockroachdb/ordered/manual"
	"github.com/stretchr/testify/require"
)

func TestParseWorkload(t *testing.T) {
	w, err := parseWorkload("put=3, get=1,remove=0")
	require.NoError(t, err)
	require.Len(t, w, 2)
	require.Equal(t, opPut, w[0].Item)
	require.Equal(t, 3, w[0].Weight)
	require.Equal(t, opGet, w[1].Item)

	for _, bad := range []string{"", "put", "put=x", "frob=1", "get=-1", "remove=0"} {
		_, err := parseWorkload(bad)
		require.Error(t, err, "%q", bad)
	}
}

func TestContainers(t *testing.T) {
	for name, newContainer := range map[string]func(*ordered.Options) container{
		"treemap":   func(o *ordered.Options) container { return newTreeMap(o) },
		"linkedmap": func(o *ordered.Options) container { return newLinkedMap(o) },
		"treeset":   func(o *ordered.Options) container { return newTreeSet(o, false) },
	} {
		t.Run(name, func(t *testing.T) {
			c := newContainer(nil)
			for _, k := range []uint64{5, 3, 8} {
				require.NoError(t, c.put(k, k))
			}
			require.True(t, c.get(3))
			require.False(t, c.get(4))
			require.Equal(t, 2, c.scan(2))
			require.Equal(t, 3, c.scan(10))
			require.True(t, c.index(7))
			require.True(t, c.remove(3))
			require.False(t, c.remove(3))
			require.Equal(t, 2, c.len())
			require.NoError(t, c.verify())
			c.clear()
			require.Equal(t, 0, c.len())
			require.False(t, c.index(0))
		})
	}
}

func TestDescendingTreeSet(t *testing.T) {
	c := newTreeSet(nil, true)
	for _, k := range []uint64{5, 3, 8, 1} {
		require.NoError(t, c.put(k, k))
	}
	var got []uint64
	for it := c.s.Iterator(); it.HasNext(); {
		got = append(got, *it.Next())
	}
	require.Equal(t, []uint64{8, 5, 3, 1}, got)
	require.True(t, c.get(3))
	require.NoError(t, c.verify())
}

func TestBenchRun(t *testing.T) {
	saved := benchConfig
	defer func() { benchConfig = saved }()
	benchConfig.keys = 256
	benchConfig.numOps = 2000
	benchConfig.seed = 7
	benchConfig.scanLength = 4

	weights, err := parseWorkload("put=5,get=3,remove=2,scan=1,index=1")
	require.NoError(t, err)

	l := manual.NewLimited(1 << 12)
	opts := &ordered.Options{Allocator: l, FreeListSize: 8, Logger: ordered.NoopLogger{}}
	b := newBench("linkedmap", newLinkedMap(opts), weights)
	require.NoError(t, b.load())
	require.NoError(t, b.run(context.Background(), 0))
	require.NoError(t, b.c.verify())

	// The budget is much smaller than the key space, so some puts failed.
	require.Greater(t, b.failures[opPut].Load(), uint64(0))
	require.Equal(t, b.failures[opPut].Load(), l.Metrics()[manual.LinkedEntry].Failures)

	var buf bytes.Buffer
	b.latency.tick(func(latencyTick) {})
	require.NoError(t, b.report(&buf, l))
	require.Contains(t, buf.String(), "linkedmap holds")
	require.Equal(t, uint64(0), l.Used())
}

func TestBenchRunCanceled(t *testing.T) {
	saved := benchConfig
	defer func() { benchConfig = saved }()
	benchConfig.keys = 16
	benchConfig.numOps = 0

	weights, err := parseWorkload("get=1")
	require.NoError(t, err)
	b := newBench("treeset", newTreeSet(nil, false), weights)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, b.run(ctx, 0))
	require.False(t, errors.Is(ctx.Err(), context.DeadlineExceeded))
}

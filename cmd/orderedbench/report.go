// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/ordered/manual"
	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
)

// report prints the per-operation outcome counts, the allocator usage and,
// with --graph, the throughput of every tick. It also verifies the final
// structure of the container.
func (b *bench) report(w io.Writer, provider manual.MetricsProvider) error {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Op", "Count", "Failures", "Misses"})
	for op := benchOp(0); op < numBenchOps; op++ {
		if !b.latency.enabled(op) {
			continue
		}
		tbl.Append([]string{
			op.String(),
			strconv.FormatInt(b.latency.count(op), 10),
			strconv.FormatUint(b.failures[op].Load(), 10),
			strconv.FormatUint(b.misses[op].Load(), 10),
		})
	}
	tbl.Render()

	fmt.Fprintf(w, "\n%s holds %d elements\n", b.kind, b.c.len())
	m := provider.Metrics()
	fmt.Fprintf(w, "allocator:\n%s", m.String())
	fmt.Fprintf(w, "total: %s\n", m.Total())

	if benchConfig.graph && len(b.throughput) > 1 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, asciigraph.Plot(b.throughput,
			asciigraph.Height(10),
			asciigraph.Caption(fmt.Sprintf("%s ops/sec per tick", b.kind))))
	}

	if err := b.c.verify(); err != nil {
		return errors.Wrapf(err, "%s failed verification", b.kind)
	}
	b.c.clear()
	if n := b.c.len(); n != 0 {
		return errors.AssertionFailedf("%s holds %d elements after clear", b.kind, n)
	}
	after := provider.Metrics()
	if inUse := after.Total().InUseBytes; inUse != 0 {
		return errors.AssertionFailedf("%d bytes still in use after clear", inUse)
	}
	return nil
}

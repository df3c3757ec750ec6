// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"log"
	randv1 "math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/metamorphic"
	"github.com/cockroachdb/ordered"
	"github.com/cockroachdb/ordered/internal/rate"
	"github.com/cockroachdb/ordered/manual"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

type benchOp int

const (
	opPut benchOp = iota
	opGet
	opRemove
	opScan
	opIndex
	numBenchOps
)

var benchOpNames = [numBenchOps]string{
	opPut:    "put",
	opGet:    "get",
	opRemove: "remove",
	opScan:   "scan",
	opIndex:  "index",
}

func (o benchOp) String() string {
	return benchOpNames[o]
}

var benchConfig struct {
	numOps       uint64
	keys         uint64
	initialKeys  uint64
	seed         int64
	workload     string
	scanLength   int
	rate         float64
	limitBytes   uint64
	freeListSize int
	metricsAddr  string
	graph        bool
	descending   bool
}

var treeMapCmd = &cobra.Command{
	Use:   "treemap",
	Short: "run a workload against a TreeMap",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBench("treemap", func(opts *ordered.Options) container {
			return newTreeMap(opts)
		})
	},
}

var linkedMapCmd = &cobra.Command{
	Use:   "linkedmap",
	Short: "run a workload against a LinkedTreeMap",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBench("linkedmap", func(opts *ordered.Options) container {
			return newLinkedMap(opts)
		})
	},
}

var treeSetCmd = &cobra.Command{
	Use:   "treeset",
	Short: "run a workload against a TreeSet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBench("treeset", func(opts *ordered.Options) container {
			return newTreeSet(opts, benchConfig.descending)
		})
	},
}

// parseWorkload parses a comma separated list of op=weight pairs.
func parseWorkload(s string) (metamorphic.Weighted[benchOp], error) {
	var w metamorphic.Weighted[benchOp]
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		name, weight, ok := strings.Cut(field, "=")
		if !ok {
			return nil, errors.Errorf("malformed workload entry %q: expected op=weight", field)
		}
		op := numBenchOps
		for i, n := range benchOpNames {
			if n == name {
				op = benchOp(i)
			}
		}
		if op == numBenchOps {
			return nil, errors.Errorf("unknown operation %q", name)
		}
		n, err := strconv.Atoi(weight)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing weight of %s", name)
		}
		if n < 0 {
			return nil, errors.Errorf("negative weight %d for %s", n, name)
		}
		if n > 0 {
			w = append(w, metamorphic.Weighted[benchOp]{{Item: op, Weight: n}}...)
		}
	}
	if len(w) == 0 {
		return nil, errors.New("workload has no operations")
	}
	return w, nil
}

type bench struct {
	kind     string
	c        container
	weights  metamorphic.Weighted[benchOp]
	limiter  *rate.Limiter
	latency  *latencies
	numOps   atomic.Uint64
	failures [numBenchOps]atomic.Uint64
	// misses counts gets, removes and index lookups that found nothing.
	misses [numBenchOps]atomic.Uint64
	// throughput holds the total ops/sec of every tick, for --graph.
	throughput []float64
}

func newBench(kind string, c container, weights metamorphic.Weighted[benchOp]) *bench {
	b := &bench{
		kind:    kind,
		c:       c,
		weights: weights,
		limiter: rate.NewLimiter(benchConfig.rate, max(benchConfig.rate/10, 1)),
		latency: newLatencies(weights),
	}
	return b
}

// makeKey scrambles a key number so that keys are not put in sorted order.
func (b *bench) makeKey(keyNum uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], keyNum^uint64(benchConfig.seed))
	return xxhash.Sum64(buf[:])
}

func (b *bench) load() error {
	for i := uint64(0); i < benchConfig.initialKeys; i++ {
		if err := b.c.put(b.makeKey(i%benchConfig.keys), i); err != nil {
			return errors.Wrapf(err, "loading key %d", i)
		}
	}
	return nil
}

func (b *bench) run(ctx context.Context, worker int) error {
	seed := benchConfig.seed + int64(worker)
	rng := rand.New(rand.NewSource(uint64(seed)))
	nextOp := b.weights.RandomDeck(randv1.New(randv1.NewSource(seed)))

	for {
		if err := b.limiter.Wait(ctx, 1); err != nil {
			// Canceled: the run is over.
			return nil
		}
		if benchConfig.numOps > 0 && b.numOps.Add(1) > benchConfig.numOps {
			return nil
		}

		op := nextOp()
		key := b.makeKey(rng.Uint64n(benchConfig.keys))
		start := time.Now()
		switch op {
		case opPut:
			if err := b.c.put(key, rng.Uint64()); err != nil {
				if !errors.Is(err, manual.ErrOutOfMemory) {
					return err
				}
				b.failures[op].Add(1)
			}
		case opGet:
			if !b.c.get(key) {
				b.misses[op].Add(1)
			}
		case opRemove:
			if !b.c.remove(key) {
				b.misses[op].Add(1)
			}
		case opScan:
			b.c.scan(benchConfig.scanLength)
		case opIndex:
			if !b.c.index(rng.Uint64()) {
				b.misses[op].Add(1)
			}
		default:
			panic("not reached")
		}
		b.latency.record(op, time.Since(start))
	}
}

func (b *bench) tick(elapsed time.Duration, i int) {
	if i%20 == 0 {
		fmt.Println("____optype__elapsed____ops/sec__failures___misses__p50(us)__p95(us)__p99(us)_pMax(us)")
	}
	var total float64
	b.latency.tick(func(tick latencyTick) {
		h := tick.hist
		opsPerSec := float64(h.TotalCount()) / tick.elapsed.Seconds()
		total += opsPerSec
		op := tick.op
		fmt.Printf("%10s %8s %10.1f %9d %8d %8.1f %8.1f %8.1f %8.1f\n",
			op,
			time.Duration(elapsed.Seconds()+0.5)*time.Second,
			opsPerSec,
			b.failures[op].Load(),
			b.misses[op].Load(),
			float64(h.ValueAtQuantile(50))/1000,
			float64(h.ValueAtQuantile(95))/1000,
			float64(h.ValueAtQuantile(99))/1000,
			float64(h.ValueAtQuantile(100))/1000,
		)
	})
	b.throughput = append(b.throughput, total)
}

func (b *bench) done(elapsed time.Duration) {
	fmt.Println("\n____optype__elapsed_____ops(total)___ops/sec(cum)__avg(us)__p50(us)__p95(us)__p99(us)_pMax(us)")
	b.latency.tick(func(tick latencyTick) {
		h := tick.cumulative
		fmt.Printf("%10s %7.1fs %14d %14.1f %8.1f %8.1f %8.1f %8.1f %8.1f\n",
			tick.op, elapsed.Seconds(), h.TotalCount(),
			float64(h.TotalCount())/elapsed.Seconds(),
			h.Mean()/1000,
			float64(h.ValueAtQuantile(50))/1000,
			float64(h.ValueAtQuantile(95))/1000,
			float64(h.ValueAtQuantile(99))/1000,
			float64(h.ValueAtQuantile(100))/1000)
	})
	fmt.Println()
}

func runBench(kind string, newContainer func(*ordered.Options) container) error {
	if concurrency < 1 {
		return errors.Errorf("concurrency must be at least 1, got %d", concurrency)
	}
	if benchConfig.keys == 0 {
		return errors.New("the key space must not be empty")
	}
	weights, err := parseWorkload(benchConfig.workload)
	if err != nil {
		return err
	}

	var alloc interface {
		manual.Allocator
		manual.MetricsProvider
	}
	if benchConfig.limitBytes > 0 {
		alloc = manual.NewLimited(benchConfig.limitBytes)
	} else {
		alloc = &manual.Heap{}
	}
	opts := &ordered.Options{
		Allocator:    alloc,
		FreeListSize: benchConfig.freeListSize,
	}
	if !verbose {
		// Failed puts are counted; only --verbose reports each one.
		opts.Logger = ordered.NoopLogger{}
	}

	b := newBench(kind, newContainer(opts), weights)
	fmt.Printf("%s\nconcurrency %d\nkeys %d\n", kind, concurrency, benchConfig.keys)
	if r := b.limiter.Rate(); r > 0 {
		fmt.Printf("rate %.0f ops/sec\n", r)
	}
	if err := b.load(); err != nil {
		return err
	}

	if benchConfig.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(manual.NewCollector("ordered", alloc))
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: benchConfig.metricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("metrics server: %v", err)
			}
		}()
		defer func() { _ = srv.Close() }()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < concurrency; i++ {
		g.Go(func() error {
			return b.run(gctx, i)
		})
	}
	workersDone := make(chan error, 1)
	go func() {
		workersDone <- g.Wait()
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	start := time.Now()
	for i := 0; ; i++ {
		select {
		case <-ticker.C:
			b.tick(time.Since(start), i)

		case err := <-workersDone:
			elapsed := time.Since(start)
			if err != nil {
				return err
			}
			b.done(elapsed)
			return b.report(os.Stdout, alloc)
		}
	}
}

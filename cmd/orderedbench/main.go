// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// orderedbench drives a configurable mix of operations against the ordered
// containers from concurrent workers and reports throughput, latency and
// allocator usage.
package main

import (
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	concurrency int
	duration    time.Duration
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "orderedbench [command] (flags)",
	Short: "ordered container benchmarking tool",
	Long:  ``,
}

func main() {
	log.SetFlags(0)

	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(
		treeMapCmd,
		linkedMapCmd,
		treeSetCmd,
	)

	for _, cmd := range []*cobra.Command{treeMapCmd, linkedMapCmd, treeSetCmd} {
		cmd.Flags().IntVarP(
			&concurrency, "concurrency", "c", 1, "number of concurrent workers")
		cmd.Flags().DurationVarP(
			&duration, "duration", "d", 10*time.Second, "the duration to run (0, run forever)")
		cmd.Flags().BoolVarP(
			&verbose, "verbose", "v", false, "enable verbose event logging")
		cmd.Flags().Uint64VarP(
			&benchConfig.numOps, "num-ops", "n", 0, "maximum number of operations (0 means unlimited)")
		cmd.Flags().Uint64Var(
			&benchConfig.keys, "keys", 100000, "size of the key space")
		cmd.Flags().Uint64Var(
			&benchConfig.initialKeys, "initial-keys", 0, "number of keys to load before starting the workload")
		cmd.Flags().Int64Var(
			&benchConfig.seed, "seed", 1, "key hash seed")
		cmd.Flags().StringVar(
			&benchConfig.workload, "workload", "put=40,get=40,remove=15,scan=5",
			"weighted operation mix (put, get, remove, scan, index)")
		cmd.Flags().IntVar(
			&benchConfig.scanLength, "scan-length", 10, "number of elements visited by each scan")
		cmd.Flags().Float64Var(
			&benchConfig.rate, "rate", 0, "maximum operations per second (0 means unlimited)")
		cmd.Flags().Uint64Var(
			&benchConfig.limitBytes, "limit-bytes", 0,
			"byte budget for container nodes (0 means unlimited); puts fail once it is exhausted")
		cmd.Flags().IntVar(
			&benchConfig.freeListSize, "free-list", 128, "number of released nodes kept for reuse")
		cmd.Flags().StringVar(
			&benchConfig.metricsAddr, "metrics-addr", "",
			"if set, serve Prometheus metrics for the allocator on this address")
		cmd.Flags().BoolVar(
			&benchConfig.graph, "graph", false, "plot the throughput of each tick when done")
	}

	treeSetCmd.Flags().BoolVar(
		&benchConfig.descending, "descending", false, "order the set from largest to smallest key")

	if err := rootCmd.Execute(); err != nil {
		// Cobra has already printed the error message.
		os.Exit(1)
	}
}

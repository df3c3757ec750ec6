// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ordered

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/ordered/manual"
	"github.com/cockroachdb/redact"
	"github.com/stretchr/testify/require"
)

type testLogger struct {
	logf func(format string, args ...interface{})
}

func (l testLogger) Infof(format string, args ...interface{})  { l.logf(format, args...) }
func (l testLogger) Errorf(format string, args ...interface{}) { l.logf(format, args...) }
func (l testLogger) Fatalf(format string, args ...interface{}) {
	panic(fmt.Sprintf(format, args...))
}

func TestAllocationFailedInfoFormat(t *testing.T) {
	info := AllocationFailedInfo{
		Container: "LinkedTreeMap",
		Len:       7,
		Err:       errors.Wrap(manual.ErrOutOfMemory, "inserting"),
	}
	require.Equal(t, "[LinkedTreeMap] allocation failed with 7 elements: inserting: manual: out of memory", info.String())
	// The container and length survive redaction.
	require.True(t, strings.HasPrefix(string(redact.Sprint(info).Redact()),
		"[LinkedTreeMap] allocation failed with 7 elements: "))
}

func TestEventListenerDefaults(t *testing.T) {
	var l EventListener
	l.EnsureDefaults()
	require.NotNil(t, l.AllocationFailed)
	l.AllocationFailed(AllocationFailedInfo{})

	opts := (*Options)(nil).EnsureDefaults()
	require.Equal(t, manual.Default, opts.Allocator)
	require.NotNil(t, opts.EventListener.AllocationFailed)
	require.Equal(t, DefaultLogger{}, opts.Logger)
}

func TestOptionsLoggerReceivesAllocationFailure(t *testing.T) {
	var lines []string
	logger := testLogger{logf: func(format string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}}
	m := NewOrderedTreeMap[int, int](&Options{
		Logger:    logger,
		Allocator: manual.NewInjector(&manual.Heap{}, manual.FailAlways),
	})
	_, err := m.Put(1, 1)
	require.True(t, errors.Is(err, manual.ErrOutOfMemory))
	require.Len(t, lines, 1)
	require.True(t, strings.HasPrefix(lines[0], "[TreeMap] allocation failed with 0 elements: "), lines[0])

	// An explicit listener takes precedence over the logger.
	lines = nil
	var events int
	m = NewOrderedTreeMap[int, int](&Options{
		Logger:        logger,
		Allocator:     manual.NewInjector(&manual.Heap{}, manual.FailAlways),
		EventListener: &EventListener{AllocationFailed: func(AllocationFailedInfo) { events++ }},
	})
	_, err = m.Put(1, 1)
	require.Error(t, err)
	require.Equal(t, 1, events)
	require.Empty(t, lines)
}

func TestOptionsResolveDoesNotMutate(t *testing.T) {
	opts := &Options{FreeListSize: -3}
	resolved := opts.resolve()
	require.Equal(t, 0, resolved.FreeListSize)
	require.Equal(t, -3, opts.FreeListSize)
	require.Nil(t, opts.Allocator)
}

func TestTeeEventListener(t *testing.T) {
	var a, b int
	l := TeeEventListener(
		EventListener{AllocationFailed: func(AllocationFailedInfo) { a++ }},
		EventListener{AllocationFailed: func(AllocationFailedInfo) { b++ }},
	)
	l.AllocationFailed(AllocationFailedInfo{})
	require.Equal(t, 1, a)
	require.Equal(t, 1, b)
	TeeEventListener(EventListener{}, EventListener{}).AllocationFailed(AllocationFailedInfo{})
}

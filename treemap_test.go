// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ordered

import (
	"fmt"
	"slices"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/ordered/internal/invariants"
	"github.com/cockroachdb/ordered/manual"
	"github.com/stretchr/testify/require"
)

func mapKeys[K, V any](m *TreeMap[K, V]) []K {
	return slices.Collect(m.Keys())
}

func TestTreeMapScenario(t *testing.T) {
	m := NewOrderedTreeMap[int, string](nil)
	for _, k := range []int{5, 3, 8, 1, 4, 7, 9} {
		_, err := m.Put(k, fmt.Sprint("v", k))
		require.NoError(t, err)
	}
	require.Equal(t, []int{1, 3, 4, 5, 7, 8, 9}, mapKeys(m))
	require.True(t, m.Remove(5))
	require.Equal(t, []int{1, 3, 4, 7, 8, 9}, mapKeys(m))
	require.False(t, m.Remove(5))
	require.NoError(t, m.Verify())

	var values []string
	for k, v := range m.All() {
		require.Equal(t, fmt.Sprint("v", k), *v)
		values = append(values, *v)
	}
	require.Equal(t, []string{"v1", "v3", "v4", "v7", "v8", "v9"}, values)
}

func TestTreeMapPutGet(t *testing.T) {
	m := NewOrderedTreeMap[string, int](nil)
	h1, err := m.Put("a", 1)
	require.NoError(t, err)
	require.True(t, h1.Valid())
	require.Equal(t, "a", h1.Key())
	require.Equal(t, 1, *h1.Value())

	h, ok := m.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, *h.Value())

	// Replacing keeps the entry, and therefore the handle.
	h2, err := m.Put("a", 2)
	require.NoError(t, err)
	require.Equal(t, h1, h2)
	require.Equal(t, 2, *h1.Value())
	require.Equal(t, 1, m.Len())

	*h1.Value() = 3
	h, _ = m.Get("a")
	require.Equal(t, 3, *h.Value())

	h, ok = m.Get("b")
	require.False(t, ok)
	require.False(t, h.Valid())
	require.False(t, m.ContainsKey("b"))
	require.True(t, m.ContainsKey("a"))
}

func TestTreeMapGetByIndex(t *testing.T) {
	m := NewOrderedTreeMap[int, int](nil)
	for _, k := range []int{30, 10, 20} {
		_, err := m.Put(k, k*10)
		require.NoError(t, err)
	}
	for i, want := range []int{10, 20, 30} {
		h, ok := m.GetByIndex(i)
		require.True(t, ok)
		require.Equal(t, want, h.Key())
		require.Equal(t, want*10, *h.Value())
	}
	_, ok := m.GetByIndex(3)
	require.False(t, ok)
	_, ok = m.GetByIndex(-1)
	require.False(t, ok)
}

func TestTreeMapRemoveByObject(t *testing.T) {
	m := NewOrderedTreeMap[int, string](nil)
	var handles []Handle[int, string]
	for i := 0; i < 10; i++ {
		h, err := m.Put(i, fmt.Sprint(i))
		require.NoError(t, err)
		handles = append(handles, h)
	}
	h, ok := m.GetByIndex(4)
	require.True(t, ok)
	require.True(t, m.RemoveByObject(h))
	require.False(t, m.ContainsKey(4))
	require.False(t, m.RemoveByObject(h))
	require.False(t, m.RemoveByObject(Handle[int, string]{}))

	// Handles to other entries are unaffected.
	for i, h := range handles {
		if i == 4 {
			continue
		}
		require.Equal(t, i, h.Key())
		require.Equal(t, fmt.Sprint(i), *h.Value())
	}
	require.Equal(t, 9, m.Len())
	require.NoError(t, m.Verify())

	if invariants.Enabled {
		other := NewOrderedTreeMap[int, string](nil)
		for i := 0; i < 3; i++ {
			_, err := other.Put(i, "")
			require.NoError(t, err)
		}
		require.Panics(t, func() { other.RemoveByObject(handles[0]) })
	}
}

func TestTreeMapClearAndMove(t *testing.T) {
	h := &manual.Heap{}
	m := NewOrderedTreeMap[int, int](&Options{Allocator: h})
	for i := 0; i < 50; i++ {
		_, err := m.Put(i, i)
		require.NoError(t, err)
	}
	handle, _ := m.Get(25)

	dst := NewOrderedTreeMap[int, int](&Options{Allocator: h})
	dst.MoveFrom(m)
	require.True(t, m.Empty())
	require.Equal(t, 50, dst.Len())
	require.Equal(t, 25, handle.Key())
	require.True(t, dst.RemoveByObject(handle))
	require.Equal(t, 49, dst.Len())

	dst.Clear()
	require.True(t, dst.Empty())
	require.Equal(t, 0, dst.Len())
	require.Empty(t, mapKeys(dst))
	metrics := h.Metrics()
	require.Equal(t, uint64(0), metrics[manual.TableNode].InUseBytes)
	require.Equal(t, uint64(50), metrics[manual.TableNode].Allocs)
}

func TestTreeMapAllocationFailure(t *testing.T) {
	var logged []string
	logger := testLogger{logf: func(format string, args ...interface{}) {
		logged = append(logged, fmt.Sprintf(format, args...))
	}}
	listener := MakeLoggingEventListener(logger)
	m := NewOrderedTreeMap[int, int](&Options{
		Allocator:     manual.NewInjector(manual.Default, manual.FailAlways),
		EventListener: &listener,
	})
	h, err := m.Put(1, 1)
	require.Error(t, err)
	require.True(t, errors.Is(err, manual.ErrOutOfMemory))
	require.Contains(t, err.Error(), "ordered: TreeMap")
	require.False(t, h.Valid())
	require.True(t, m.Empty())
	require.Len(t, logged, 1)
	require.Contains(t, logged[0], "[TreeMap] allocation failed with 0 elements")
}

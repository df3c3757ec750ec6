// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package invariants

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValue(t *testing.T) {
	var v Value[*int]
	require.Nil(t, v.Get())
	x := 1
	v.Set(&x)
	if Enabled {
		require.Same(t, &x, v.Get())
	} else {
		require.Nil(t, v.Get())
	}
}

func TestSafeSub(t *testing.T) {
	require.Equal(t, uint64(2), SafeSub[uint64](5, 3))
	if Enabled {
		require.Panics(t, func() { SafeSub[uint64](3, 5) })
	} else {
		require.Equal(t, uint64(0), SafeSub[uint64](3, 5))
	}
}

func TestSometimes(t *testing.T) {
	n := 0
	for i := 0; i < 1000; i++ {
		if Sometimes(100) {
			n++
		}
		require.False(t, Sometimes(0))
	}
	if Enabled {
		require.Equal(t, 1000, n)
	} else {
		require.Equal(t, 0, n)
	}
}

// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ordered

import "github.com/cockroachdb/ordered/internal/base"

// Compare exports the base.Compare type.
type Compare[T any] = base.Compare[T]

// Logger exports the base.Logger type.
type Logger = base.Logger

// DefaultLogger exports the base.DefaultLogger type.
type DefaultLogger = base.DefaultLogger

// NoopLogger exports the base.NoopLogger type.
type NoopLogger = base.NoopLogger

// FromLess exports the base.FromLess function.
func FromLess[T any](less func(a, b T) bool) Compare[T] {
	return base.FromLess(less)
}

// Reverse exports the base.Reverse function.
func Reverse[T any](c Compare[T]) Compare[T] {
	return base.Reverse(c)
}

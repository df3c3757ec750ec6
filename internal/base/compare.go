// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import "cmp"

// Compare returns -1, 0, or +1 depending on whether a is 'less than', 'equal
// to' or 'greater than' b.
//
// The ordering must be a strict weak order and must remain stable for as long
// as an element is resident in a table.
type Compare[T any] func(a, b T) int

// FromLess derives a Compare from a strict weak ordering expressed as a "less
// than" predicate. Two elements are equal when neither is less than the other.
func FromLess[T any](less func(a, b T) bool) Compare[T] {
	return func(a, b T) int {
		switch {
		case less(a, b):
			return -1
		case less(b, a):
			return +1
		default:
			return 0
		}
	}
}

// OrderedCompare returns the Compare for a type with a natural ordering.
func OrderedCompare[T cmp.Ordered]() Compare[T] {
	return cmp.Compare[T]
}

// Reverse inverts the order imposed by c.
func Reverse[T any](c Compare[T]) Compare[T] {
	return func(a, b T) int {
		return c(b, a)
	}
}

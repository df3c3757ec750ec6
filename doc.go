// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package ordered provides ordered sets and maps whose storage is admitted by
// a fallible allocator.
//
// TreeSet and TreeMap keep their elements in an AVL tree (see package avl).
// LinkedTreeMap additionally threads every entry through an intrusive list
// (see package ilist) so that entries can be visited in the order in which
// they were last put, independent of key order.
//
// Insertion is the only operation that can fail: when the configured
// manual.Allocator refuses to provide storage, the operation returns an error
// wrapping manual.ErrOutOfMemory and the container is left unchanged. Absent
// keys are reported with boolean or nil results, never with errors.
//
// None of the containers synchronize internally. Callers must hold an
// exclusive lock around mutations and a lock excluding mutations around
// lookups and iteration. A container must not be copied after first use; use
// MoveFrom to transfer its contents.
package ordered

// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"cmp"
	"sync"

	"github.com/cockroachdb/ordered"
)

// container is the view of an ordered container exercised by the workload.
// Implementations serialize access with a sync.RWMutex: the containers
// themselves are not synchronized.
type container interface {
	put(key, value uint64) error
	get(key uint64) bool
	remove(key uint64) bool
	// scan visits up to n elements in iteration order and returns the number
	// visited.
	scan(n int) int
	// index looks up the i-th element in iteration order (modulo the length).
	index(i uint64) bool
	len() int
	verify() error
	clear()
}

type treeMap struct {
	mu sync.RWMutex
	m  *ordered.TreeMap[uint64, uint64]
}

func newTreeMap(opts *ordered.Options) *treeMap {
	return &treeMap{m: ordered.NewOrderedTreeMap[uint64, uint64](opts)}
}

func (c *treeMap) put(key, value uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.m.Put(key, value)
	return err
}

func (c *treeMap) get(key uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.m.Get(key)
	return ok
}

func (c *treeMap) remove(key uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m.Remove(key)
}

func (c *treeMap) scan(n int) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := 0
	for range c.m.All() {
		if i++; i >= n {
			break
		}
	}
	return i
}

func (c *treeMap) index(i uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.m.Len() == 0 {
		return false
	}
	_, ok := c.m.GetByIndex(int(i % uint64(c.m.Len())))
	return ok
}

func (c *treeMap) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.m.Len()
}

func (c *treeMap) verify() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.m.Verify()
}

func (c *treeMap) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m.Clear()
}

type linkedMap struct {
	mu sync.RWMutex
	m  *ordered.LinkedTreeMap[uint64, uint64]
}

func newLinkedMap(opts *ordered.Options) *linkedMap {
	return &linkedMap{m: ordered.NewOrderedLinkedTreeMap[uint64, uint64](opts)}
}

func (c *linkedMap) put(key, value uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.m.Put(key, value)
	return err
}

func (c *linkedMap) get(key uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.m.Get(key)
	return ok
}

func (c *linkedMap) remove(key uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m.Remove(key)
}

func (c *linkedMap) scan(n int) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := 0
	for range c.m.All() {
		if i++; i >= n {
			break
		}
	}
	return i
}

func (c *linkedMap) index(i uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.m.Len() == 0 {
		return false
	}
	_, ok := c.m.GetByIndex(int(i % uint64(c.m.Len())))
	return ok
}

func (c *linkedMap) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.m.Len()
}

func (c *linkedMap) verify() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.m.Verify()
}

func (c *linkedMap) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m.Clear()
}

type treeSet struct {
	mu sync.RWMutex
	s  *ordered.TreeSet[uint64]
}

// newTreeSet returns a set of keys in ascending order, or in descending order
// if descending is set.
func newTreeSet(opts *ordered.Options, descending bool) *treeSet {
	if descending {
		return &treeSet{s: ordered.NewTreeSet(ordered.Reverse[uint64](cmp.Compare[uint64]), opts)}
	}
	return &treeSet{s: ordered.NewOrderedTreeSet[uint64](opts)}
}

func (c *treeSet) put(key, _ uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.Add(key)
}

func (c *treeSet) get(key uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.s.Contains(key)
}

func (c *treeSet) remove(key uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.Remove(key)
}

func (c *treeSet) scan(n int) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it := c.s.Iterator()
	i := 0
	for i < n && it.HasNext() {
		it.Next()
		i++
	}
	return i
}

func (c *treeSet) index(i uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.s.Len() == 0 {
		return false
	}
	it := c.s.Iterator()
	for j := i % uint64(c.s.Len()); j > 0 && it.HasNext(); j-- {
		it.Next()
	}
	return it.Next() != nil
}

func (c *treeSet) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.s.Len()
}

func (c *treeSet) verify() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.s.Verify()
}

func (c *treeSet) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.Clear()
}

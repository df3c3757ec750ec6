// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ordered

import (
	"github.com/cockroachdb/ordered/avl"
	"github.com/cockroachdb/ordered/manual"
)

// Options holds the optional parameters for configuring a container. The
// element types and the ordering are fixed by the constructor; everything
// here is fixed at construction time too.
type Options struct {
	// Allocator admits the storage for every element. Containers report
	// allocation failure as an error wrapping manual.ErrOutOfMemory and are
	// left unchanged.
	//
	// The default value is manual.Default, which never fails.
	Allocator manual.Allocator

	// FreeListSize is the number of released nodes a container keeps for
	// reuse instead of returning them to the Go heap. Memory for retained
	// nodes is still released to the Allocator.
	//
	// The default value is 0: nothing is retained.
	FreeListSize int

	// EventListener provides hooks to listening to significant container
	// events. The default reports every event through Logger.
	EventListener *EventListener

	// Logger receives the events of the default EventListener. It is unused
	// when EventListener is set.
	//
	// The default value is DefaultLogger.
	Logger Logger
}

// EnsureDefaults ensures that the default values for all options are set if a
// valid value was not already specified. Returns the new options.
func (o *Options) EnsureDefaults() *Options {
	if o == nil {
		o = &Options{}
	}
	if o.Allocator == nil {
		o.Allocator = manual.Default
	}
	if o.FreeListSize < 0 {
		o.FreeListSize = 0
	}
	if o.Logger == nil {
		o.Logger = DefaultLogger{}
	}
	if o.EventListener == nil {
		l := MakeLoggingEventListener(o.Logger)
		o.EventListener = &l
	}
	o.EventListener.EnsureDefaults()
	return o
}

// Clone creates a shallow-copy of the supplied options.
func (o *Options) Clone() *Options {
	if o == nil {
		return &Options{}
	}
	n := *o
	return &n
}

// resolve returns a defaulted copy of o, leaving the caller's options
// untouched.
func (o *Options) resolve() *Options {
	return o.Clone().EnsureDefaults()
}

func (o *Options) tableOptions(purpose manual.Purpose) avl.Options {
	return avl.Options{
		Allocator:    o.Allocator,
		Purpose:      purpose,
		FreeListSize: o.FreeListSize,
	}
}

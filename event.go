// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ordered

import "github.com/cockroachdb/redact"

// AllocationFailedInfo contains the info for an allocation failure event.
type AllocationFailedInfo struct {
	// Container is the kind of container that failed to grow, e.g. "TreeMap".
	Container string
	// Len is the number of elements in the container, which is unchanged by
	// the failed operation.
	Len int
	// Err is the error returned to the caller. It wraps manual.ErrOutOfMemory.
	Err error
}

func (i AllocationFailedInfo) String() string {
	return redact.StringWithoutMarkers(i)
}

// SafeFormat implements redact.SafeFormatter.
func (i AllocationFailedInfo) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("[%s] allocation failed with %d elements: %v",
		redact.SafeString(i.Container), redact.Safe(i.Len), i.Err)
}

// EventListener contains a set of functions that will be invoked when various
// significant container events occur. Note that the functions should not run
// for an excessive amount of time as they are invoked synchronously by the
// operation that triggered the event.
type EventListener struct {
	// AllocationFailed is invoked after an insertion failed because the
	// allocator refused to provide storage.
	AllocationFailed func(AllocationFailedInfo)
}

// EnsureDefaults ensures that handlers are installed for all events.
func (l *EventListener) EnsureDefaults() {
	if l.AllocationFailed == nil {
		l.AllocationFailed = func(AllocationFailedInfo) {}
	}
}

// MakeLoggingEventListener creates an EventListener that logs all events to
// the specified logger.
func MakeLoggingEventListener(logger Logger) EventListener {
	if logger == nil {
		logger = DefaultLogger{}
	}
	return EventListener{
		AllocationFailed: func(info AllocationFailedInfo) {
			logger.Errorf("%s", info)
		},
	}
}

// TeeEventListener wraps two EventListeners, forwarding all events to both.
func TeeEventListener(a, b EventListener) EventListener {
	a.EnsureDefaults()
	b.EnsureDefaults()
	return EventListener{
		AllocationFailed: func(info AllocationFailedInfo) {
			a.AllocationFailed(info)
			b.AllocationFailed(info)
		},
	}
}

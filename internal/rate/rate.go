// Copyright 2023 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package rate provides a rate limiter.
package rate

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/tokenbucket"
)

// A Limiter controls how frequently operations are allowed to happen. It
// implements a "token bucket" of size b, initially full and refilled at rate r
// tokens per second.
//
// A nil *Limiter imposes no limit.
//
// Limiter is thread-safe.
type Limiter struct {
	mu struct {
		sync.Mutex
		tb   tokenbucket.TokenBucket
		rate float64
	}
	sleepFn func(ctx context.Context, d time.Duration) error
}

// NewLimiter returns a new Limiter that allows operations up to rate r and
// permits bursts of at most b tokens. A non-positive rate returns nil, which
// imposes no limit.
func NewLimiter(r float64, b float64) *Limiter {
	if r <= 0 {
		return nil
	}
	l := &Limiter{}
	l.mu.tb.Init(tokenbucket.TokensPerSecond(r), tokenbucket.Tokens(b))
	l.mu.rate = r
	l.sleepFn = sleep
	return l
}

// NewLimiterWithCustomTime returns a new Limiter that uses the given functions
// to retrieve the current time and to sleep (useful for testing).
func NewLimiterWithCustomTime(
	r float64, b float64, nowFn func() time.Time, sleepFn func(d time.Duration),
) *Limiter {
	l := &Limiter{}
	l.mu.tb.InitWithNowFn(tokenbucket.TokensPerSecond(r), tokenbucket.Tokens(b), nowFn)
	l.mu.rate = r
	l.sleepFn = func(ctx context.Context, d time.Duration) error {
		sleepFn(d)
		return ctx.Err()
	}
	return l
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait sleeps until n tokens are available or ctx is done. If n is more than
// the burst, the token bucket goes into debt, delaying future operations.
func (l *Limiter) Wait(ctx context.Context, n float64) error {
	if l == nil {
		return ctx.Err()
	}
	for {
		l.mu.Lock()
		ok, d := l.mu.tb.TryToFulfill(tokenbucket.Tokens(n))
		l.mu.Unlock()
		if ok {
			return nil
		}
		if err := l.sleepFn(ctx, d); err != nil {
			return err
		}
	}
}

// Rate returns the current rate limit, or 0 for a nil Limiter.
func (l *Limiter) Rate() float64 {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mu.rate
}

// Package backoff implements the increasing-wait timer used by every remote
// operation that can transiently fail. The wait grows by a fixed multiplier
// on each consecutive failure, is capped at a ceiling, and resets to the
// initial value after any success.
package backoff

import (
	"context"
	"time"
)

// Default parameters for remote transfer retries.
const (
	DefaultInitialWait = 500 * time.Millisecond
	DefaultMaxWait     = 10 * time.Minute
	DefaultMultiplier  = 2
)

// Backoff tracks the current wait duration. It is not safe for concurrent
// use; every transfer loop owns its own instance.
type Backoff struct {
	initial    time.Duration
	max        time.Duration
	multiplier int
	current    time.Duration

	// sleep is replaceable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New returns a Backoff starting at initial, growing by multiplier up to
// max. Non-positive arguments fall back to the package defaults.
func New(initial, max time.Duration, multiplier int) *Backoff {
	if initial <= 0 {
		initial = DefaultInitialWait
	}
	if max <= 0 {
		max = DefaultMaxWait
	}
	if multiplier <= 0 {
		multiplier = DefaultMultiplier
	}
	return &Backoff{
		initial:    initial,
		max:        max,
		multiplier: multiplier,
		current:    initial,
		sleep:      sleepContext,
	}
}

// NewDefault returns a Backoff with the package default parameters.
func NewDefault() *Backoff {
	return New(DefaultInitialWait, DefaultMaxWait, DefaultMultiplier)
}

// WaitTime returns the duration the next Wait call will sleep for.
func (b *Backoff) WaitTime() time.Duration {
	return b.current
}

// Wait sleeps for the current wait duration, then increases it by the
// multiplier without exceeding the ceiling. It returns early with the
// context error if ctx is cancelled while waiting.
func (b *Backoff) Wait(ctx context.Context) error {
	if err := b.sleep(ctx, b.current); err != nil {
		return err
	}
	next := b.current * time.Duration(b.multiplier)
	if next > b.max {
		next = b.max
	}
	b.current = next
	return nil
}

// Reset restores the wait duration to the initial value. Call it after any
// successful operation.
func (b *Backoff) Reset() {
	b.current = b.initial
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

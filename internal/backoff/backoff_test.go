package backoff

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// record replaces the sleeper so tests observe waits without sleeping.
func record(b *Backoff) *[]time.Duration {
	var waits []time.Duration
	b.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return &waits
}

func TestWait_GrowsByMultiplierUpToMax(t *testing.T) {
	b := New(100*time.Millisecond, 1*time.Second, 2)
	waits := record(b)

	ctx := context.Background()
	for i := 0; i < 6; i++ {
		require.NoError(t, b.Wait(ctx))
	}

	want := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		1 * time.Second,
		1 * time.Second,
	}
	require.Equal(t, want, *waits)
}

func TestReset_RestoresInitialWait(t *testing.T) {
	b := New(100*time.Millisecond, 1*time.Second, 2)
	record(b)

	ctx := context.Background()
	require.NoError(t, b.Wait(ctx))
	require.NoError(t, b.Wait(ctx))
	require.Equal(t, 400*time.Millisecond, b.WaitTime())

	b.Reset()
	require.Equal(t, 100*time.Millisecond, b.WaitTime())
}

func TestNew_FallsBackToDefaults(t *testing.T) {
	b := New(0, 0, 0)
	require.Equal(t, DefaultInitialWait, b.WaitTime())

	d := NewDefault()
	require.Equal(t, DefaultInitialWait, d.WaitTime())
}

func TestWait_ReturnsContextError(t *testing.T) {
	b := NewDefault()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := b.Wait(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

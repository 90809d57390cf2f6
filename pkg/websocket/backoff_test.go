package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffNext(t *testing.T) {
	b := Backoff{Min: 250 * time.Millisecond, Max: 5 * time.Second, Factor: 2}

	testCases := []struct {
		desc    string
		attempt int
		want    time.Duration
	}{
		{desc: "zero attempt reads as first", attempt: 0, want: 250 * time.Millisecond},
		{desc: "first", attempt: 1, want: 250 * time.Millisecond},
		{desc: "second", attempt: 2, want: 500 * time.Millisecond},
		{desc: "fifth", attempt: 5, want: 4 * time.Second},
		{desc: "capped", attempt: 6, want: 5 * time.Second},
		{desc: "stays capped", attempt: 50, want: 5 * time.Second},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.want, b.Next(tc.attempt))
		})
	}
}

func TestBackoffJitterBounds(t *testing.T) {
	b := DefaultBackoff()
	for attempt := 1; attempt <= 8; attempt++ {
		base := Backoff{Min: b.Min, Max: b.Max, Factor: b.Factor}.Next(attempt)
		lo := time.Duration(float64(base) * (1 - b.Jitter))
		hi := time.Duration(float64(base) * (1 + b.Jitter))
		for range 100 {
			got := b.Next(attempt)
			assert.GreaterOrEqual(t, got, lo)
			assert.LessOrEqual(t, got, hi)
		}
	}
}

func TestBackoffSleepStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, Backoff{Min: time.Hour, Max: time.Hour}.sleep(ctx, 1))
	assert.True(t, Backoff{Min: time.Millisecond, Max: time.Millisecond}.sleep(context.Background(), 1))
}

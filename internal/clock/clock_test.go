package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeSleepAdvances(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewFake(start)

	require.NoError(t, f.Sleep(context.Background(), 10*time.Millisecond))
	require.NoError(t, f.Sleep(context.Background(), 0))
	f.Advance(5 * time.Millisecond)

	assert.Equal(t, start.Add(15*time.Millisecond), f.Now())
	assert.Equal(t, []time.Duration{10 * time.Millisecond}, f.Sleeps())

	f.Reset()
	assert.Empty(t, f.Sleeps())
}

func TestFakeSleepCancelled(t *testing.T) {
	f := NewFake(time.Time{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, f.Sleep(ctx, time.Second), context.Canceled)
	assert.Empty(t, f.Sleeps())
}

func TestSystemSleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := System{}.Sleep(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSystemSleep(t *testing.T) {
	require.NoError(t, System{}.Sleep(context.Background(), time.Millisecond))
}

package sonar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sonar-radar.klederson.com/internal/clock"
	"sonar-radar.klederson.com/internal/config"
)

func TestSimHeadMoveTiming(t *testing.T) {
	clk := clock.NewFake(time.Time{})
	h := NewSimHead(clk, SimOptions{Scene: []Reflector{}})

	require.NoError(t, h.SetPosition(context.Background(), 90))

	assert.Equal(t, []time.Duration{config.ServoPulse, config.ServoPulse}, clk.Sleeps())
	assert.InDelta(t, 90, h.Position(), 1e-9)
	assert.True(t, h.Enabled())

	require.NoError(t, h.Disable())
	assert.False(t, h.Enabled())
}

func TestSimHeadEchoes(t *testing.T) {
	clk := clock.NewFake(time.Time{})
	h := NewSimHead(clk, SimOptions{Scene: []Reflector{
		{Name: "Chair", Bearing: 90, Width: 10, Range: 0.5},
		{Name: "Wall", Bearing: 90, Width: 40, Range: 3},
	}})
	ctx := context.Background()

	require.NoError(t, h.SetPosition(ctx, 90))
	m, err := h.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.5, m, "nearest reflector wins")

	require.NoError(t, h.SetPosition(ctx, 105))
	m, err = h.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3.0, m)

	require.NoError(t, h.SetPosition(ctx, 10))
	m, err = h.Read(ctx)
	require.NoError(t, err)
	assert.Greater(t, m*100, config.MaxDistanceCM, "empty beam reads beyond the envelope")

	moves, reads := h.Stats()
	assert.Equal(t, 3, moves)
	assert.Equal(t, 3, reads)
}

func TestSimHeadFaults(t *testing.T) {
	h := NewSimHead(clock.NewFake(time.Time{}), SimOptions{FaultRate: 1})
	assert.ErrorIs(t, h.SetPosition(context.Background(), 45), ErrServoStall)
	assert.False(t, h.Enabled())
}

func TestSimHeadGlitches(t *testing.T) {
	h := NewSimHead(clock.NewFake(time.Time{}), SimOptions{GlitchRate: 1, Seed: 7})
	for i := 0; i < 20; i++ {
		m, err := h.Read(context.Background())
		require.NoError(t, err)
		assert.True(t, m <= 0 || m >= 8, "reading %v should be out of envelope", m)
	}
}

func TestSimHeadRandomScene(t *testing.T) {
	h := NewSimHead(clock.NewFake(time.Time{}), SimOptions{Seed: 42})
	scene := h.Scene()
	assert.GreaterOrEqual(t, len(scene), 4)
	for _, r := range scene {
		assert.GreaterOrEqual(t, r.Bearing, 10.0)
		assert.LessOrEqual(t, r.Bearing, 170.0)
		assert.Greater(t, r.Range, 0.0)
	}
}

func TestSimHeadReadCancelled(t *testing.T) {
	h := NewSimHead(clock.NewFake(time.Time{}), SimOptions{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := h.Read(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

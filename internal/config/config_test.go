package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "radar.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 360.0, cfg.Display.VisibleRadius)
	assert.Equal(t, 4.0, cfg.Display.Scale)
	assert.Equal(t, 5, cfg.Sweep.Step)
	assert.Equal(t, 10*time.Millisecond, cfg.Timing.Settle)
	assert.Equal(t, 100*time.Millisecond, cfg.Timing.Tick)
	assert.Equal(t, 2.0, cfg.Sensor.MinCM)
	assert.Equal(t, 500.0, cfg.Sensor.MaxCM)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
display:
  scale: 2.5
timing:
  tick: 150ms
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2.5, cfg.Display.Scale)
	assert.Equal(t, 150*time.Millisecond, cfg.Timing.Tick)
	// untouched fields keep their defaults
	assert.Equal(t, VisibleRadius, cfg.Display.VisibleRadius)
	assert.Equal(t, SettleDelay, cfg.Timing.Settle)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, "display:\n  colour: green\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero radius", func(c *Config) { c.Display.VisibleRadius = 0 }},
		{"negative scale", func(c *Config) { c.Display.Scale = -1 }},
		{"radius wider than display", func(c *Config) { c.Display.VisibleRadius = 450 }},
		{"origin off screen", func(c *Config) { c.Display.OriginOffset = 600 }},
		{"zero step", func(c *Config) { c.Sweep.Step = 0 }},
		{"step covers arc", func(c *Config) { c.Sweep.Step = 180 }},
		{"settle longer than tick", func(c *Config) { c.Timing.Settle = 200 * time.Millisecond }},
		{"zero tick", func(c *Config) { c.Timing.Tick = 0 }},
		{"inverted envelope", func(c *Config) { c.Sensor.MinCM, c.Sensor.MaxCM = 500, 2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

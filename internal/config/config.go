package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// Display surface (pixel space)
	DisplayWidth  = 800
	DisplayHeight = 600
	OriginOffset  = 100   // Origin sits this far above the bottom edge, horizontally centred
	VisibleRadius = 360.0 // Outermost rendered radius in pixels
	RingCount     = 6     // Number of concentric grid rings
	RingSpacing   = 60.0  // Pixels between grid rings
	PixelsPerCM   = 4.0   // Distance-to-pixel scale factor

	// Sweep
	SweepStep = 5   // Degrees per tick
	SweepMin  = 0   // Arc start in degrees
	SweepMax  = 180 // Arc end in degrees

	// Timing
	SettleDelay  = 10 * time.Millisecond  // Wait after a move before sampling
	TickInterval = 100 * time.Millisecond // Fixed loop period
	ServoPulse   = 20 * time.Millisecond  // Pulse and hold time of the servo drive

	// Ultrasonic envelope
	MinDistanceCM = 2.0
	MaxDistanceCM = 500.0

	// Servo duty cycle (percent at 50 Hz)
	ServoMinDuty = 2.0
	ServoMaxDuty = 12.5

	// Drawing
	MarkerRadius   = 10.0
	SweepLineWidth = 4
	GridLineWidth  = 1
	AspectRatio    = 0.5 // Terminal char aspect correction (chars are ~2:1 tall)

	// Link
	SerialBaud   = 115200
	LinkTimeout  = 2 * time.Second
	BLEScanLimit = 15 * time.Second

	// UI
	ReadingHistory = 64 // Recent readings kept for the sparkline

	// App
	AppName    = "SONAR-RADAR"
	AppVersion = "1.0"
)

// Display holds the pixel-space layout of the radar disk.
type Display struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	OriginOffset  int     `yaml:"origin_offset"`
	VisibleRadius float64 `yaml:"visible_radius"`
	RingCount     int     `yaml:"ring_count"`
	RingSpacing   float64 `yaml:"ring_spacing"`
	Scale         float64 `yaml:"scale"`
}

// Sweep holds the angular step of the sweep.
type Sweep struct {
	Step int `yaml:"step"`
}

// Timing holds the loop timing constants.
type Timing struct {
	Settle time.Duration `yaml:"settle"`
	Tick   time.Duration `yaml:"tick"`
}

// Sensor holds the clamp envelope in centimeters.
type Sensor struct {
	MinCM float64 `yaml:"min_cm"`
	MaxCM float64 `yaml:"max_cm"`
}

// Config is the process-wide configuration. It is loaded once at startup.
type Config struct {
	Display Display `yaml:"display"`
	Sweep   Sweep   `yaml:"sweep"`
	Timing  Timing  `yaml:"timing"`
	Sensor  Sensor  `yaml:"sensor"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Display: Display{
			Width:         DisplayWidth,
			Height:        DisplayHeight,
			OriginOffset:  OriginOffset,
			VisibleRadius: VisibleRadius,
			RingCount:     RingCount,
			RingSpacing:   RingSpacing,
			Scale:         PixelsPerCM,
		},
		Sweep: Sweep{Step: SweepStep},
		Timing: Timing{
			Settle: SettleDelay,
			Tick:   TickInterval,
		},
		Sensor: Sensor{
			MinCM: MinDistanceCM,
			MaxCM: MaxDistanceCM,
		},
	}
}

// Load overlays the YAML file at path on the defaults and validates the result.
// Fields omitted from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the scan loop cannot run with.
func (c Config) Validate() error {
	var errs []error

	d := c.Display
	if d.Width <= 0 || d.Height <= 0 {
		errs = append(errs, fmt.Errorf("display size %dx%d must be positive", d.Width, d.Height))
	}
	if d.VisibleRadius <= 0 {
		errs = append(errs, fmt.Errorf("visible_radius %.1f must be positive", d.VisibleRadius))
	}
	if d.Scale <= 0 {
		errs = append(errs, fmt.Errorf("scale %.2f must be positive", d.Scale))
	}
	if d.RingCount < 0 || d.RingSpacing < 0 {
		errs = append(errs, errors.New("ring_count and ring_spacing must not be negative"))
	}
	if d.OriginOffset < 0 || d.OriginOffset >= d.Height {
		errs = append(errs, fmt.Errorf("origin_offset %d outside display height %d", d.OriginOffset, d.Height))
	}
	if 2*d.VisibleRadius > float64(d.Width) || d.VisibleRadius > float64(d.Height-d.OriginOffset) {
		errs = append(errs, fmt.Errorf("visible_radius %.1f does not fit a %dx%d display", d.VisibleRadius, d.Width, d.Height))
	}

	if c.Sweep.Step <= 0 || c.Sweep.Step >= SweepMax-SweepMin {
		errs = append(errs, fmt.Errorf("sweep step %d must be in (0, %d)", c.Sweep.Step, SweepMax-SweepMin))
	}

	if c.Timing.Tick <= 0 {
		errs = append(errs, fmt.Errorf("tick interval %s must be positive", c.Timing.Tick))
	}
	if c.Timing.Settle < 0 || c.Timing.Settle >= c.Timing.Tick {
		errs = append(errs, fmt.Errorf("settle delay %s must be in [0, tick)", c.Timing.Settle))
	}

	if c.Sensor.MinCM <= 0 || c.Sensor.MinCM >= c.Sensor.MaxCM {
		errs = append(errs, fmt.Errorf("sensor envelope [%.1f, %.1f] is invalid", c.Sensor.MinCM, c.Sensor.MaxCM))
	}

	return errors.Join(errs...)
}

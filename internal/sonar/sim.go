package sonar

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"

	"sonar-radar.klederson.com/internal/clock"
	"sonar-radar.klederson.com/internal/config"
)

// ErrServoStall is the fault the simulated servo injects.
var ErrServoStall = errors.New("servo stalled")

// Reflector is something in front of the simulated head.
type Reflector struct {
	Name    string
	Bearing float64 // Degrees, centre of the echo
	Width   float64 // Degrees of arc that return an echo
	Range   float64 // Meters
	Drift   float64 // Degrees per read the reflector wanders by; 0 for fixed objects
}

var sceneTemplates = []struct {
	Name     string
	MinRange float64
	MaxRange float64
	Width    float64
	Drift    float64
}{
	{"Chair", 0.3, 0.8, 12, 0},
	{"Doorframe", 0.6, 1.2, 6, 0},
	{"Bookshelf", 0.4, 0.9, 20, 0},
	{"Plant", 0.2, 0.6, 8, 0},
	{"Person", 0.5, 0.85, 10, 0.6},
	{"Cat", 0.15, 0.5, 5, 1.5},
	{"Wall", 2.5, 4.5, 40, 0},
	{"Couch", 1.0, 2.0, 30, 0},
}

// SimOptions tune the simulated head.
type SimOptions struct {
	Seed       int64
	FaultRate  float64     // Probability a move stalls
	GlitchRate float64     // Probability a read is wildly out of envelope
	Noise      float64     // Reading noise amplitude in meters
	Scene      []Reflector // Replaces the random scene when set
}

// SimHead is a simulated servo and rangefinder. It satisfies both
// scan.Actuator and scan.Sampler.
type SimHead struct {
	mu    sync.Mutex
	clock clock.Clock
	rng   *rand.Rand
	opts  SimOptions
	scene []Reflector

	duty    float64
	enabled bool
	moves   int
	reads   int
}

// NewSimHead creates a head with a random scene unless opts.Scene is set.
func NewSimHead(clk clock.Clock, opts SimOptions) *SimHead {
	rng := rand.New(rand.NewSource(opts.Seed))

	scene := opts.Scene
	if scene == nil {
		// a few objects within view plus a couple of distant ones
		perm := rng.Perm(len(sceneTemplates))
		total := 4 + rng.Intn(3)
		for _, idx := range perm[:total] {
			tmpl := sceneTemplates[idx]
			scene = append(scene, Reflector{
				Name:    tmpl.Name,
				Bearing: 10 + rng.Float64()*160,
				Width:   tmpl.Width,
				Range:   tmpl.MinRange + rng.Float64()*(tmpl.MaxRange-tmpl.MinRange),
				Drift:   tmpl.Drift,
			})
		}
	}

	return &SimHead{
		clock: clk,
		rng:   rng,
		opts:  opts,
		scene: append([]Reflector(nil), scene...),
	}
}

// SetPosition drives the servo with one pulse, holds, then cuts the pulse.
func (h *SimHead) SetPosition(ctx context.Context, angle int) error {
	h.mu.Lock()
	h.moves++
	stall := h.rng.Float64() < h.opts.FaultRate
	h.mu.Unlock()

	if stall {
		return ErrServoStall
	}

	duty := DutyCycle(angle)
	if err := h.clock.Sleep(ctx, config.ServoPulse); err != nil {
		return err
	}

	h.mu.Lock()
	h.duty = duty
	h.enabled = true
	h.mu.Unlock()

	return h.clock.Sleep(ctx, config.ServoPulse)
}

// Disable stops the PWM output.
func (h *SimHead) Disable() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.enabled = false
	h.duty = 0
	return nil
}

// Read returns the distance to the nearest reflector on the current
// bearing, in meters. With nothing in the beam it reports an echo from
// beyond the sensor's envelope.
func (h *SimHead) Read(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.reads++

	if h.rng.Float64() < h.opts.GlitchRate {
		if h.rng.Intn(2) == 0 {
			return -h.rng.Float64(), nil
		}
		return 8 + h.rng.Float64()*20, nil
	}

	bearing := AngleForDuty(h.duty)
	nearest := math.Inf(1)
	for i := range h.scene {
		r := &h.scene[i]
		if r.Drift != 0 {
			r.Bearing = math.Max(0, math.Min(180, r.Bearing+(h.rng.Float64()-0.5)*2*r.Drift))
		}
		if math.Abs(r.Bearing-bearing) <= r.Width/2 && r.Range < nearest {
			nearest = r.Range
		}
	}
	if math.IsInf(nearest, 1) {
		nearest = config.MaxDistanceCM/100 + 1
	}

	return nearest + (h.rng.Float64()-0.5)*2*h.opts.Noise, nil
}

// Position returns the angle the servo is holding.
func (h *SimHead) Position() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return AngleForDuty(h.duty)
}

// Enabled reports whether the servo output is on.
func (h *SimHead) Enabled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.enabled
}

// Scene returns a copy of the current reflectors.
func (h *SimHead) Scene() []Reflector {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Reflector(nil), h.scene...)
}

// Stats returns how many moves and reads the head has served.
func (h *SimHead) Stats() (moves, reads int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.moves, h.reads
}

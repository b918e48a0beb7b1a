// Package scan runs the radar: it steps the sensor head across the arc,
// samples a distance at each stop and draws one frame per tick.
package scan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"sonar-radar.klederson.com/internal/clock"
	"sonar-radar.klederson.com/internal/config"
	"sonar-radar.klederson.com/internal/logging"
	"sonar-radar.klederson.com/internal/radar"
)

var (
	// ErrActuatorFault wraps a failed move. The tick still completes.
	ErrActuatorFault = errors.New("actuator fault")
	// ErrSampleFault wraps a failed distance read. The tick still completes.
	ErrSampleFault = errors.New("sample fault")
	// ErrRenderFault wraps a failed draw. The loop stops.
	ErrRenderFault = errors.New("render fault")
)

// Actuator points the sensor. SetPosition blocks until the head has
// physically reached angle; Disable cuts the drive output.
type Actuator interface {
	SetPosition(ctx context.Context, angle int) error
	Disable() error
}

// Sampler takes one distance measurement, in meters.
type Sampler interface {
	Read(ctx context.Context) (float64, error)
}

// Display is a drawing surface the loop owns and releases on exit.
type Display interface {
	radar.Surface
	Release() error
}

// State of the loop.
type State int32

const (
	Idle State = iota
	Running
	Stopping
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "RUNNING"
	case Stopping:
		return "STOPPING"
	case Stopped:
		return "STOPPED"
	default:
		return "IDLE"
	}
}

// Report describes one completed tick.
type Report struct {
	Tick        uint64
	Sweep       radar.SweepState // State the tick was run for
	Position    int              // Angle the head was actually at when sampled
	RawMeters   float64
	Frame       radar.Frame
	ActuatorErr error
	SampleErr   error
	Duration    time.Duration // Work time, before pacing
}

// Options configure a Loop. Actuator, Sampler and Display are required.
type Options struct {
	Actuator Actuator
	Sampler  Sampler
	Display  Display
	Config   config.Config
	Clock    clock.Clock  // Defaults to clock.System
	OnTick   func(Report) // Called after every tick, on the loop goroutine
}

// Loop is the scan loop. Run must be called at most once.
type Loop struct {
	actuator Actuator
	sampler  Sampler
	display  Display
	clock    clock.Clock
	onTick   func(Report)

	geo      radar.Geometry
	envelope radar.Envelope
	settle   time.Duration
	interval time.Duration
	renderer *radar.Renderer

	state    atomic.Int32
	stopReq  atomic.Bool
	teardown sync.Once

	// owned by the loop goroutine
	sweep    radar.SweepState
	position int
	tick     uint64

	log *logrus.Entry
}

// New creates a loop in the Idle state.
func New(opts Options) *Loop {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	geo := radar.NewGeometry(opts.Config)
	start := radar.NewSweepState()
	return &Loop{
		actuator: opts.Actuator,
		sampler:  opts.Sampler,
		display:  opts.Display,
		clock:    opts.Clock,
		onTick:   opts.OnTick,
		geo:      geo,
		envelope: radar.Envelope{Min: opts.Config.Sensor.MinCM, Max: opts.Config.Sensor.MaxCM},
		settle:   opts.Config.Timing.Settle,
		interval: opts.Config.Timing.Tick,
		renderer: radar.NewRenderer(geo),
		sweep:    start,
		position: start.Angle,
		log:      logging.For("scan"),
	}
}

// State returns the current state. Safe from any goroutine.
func (l *Loop) State() State {
	return State(l.state.Load())
}

// Stop asks the loop to stop at the end of the current tick. Safe from any goroutine.
func (l *Loop) Stop() {
	l.stopReq.Store(true)
}

// Geometry returns the geometry the loop draws with.
func (l *Loop) Geometry() radar.Geometry {
	return l.geo
}

// Run ticks until ctx is done, Stop is called, or a frame cannot be drawn.
// Cancellation is only observed between ticks. On every exit the actuator
// is disabled and then the display released. A nil error means a normal stop.
func (l *Loop) Run(ctx context.Context) (err error) {
	l.state.Store(int32(Running))
	l.log.WithFields(logrus.Fields{
		"interval": l.interval,
		"settle":   l.settle,
		"step":     l.geo.Step,
	}).Info("scan loop running")

	defer func() {
		l.state.Store(int32(Stopping))
		if terr := l.shutdown(); terr != nil {
			err = errors.Join(err, terr)
		}
		l.state.Store(int32(Stopped))
		l.log.WithField("ticks", l.tick).Info("scan loop stopped")
	}()

	for {
		if l.stopRequested(ctx) {
			return nil
		}

		start := l.clock.Now()
		// a tick is never interrupted part way through
		if _, err := l.Tick(context.WithoutCancel(ctx)); err != nil {
			l.log.WithError(err).Error("render failed, stopping")
			return err
		}

		if l.stopRequested(ctx) {
			return nil
		}
		if err := l.pace(ctx, start); err != nil {
			return nil
		}
	}
}

func (l *Loop) stopRequested(ctx context.Context) bool {
	return ctx.Err() != nil || l.stopReq.Load()
}

// pace sleeps out the remainder of the tick interval.
func (l *Loop) pace(ctx context.Context, start time.Time) error {
	remaining := l.interval - l.clock.Now().Sub(start)
	if remaining <= 0 {
		l.log.WithField("overrun", -remaining).Debug("tick overran interval")
		return nil
	}
	return l.clock.Sleep(ctx, remaining)
}

// Tick runs one iteration: move, settle, sample, project, classify,
// render, advance. Actuator and sampler faults are logged, recorded in the
// report and ridden out. A render failure, or ctx ending during the settle
// wait, is returned as an error and the sweep does not advance.
func (l *Loop) Tick(ctx context.Context) (Report, error) {
	start := l.clock.Now()
	l.tick++
	rep := Report{Tick: l.tick, Sweep: l.sweep}
	entry := l.log.WithFields(logrus.Fields{"tick": l.tick, "angle": l.sweep.Angle})

	// the sweep may overshoot the arc by less than a step; the head never does
	target := min(max(l.sweep.Angle, config.SweepMin), config.SweepMax)
	if err := l.actuator.SetPosition(ctx, target); err != nil {
		rep.ActuatorErr = fmt.Errorf("%w: move to %d°: %w", ErrActuatorFault, target, err)
		entry.WithError(err).Warn("actuator fault, sampling at previous position")
	} else {
		l.position = target
	}
	rep.Position = l.position

	// sampling before the head settles reads the previous bearing
	if err := l.clock.Sleep(ctx, l.settle); err != nil {
		return rep, err
	}

	sample := radar.PolarSample{Angle: l.position, Distance: l.envelope.Max}
	detection := radar.Detection{Kind: radar.OutOfRange}
	raw, err := l.sampler.Read(ctx)
	if err != nil {
		rep.SampleErr = fmt.Errorf("%w: %w", ErrSampleFault, err)
		entry.WithError(err).Warn("sample fault, frame drawn without contact")
	} else {
		rep.RawMeters = raw
		sample.Distance = l.envelope.Clamp(radar.MetersToCentimeters(raw))
		object := radar.ProjectObject(sample.Angle, sample.Distance, l.geo)
		detection = radar.Classify(object, l.geo.Origin, l.geo.VisibleRadius)
	}

	rep.Frame = radar.Frame{
		Sample:    sample,
		SweepEnd:  radar.ProjectSweepLine(sample.Angle, l.geo),
		Detection: detection,
	}

	if err := l.renderer.Draw(l.display, rep.Frame); err != nil {
		return rep, fmt.Errorf("%w: %w", ErrRenderFault, err)
	}

	l.sweep = radar.Advance(l.sweep, l.geo.Step)
	rep.Duration = l.clock.Now().Sub(start)

	entry.WithFields(logrus.Fields{
		"distance": sample.Distance,
		"result":   detection.Kind,
	}).Debug("tick")

	if l.onTick != nil {
		l.onTick(rep)
	}
	return rep, nil
}

// shutdown disables the actuator, then releases the display. It runs once.
func (l *Loop) shutdown() error {
	var err error
	l.teardown.Do(func() {
		var errs []error
		if derr := l.actuator.Disable(); derr != nil {
			errs = append(errs, fmt.Errorf("disable actuator: %w", derr))
		}
		if rerr := l.display.Release(); rerr != nil {
			errs = append(errs, fmt.Errorf("release display: %w", rerr))
		}
		err = errors.Join(errs...)
		if err != nil {
			l.log.WithError(err).Error("teardown incomplete")
		}
	})
	return err
}

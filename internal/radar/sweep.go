package radar

import "sonar-radar.klederson.com/internal/config"

// Direction of travel along the arc.
type Direction int

const (
	Clockwise        Direction = -1
	CounterClockwise Direction = 1
)

func (d Direction) String() string {
	if d == Clockwise {
		return "CW"
	}
	return "CCW"
}

// SweepState is the current angle of the sweep and the way it is moving.
type SweepState struct {
	Angle     int // Degrees
	Direction Direction
}

// NewSweepState returns the state the loop starts in: 0°, moving counter-clockwise.
func NewSweepState() SweepState {
	return SweepState{
		Angle:     config.SweepMin,
		Direction: CounterClockwise,
	}
}

// Advance moves the sweep by step degrees and reverses it once the new
// angle reaches either end of the arc. The angle itself is not pulled
// back into the arc, so with a step that does not divide the arc it may
// overshoot by less than one step before turning round.
func Advance(s SweepState, step int) SweepState {
	next := SweepState{
		Angle:     s.Angle + int(s.Direction)*step,
		Direction: s.Direction,
	}
	if next.Angle >= config.SweepMax || next.Angle <= config.SweepMin {
		next.Direction = -s.Direction
	}
	return next
}

// SweepPeriod is the number of ticks for one full back-and-forth sweep.
func SweepPeriod(step int) int {
	return 2 * (config.SweepMax - config.SweepMin) / step
}

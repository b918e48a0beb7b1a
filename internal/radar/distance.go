package radar

import (
	"math"

	"sonar-radar.klederson.com/internal/config"
)

// Envelope is the physically plausible range of the rangefinder in centimeters.
type Envelope struct {
	Min, Max float64
}

// DefaultEnvelope is the 2–500 cm range of an HC-SR04 class sensor.
var DefaultEnvelope = Envelope{Min: config.MinDistanceCM, Max: config.MaxDistanceCM}

// Clamp saturates cm into the envelope. A NaN reading means no echo came
// back and is treated as the far end of the envelope.
func (e Envelope) Clamp(cm float64) float64 {
	if math.IsNaN(cm) {
		return e.Max
	}
	return math.Max(e.Min, math.Min(e.Max, cm))
}

// ClampDistance clamps cm into DefaultEnvelope.
func ClampDistance(cm float64) float64 {
	return DefaultEnvelope.Clamp(cm)
}

// MetersToCentimeters converts a raw sensor reading to centimeters.
func MetersToCentimeters(m float64) float64 {
	return m * 100
}

// PolarSample is one clamped reading tagged with the angle it was taken at.
type PolarSample struct {
	Angle    int     // Degrees
	Distance float64 // Centimeters
}

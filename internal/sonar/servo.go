// Package sonar talks to the sensor head: a hobby servo carrying an
// ultrasonic rangefinder. It provides a simulated head and a line
// protocol client for real heads on serial or BLE links.
package sonar

import (
	"math"

	"sonar-radar.klederson.com/internal/config"
)

// DutyCycle returns the 50 Hz PWM duty cycle, in percent, that holds the
// servo at angle degrees. It saturates at the servo's safe limits.
func DutyCycle(angle int) float64 {
	duty := config.ServoMinDuty + float64(angle)/18
	return math.Max(config.ServoMinDuty, math.Min(config.ServoMaxDuty, duty))
}

// AngleForDuty is the inverse of DutyCycle within the safe limits.
func AngleForDuty(duty float64) float64 {
	return (duty - config.ServoMinDuty) * 18
}

package domain

import (
	"fmt"
	"math"
	"time"
)

// ErrorLine is printed in place of a sample when a read fails.
const ErrorLine = "ERR"

// Direction is the battery charging direction.
type Direction int

const (
	DirectionNone        Direction = iota // not applicable (non-battery modes)
	DirectionCharging                     // on AC / charging
	DirectionDischarging                  // on battery
)

// Sign returns the status-bar decoration for the direction.
func (d Direction) Sign() string {
	switch d {
	case DirectionCharging:
		return "+"
	case DirectionDischarging:
		return "-"
	default:
		return ""
	}
}

// String returns human-readable direction.
func (d Direction) String() string {
	switch d {
	case DirectionCharging:
		return "charging"
	case DirectionDischarging:
		return "discharging"
	default:
		return "none"
	}
}

// Temperature units.
const (
	Fahrenheit = "F"
	Celsius    = "C"
)

// Sample is one reading of one mode.
type Sample struct {
	Mode      Mode      `json:"mode"`
	Source    string    `json:"source"`
	Value     float64   `json:"value"`
	Direction Direction `json:"direction,omitempty"`
	// Remaining is the upower time estimate ("3.2 hours"); only set by the
	// upower battery source, which also switches to the long battery layout.
	Remaining string    `json:"remaining,omitempty"`
	Detailed  bool      `json:"-"`
	Unit      string    `json:"unit,omitempty"`
	TakenAt   time.Time `json:"taken_at"`
}

// String renders the status-bar line for the sample's mode.
func (s Sample) String() string {
	switch s.Mode {
	case ModeBattery:
		if s.Detailed {
			line := fmt.Sprintf("%s %.0f%%", s.Direction.Sign(), s.Value)
			if s.Remaining != "" {
				line += " (" + s.Remaining + ")"
			}
			return line
		}
		return fmt.Sprintf("%3.0f%s", s.Value, s.Direction.Sign())
	case ModeCPU:
		return fmt.Sprintf("%5.1f", s.Value)
	case ModeMemory:
		return fmt.Sprintf("%5.0f", s.Value)
	case ModeTemperature:
		v := math.RoundToEven(s.Value)
		if v == 0 {
			v = 0 // drop the sign of -0
		}
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%v", s.Value)
	}
}

// Percent returns 100 × part / whole, or an unavailable error naming key
// when whole is zero.
func Percent(part, whole float64, key string) (float64, error) {
	if whole == 0 {
		return 0, Unavailable(key, "zero denominator")
	}
	return 100 * part / whole, nil
}

// CelsiusToFahrenheit converts a temperature.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// Package domain holds the pure types shared by every reader: modes, samples,
// the Provider boundary and the sentinel errors.
package domain

import "fmt"

// Mode is the metric category selected on the command line.
type Mode string

const (
	ModeBattery     Mode = "bat"
	ModeCPU         Mode = "cpu"
	ModeMemory      Mode = "mem"
	ModeTemperature Mode = "tmp"
)

// Modes lists every supported mode in display order.
func Modes() []Mode {
	return []Mode{ModeBattery, ModeCPU, ModeMemory, ModeTemperature}
}

// ParseMode validates a command-line mode argument.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes() {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownMode, s)
}

// String returns the command-line spelling.
func (m Mode) String() string { return string(m) }

// Description returns a human-readable name for help output.
func (m Mode) Description() string {
	switch m {
	case ModeBattery:
		return "battery charge"
	case ModeCPU:
		return "CPU utilization"
	case ModeMemory:
		return "memory utilization"
	case ModeTemperature:
		return "outdoor temperature"
	default:
		return "unknown"
	}
}

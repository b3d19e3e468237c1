package battery

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tutu-network/statbar/internal/domain"
)

// DefaultUpowerDevice is the object path of the first battery.
const DefaultUpowerDevice = "/org/freedesktop/UPower/devices/battery_BAT0"

var (
	upowerStateRe   = regexp.MustCompile(`(?m)^\s*state:\s+(\S+)`)
	upowerTimeRe    = regexp.MustCompile(`(?m)^\s*time to (?:empty|full):\s+(.+?)\s*$`)
	upowerPercentRe = regexp.MustCompile(`(?m)^\s*percentage:\s+([0-9.,]+)%`)
)

// UpowerInfo is the subset of `upower -i` output the status bar shows.
type UpowerInfo struct {
	State      string
	Percentage float64
	Remaining  string // empty when upower gives no estimate
}

// Charging reports whether the state means the battery is on external power.
func (u UpowerInfo) Charging() bool {
	switch u.State {
	case "charging", "fully-charged", "pending-charge":
		return true
	default:
		return false
	}
}

// ParseUpower extracts state, remaining time and percentage from the text
// printed by `upower -i <device>`.
func ParseUpower(text string) (UpowerInfo, error) {
	var info UpowerInfo

	m := upowerPercentRe.FindStringSubmatch(text)
	if m == nil {
		return info, domain.Unavailable("percentage", "not in upower output")
	}
	raw := strings.ReplaceAll(m[1], ",", ".")
	pct, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return info, &domain.ParseError{Field: "percentage", Input: m[1], Err: err}
	}
	info.Percentage = pct

	if m := upowerStateRe.FindStringSubmatch(text); m != nil {
		info.State = m[1]
	} else {
		info.State = "unknown"
	}
	if m := upowerTimeRe.FindStringSubmatch(text); m != nil {
		info.Remaining = m[1]
	}
	return info, nil
}

// Upower reads a battery through the upower utility.
type Upower struct {
	runner domain.CommandRunner
	device string
}

// NewUpower creates an upower battery reader for device.
func NewUpower(runner domain.CommandRunner, device string) *Upower {
	if device == "" {
		device = DefaultUpowerDevice
	}
	return &Upower{runner: runner, device: device}
}

// Mode returns domain.ModeBattery.
func (u *Upower) Mode() domain.Mode { return domain.ModeBattery }

// Source returns the source name used in config and metrics.
func (u *Upower) Source() string { return SourceUpower }

// Read runs upower and renders "sign percentage% (time)".
func (u *Upower) Read(ctx context.Context) (domain.Sample, error) {
	out, err := u.runner.Output(ctx, "upower", "-i", u.device)
	if err != nil {
		return domain.Sample{}, fmt.Errorf("upower: %w", err)
	}
	info, err := ParseUpower(string(out))
	if err != nil {
		return domain.Sample{}, err
	}

	dir := domain.DirectionDischarging
	if info.Charging() {
		dir = domain.DirectionCharging
	}
	return domain.Sample{
		Mode:      domain.ModeBattery,
		Source:    SourceUpower,
		Value:     info.Percentage,
		Direction: dir,
		Remaining: info.Remaining,
		Detailed:  true,
		TakenAt:   time.Now(),
	}, nil
}

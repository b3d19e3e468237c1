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

// SourcePmset names the macOS battery source.
const SourcePmset = "pmset"

var (
	pmsetDrawingRe = regexp.MustCompile(`Now drawing from '([^']+)'`)
	pmsetBatteryRe = regexp.MustCompile(`(\d+)%;\s*([^;\n]+)`)
	pmsetTimeRe    = regexp.MustCompile(`(\d+:\d+) remaining`)
)

// PmsetInfo is the battery line of `pmset -g batt`.
type PmsetInfo struct {
	Drawing    string // "AC Power" or "Battery Power"
	Percentage float64
	State      string // charging, discharging, charged, "finishing charge", "AC attached"
	Remaining  string // h:mm, empty when pmset has no estimate
}

// Charging reports whether the machine is on external power.
func (p PmsetInfo) Charging() bool {
	if p.Drawing == "AC Power" {
		return true
	}
	switch p.State {
	case "charging", "charged", "finishing charge", "AC attached":
		return true
	}
	return false
}

// ParsePmset extracts the first battery from `pmset -g batt` output:
//
//	Now drawing from 'Battery Power'
//	 -InternalBattery-0 (id=4653155)	87%; discharging; 3:12 remaining present: true
func ParsePmset(text string) (PmsetInfo, error) {
	var info PmsetInfo
	if m := pmsetDrawingRe.FindStringSubmatch(text); m != nil {
		info.Drawing = m[1]
	}

	m := pmsetBatteryRe.FindStringSubmatch(text)
	if m == nil {
		return info, domain.Unavailable("InternalBattery", "no battery in pmset output")
	}
	pct, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return info, &domain.ParseError{Field: "pmset percentage", Input: m[1], Err: err}
	}
	info.Percentage = pct
	info.State = strings.TrimSpace(m[2])
	if t := pmsetTimeRe.FindStringSubmatch(text); t != nil {
		info.Remaining = t[1]
	}
	return info, nil
}

// Pmset reads the battery through macOS pmset.
type Pmset struct {
	runner domain.CommandRunner
}

// NewPmset creates a pmset battery reader.
func NewPmset(runner domain.CommandRunner) *Pmset {
	return &Pmset{runner: runner}
}

// Mode returns domain.ModeBattery.
func (p *Pmset) Mode() domain.Mode { return domain.ModeBattery }

// Source returns the source name used in config and metrics.
func (p *Pmset) Source() string { return SourcePmset }

// Read renders the same compact layout as the sysfs source.
func (p *Pmset) Read(ctx context.Context) (domain.Sample, error) {
	out, err := p.runner.Output(ctx, "pmset", "-g", "batt")
	if err != nil {
		return domain.Sample{}, fmt.Errorf("pmset: %w", err)
	}
	info, err := ParsePmset(string(out))
	if err != nil {
		return domain.Sample{}, err
	}

	dir := domain.DirectionDischarging
	if info.Charging() {
		dir = domain.DirectionCharging
	}
	return domain.Sample{
		Mode:      domain.ModeBattery,
		Source:    SourcePmset,
		Value:     info.Percentage,
		Direction: dir,
		Remaining: info.Remaining,
		TakenAt:   time.Now(),
	}, nil
}

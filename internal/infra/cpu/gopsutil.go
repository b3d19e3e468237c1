package cpu

import (
	"context"
	"fmt"
	"time"

	gocpu "github.com/shirou/gopsutil/v4/cpu"

	"github.com/tutu-network/statbar/internal/domain"
)

// userHZ converts gopsutil's seconds back to kernel ticks.
const userHZ = 100

type timesFunc func(ctx context.Context, percpu bool) ([]gocpu.TimesStat, error)

// Gopsutil reads aggregate CPU times through gopsutil and reports
// utilization between successive reads, like Proc.
type Gopsutil struct {
	times timesFunc
	acc   Accumulator
}

// NewGopsutil creates a gopsutil-backed CPU reader.
func NewGopsutil() *Gopsutil {
	return &Gopsutil{times: gocpu.TimesWithContext}
}

// Mode returns domain.ModeCPU.
func (g *Gopsutil) Mode() domain.Mode { return domain.ModeCPU }

// Source returns the source name used in config and metrics.
func (g *Gopsutil) Source() string { return SourceGopsutil }

// Read returns utilization since the previous Read from gopsutil's
// aggregate times.
func (g *Gopsutil) Read(ctx context.Context) (domain.Sample, error) {
	stats, err := g.times(ctx, false)
	if err != nil {
		return domain.Sample{}, fmt.Errorf("gopsutil cpu times: %w", err)
	}
	if len(stats) == 0 {
		return domain.Sample{}, domain.Unavailable("cpu", "gopsutil returned no cpu times")
	}
	return domain.Sample{
		Mode:    domain.ModeCPU,
		Source:  SourceGopsutil,
		Value:   g.acc.Sample(ticksFromTimes(stats[0])),
		TakenAt: time.Now(),
	}, nil
}

func ticksFromTimes(t gocpu.TimesStat) Ticks {
	return Ticks{
		User:   uint64(t.User * userHZ),
		Nice:   uint64(t.Nice * userHZ),
		System: uint64(t.System * userHZ),
		Idle:   uint64(t.Idle * userHZ),
	}
}

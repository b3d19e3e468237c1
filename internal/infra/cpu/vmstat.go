package cpu

import (
	"context"
	"time"

	"github.com/tutu-network/statbar/internal/domain"
	"github.com/tutu-network/statbar/internal/infra/snapshot"
)

// vmstat -s labels for the tick counters.
const (
	KeyUserTicks   = "non-nice user cpu ticks"
	KeyNiceTicks   = "nice user cpu ticks"
	KeySystemTicks = "system cpu ticks"
	KeyIdleTicks   = "idle cpu ticks"
)

// TicksFromSnapshot extracts the four counters from a vmstat snapshot.
func TicksFromSnapshot(s snapshot.Snapshot) (Ticks, error) {
	v, err := s.GetAll(KeyUserTicks, KeyNiceTicks, KeySystemTicks, KeyIdleTicks)
	if err != nil {
		return Ticks{}, err
	}
	return Ticks{User: v[0], Nice: v[1], System: v[2], Idle: v[3]}, nil
}

// Vmstat reports utilization over the cumulative counters since boot.
type Vmstat struct {
	source *snapshot.Source
}

// NewVmstat creates a vmstat-backed CPU reader.
func NewVmstat(runner domain.CommandRunner) *Vmstat {
	return &Vmstat{source: snapshot.NewSource(runner)}
}

// Mode returns domain.ModeCPU.
func (v *Vmstat) Mode() domain.Mode { return domain.ModeCPU }

// Source returns the source name used in config and metrics.
func (v *Vmstat) Source() string { return SourceVmstat }

// Read takes a vmstat snapshot and returns utilization since boot.
func (v *Vmstat) Read(ctx context.Context) (domain.Sample, error) {
	snap, err := v.source.Take(ctx)
	if err != nil {
		return domain.Sample{}, err
	}
	ticks, err := TicksFromSnapshot(snap)
	if err != nil {
		return domain.Sample{}, err
	}
	return domain.Sample{
		Mode:    domain.ModeCPU,
		Source:  SourceVmstat,
		Value:   ticks.Utilization(),
		TakenAt: time.Now(),
	}, nil
}

// Package memory computes memory utilization from `free`, `vmstat -s` or
// gopsutil.
package memory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/mem"

	"github.com/tutu-network/statbar/internal/domain"
	"github.com/tutu-network/statbar/internal/infra/snapshot"
)

// Data source names.
const (
	SourceFree     = "free"
	SourceVmstat   = "vmstat"
	SourceGopsutil = "gopsutil"
)

// vmstat -s labels.
const (
	KeyTotal = "total memory"
	KeyUsed  = "used memory"
)

// Usage is total and used memory in a common unit.
type Usage struct {
	Total uint64
	Used  uint64
}

// Percent returns 100 × used / total.
func (u Usage) Percent() (float64, error) {
	return domain.Percent(float64(u.Used), float64(u.Total), "total memory")
}

func sample(source string, u Usage) (domain.Sample, error) {
	pct, err := u.Percent()
	if err != nil {
		return domain.Sample{}, err
	}
	return domain.Sample{
		Mode:    domain.ModeMemory,
		Source:  source,
		Value:   pct,
		TakenAt: time.Now(),
	}, nil
}

// ─── free ───────────────────────────────────────────────────────────────────

// ParseFree reads the total and used columns of the "Mem:" row. Columns are
// located by the header tokens, so both the procps 3.3 layout (with
// buff/cache) and older layouts (with buffers, cached) work.
func ParseFree(text string) (Usage, error) {
	var header []string
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if header == nil && fields[0] == "total" {
			header = fields
			continue
		}
		if fields[0] != "Mem:" {
			continue
		}
		if header == nil {
			return Usage{}, domain.Unavailable("total", "no header line before Mem: row")
		}
		total, err := column(header, fields, "total")
		if err != nil {
			return Usage{}, err
		}
		used, err := column(header, fields, "used")
		if err != nil {
			return Usage{}, err
		}
		return Usage{Total: total, Used: used}, nil
	}
	return Usage{}, domain.Unavailable("Mem:", "no Mem: row in free output")
}

// column finds name in the header and reads the same column of row. The row
// carries a leading "Mem:" label the header lacks.
func column(header, row []string, name string) (uint64, error) {
	for i, h := range header {
		if h != name {
			continue
		}
		if i+1 >= len(row) {
			return 0, domain.Unavailable(name, "Mem: row too short")
		}
		v, err := strconv.ParseUint(row[i+1], 10, 64)
		if err != nil {
			return 0, &domain.ParseError{Field: "Mem: " + name, Input: row[i+1], Err: err}
		}
		return v, nil
	}
	return 0, domain.Unavailable(name, "column not in free header")
}

// Free reads `free` output.
type Free struct {
	runner domain.CommandRunner
}

// NewFree creates a free-backed memory reader.
func NewFree(runner domain.CommandRunner) *Free { return &Free{runner: runner} }

// Mode returns domain.ModeMemory.
func (f *Free) Mode() domain.Mode { return domain.ModeMemory }

// Source returns the source name used in config and metrics.
func (f *Free) Source() string { return SourceFree }

// Read runs free and returns used memory as a percentage of total.
func (f *Free) Read(ctx context.Context) (domain.Sample, error) {
	out, err := f.runner.Output(ctx, "free")
	if err != nil {
		return domain.Sample{}, fmt.Errorf("free: %w", err)
	}
	u, err := ParseFree(string(out))
	if err != nil {
		return domain.Sample{}, err
	}
	return sample(SourceFree, u)
}

// ─── vmstat ─────────────────────────────────────────────────────────────────

// UsageFromSnapshot reads total and used memory from a vmstat snapshot.
func UsageFromSnapshot(s snapshot.Snapshot) (Usage, error) {
	v, err := s.GetAll(KeyTotal, KeyUsed)
	if err != nil {
		return Usage{}, err
	}
	return Usage{Total: v[0], Used: v[1]}, nil
}

// Vmstat reads `vmstat -s` output.
type Vmstat struct {
	source *snapshot.Source
}

// NewVmstat creates a vmstat-backed memory reader.
func NewVmstat(runner domain.CommandRunner) *Vmstat {
	return &Vmstat{source: snapshot.NewSource(runner)}
}

// Mode returns domain.ModeMemory.
func (v *Vmstat) Mode() domain.Mode { return domain.ModeMemory }

// Source returns the source name used in config and metrics.
func (v *Vmstat) Source() string { return SourceVmstat }

// Read takes a vmstat snapshot and returns used memory as a percentage.
func (v *Vmstat) Read(ctx context.Context) (domain.Sample, error) {
	snap, err := v.source.Take(ctx)
	if err != nil {
		return domain.Sample{}, err
	}
	u, err := UsageFromSnapshot(snap)
	if err != nil {
		return domain.Sample{}, err
	}
	return sample(SourceVmstat, u)
}

// ─── gopsutil ───────────────────────────────────────────────────────────────

type virtualMemoryFunc func(ctx context.Context) (*mem.VirtualMemoryStat, error)

// Gopsutil reads memory through gopsutil.
type Gopsutil struct {
	virtual virtualMemoryFunc
}

// NewGopsutil creates a gopsutil-backed memory reader.
func NewGopsutil() *Gopsutil {
	return &Gopsutil{virtual: mem.VirtualMemoryWithContext}
}

// Mode returns domain.ModeMemory.
func (g *Gopsutil) Mode() domain.Mode { return domain.ModeMemory }

// Source returns the source name used in config and metrics.
func (g *Gopsutil) Source() string { return SourceGopsutil }

// Read returns gopsutil's virtual memory usage.
func (g *Gopsutil) Read(ctx context.Context) (domain.Sample, error) {
	vm, err := g.virtual(ctx)
	if err != nil {
		return domain.Sample{}, fmt.Errorf("gopsutil virtual memory: %w", err)
	}
	return sample(SourceGopsutil, Usage{Total: vm.Total, Used: vm.Used})
}

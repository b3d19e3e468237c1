package cpu

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tutu-network/statbar/internal/domain"
)

// DefaultProcStat is the kernel statistics file.
const DefaultProcStat = "/proc/stat"

// ParseProcStat reads user, nice, system and idle from the aggregate
// "cpu " line of /proc/stat.
func ParseProcStat(text string) (Ticks, error) {
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || fields[0] != "cpu" {
			continue
		}
		if len(fields) < 5 {
			return Ticks{}, &domain.ParseError{Field: "cpu line", Input: line}
		}

		var vals [4]uint64
		names := [4]string{"user", "nice", "system", "idle"}
		for i := range vals {
			v, err := strconv.ParseUint(fields[i+1], 10, 64)
			if err != nil {
				return Ticks{}, &domain.ParseError{Field: "cpu " + names[i], Input: fields[i+1], Err: err}
			}
			vals[i] = v
		}
		return Ticks{User: vals[0], Nice: vals[1], System: vals[2], Idle: vals[3]}, nil
	}
	return Ticks{}, domain.Unavailable("cpu", "no aggregate cpu line in /proc/stat")
}

// Proc reports utilization between successive reads of /proc/stat.
// Each Proc owns its accumulator; do not share one between loops.
type Proc struct {
	path string
	acc  Accumulator
}

// NewProc creates a /proc/stat reader.
func NewProc(path string) *Proc {
	if path == "" {
		path = DefaultProcStat
	}
	return &Proc{path: path}
}

// Mode returns domain.ModeCPU.
func (p *Proc) Mode() domain.Mode { return domain.ModeCPU }

// Source returns the source name used in config and metrics.
func (p *Proc) Source() string { return SourceProc }

// Read parses the aggregate cpu line and returns utilization since the
// previous Read.
func (p *Proc) Read(ctx context.Context) (domain.Sample, error) {
	if err := ctx.Err(); err != nil {
		return domain.Sample{}, err
	}
	raw, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Sample{}, domain.Unavailable(p.path, "file not found")
		}
		return domain.Sample{}, fmt.Errorf("read %s: %w", p.path, err)
	}
	ticks, err := ParseProcStat(string(raw))
	if err != nil {
		return domain.Sample{}, err
	}
	return domain.Sample{
		Mode:    domain.ModeCPU,
		Source:  SourceProc,
		Value:   p.acc.Sample(ticks),
		TakenAt: time.Now(),
	}, nil
}

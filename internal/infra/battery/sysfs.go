// Package battery reads battery charge from the power-supply sysfs tree or
// from `upower -i`.
package battery

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/tutu-network/statbar/internal/domain"
)

// DefaultSysfsRoot is where the kernel exposes power supplies.
const DefaultSysfsRoot = "/sys/class/power_supply"

// SourceSysfs and SourceUpower name the battery data sources.
const (
	SourceSysfs  = "sysfs"
	SourceUpower = "upower"
)

// Sysfs reads BAT*/charge_* (or energy_*) and the AC adapter's online flag.
type Sysfs struct {
	fsys    fs.FS
	battery string
	adapter string
}

// NewSysfs reads from the real sysfs tree rooted at root.
func NewSysfs(root, battery, adapter string) *Sysfs {
	if root == "" {
		root = DefaultSysfsRoot
	}
	return NewSysfsFS(os.DirFS(root), battery, adapter)
}

// NewSysfsFS reads from an arbitrary filesystem; tests pass fstest.MapFS.
func NewSysfsFS(fsys fs.FS, battery, adapter string) *Sysfs {
	if battery == "" {
		battery = "BAT0"
	}
	if adapter == "" {
		adapter = "AC"
	}
	return &Sysfs{fsys: fsys, battery: battery, adapter: adapter}
}

// Mode returns domain.ModeBattery.
func (s *Sysfs) Mode() domain.Mode { return domain.ModeBattery }

// Source returns the source name used in config and metrics.
func (s *Sysfs) Source() string { return SourceSysfs }

// Read computes 100 × now / full and the charging direction.
func (s *Sysfs) Read(ctx context.Context) (domain.Sample, error) {
	if err := ctx.Err(); err != nil {
		return domain.Sample{}, err
	}

	now, full, err := s.levels()
	if err != nil {
		return domain.Sample{}, err
	}
	pct, err := domain.Percent(now, full, path.Join(s.battery, "*_full"))
	if err != nil {
		return domain.Sample{}, err
	}
	dir, err := s.direction()
	if err != nil {
		return domain.Sample{}, err
	}

	return domain.Sample{
		Mode:      domain.ModeBattery,
		Source:    SourceSysfs,
		Value:     pct,
		Direction: dir,
		TakenAt:   time.Now(),
	}, nil
}

// levels returns the current and full charge, preferring the charge_*
// (µAh) pair and falling back to energy_* (µWh) on batteries that only
// report energy.
func (s *Sysfs) levels() (now, full float64, err error) {
	for _, kind := range []string{"charge", "energy"} {
		now, err = s.readNumber(kind + "_now")
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return 0, 0, err
		}
		full, err = s.readNumber(kind + "_full")
		if err != nil {
			return 0, 0, unavailableIfMissing(path.Join(s.battery, kind+"_full"), err)
		}
		return now, full, nil
	}
	return 0, 0, domain.Unavailable(path.Join(s.battery, "charge_now"), "no charge_now or energy_now")
}

// direction reads the adapter's online flag, falling back to the battery's
// own status file when the adapter has a different name on this machine.
func (s *Sysfs) direction() (domain.Direction, error) {
	raw, err := fs.ReadFile(s.fsys, path.Join(s.adapter, "online"))
	if err == nil {
		v := strings.TrimSpace(string(raw))
		switch v {
		case "1":
			return domain.DirectionCharging, nil
		case "0":
			return domain.DirectionDischarging, nil
		default:
			return domain.DirectionNone, &domain.ParseError{Field: path.Join(s.adapter, "online"), Input: v}
		}
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return domain.DirectionNone, err
	}

	raw, err = fs.ReadFile(s.fsys, path.Join(s.battery, "status"))
	if err != nil {
		return domain.DirectionNone, unavailableIfMissing(path.Join(s.adapter, "online"), err)
	}
	switch strings.TrimSpace(string(raw)) {
	case "Charging", "Full", "Not charging":
		return domain.DirectionCharging, nil
	default:
		return domain.DirectionDischarging, nil
	}
}

func (s *Sysfs) readNumber(name string) (float64, error) {
	p := path.Join(s.battery, name)
	raw, err := fs.ReadFile(s.fsys, p)
	if err != nil {
		return 0, err
	}
	text := strings.TrimSpace(string(raw))
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, &domain.ParseError{Field: p, Input: text, Err: err}
	}
	return v, nil
}

func unavailableIfMissing(key string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Unavailable(key, "file not found")
	}
	return err
}

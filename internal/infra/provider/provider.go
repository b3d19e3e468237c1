// Package provider builds the reader for a mode from configuration.
package provider

import (
	"fmt"

	"github.com/tutu-network/statbar/internal/config"
	"github.com/tutu-network/statbar/internal/domain"
	"github.com/tutu-network/statbar/internal/infra/battery"
	"github.com/tutu-network/statbar/internal/infra/cpu"
	"github.com/tutu-network/statbar/internal/infra/memory"
	"github.com/tutu-network/statbar/internal/infra/weather"
)

// Sources lists the data sources available for a mode; the first is the
// default.
func Sources(mode domain.Mode) []string {
	switch mode {
	case domain.ModeBattery:
		return withDefaultFirst(battery.DefaultSource,
			battery.SourceSysfs, battery.SourceUpower, battery.SourcePmset)
	case domain.ModeCPU:
		return []string{cpu.SourceProc, cpu.SourceVmstat, cpu.SourceGopsutil}
	case domain.ModeMemory:
		return []string{memory.SourceFree, memory.SourceVmstat, memory.SourceGopsutil}
	case domain.ModeTemperature:
		return []string{weather.SourceNWS, weather.SourceMETAR, weather.SourceLine}
	}
	return nil
}

func withDefaultFirst(def string, all ...string) []string {
	out := []string{def}
	for _, s := range all {
		if s != def {
			out = append(out, s)
		}
	}
	return out
}

// SourceFor returns the configured source name for mode.
func SourceFor(mode domain.Mode, cfg config.Config) string {
	var src string
	switch mode {
	case domain.ModeBattery:
		src = cfg.Battery.Source
	case domain.ModeCPU:
		src = cfg.CPU.Source
	case domain.ModeMemory:
		src = cfg.Memory.Source
	case domain.ModeTemperature:
		src = cfg.Weather.Source
	}
	if src == "" {
		if all := Sources(mode); len(all) > 0 {
			src = all[0]
		}
	}
	return src
}

// New creates the provider for mode using the source selected in cfg.
// Subprocess-backed sources run through runner.
func New(mode domain.Mode, cfg config.Config, runner domain.CommandRunner) (domain.Provider, error) {
	src := SourceFor(mode, cfg)
	switch mode {
	case domain.ModeBattery:
		switch src {
		case battery.SourceSysfs:
			b := cfg.Battery
			return battery.NewSysfs(b.SysfsRoot, b.Battery, b.Adapter), nil
		case battery.SourceUpower:
			return battery.NewUpower(runner, cfg.Battery.UpowerDevice), nil
		case battery.SourcePmset:
			return battery.NewPmset(runner), nil
		}
	case domain.ModeCPU:
		switch src {
		case cpu.SourceProc:
			return cpu.NewProc(cfg.CPU.ProcStat), nil
		case cpu.SourceVmstat:
			return cpu.NewVmstat(runner), nil
		case cpu.SourceGopsutil:
			return cpu.NewGopsutil(), nil
		}
	case domain.ModeMemory:
		switch src {
		case memory.SourceFree:
			return memory.NewFree(runner), nil
		case memory.SourceVmstat:
			return memory.NewVmstat(runner), nil
		case memory.SourceGopsutil:
			return memory.NewGopsutil(), nil
		}
	case domain.ModeTemperature:
		return newWeather(cfg.Weather)
	default:
		return nil, fmt.Errorf("%w %q", domain.ErrUnknownMode, string(mode))
	}
	return nil, fmt.Errorf("%w %q for mode %s", domain.ErrUnknownSource, src, mode)
}

func newWeather(w config.WeatherConfig) (domain.Provider, error) {
	timeout, err := w.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	f, err := weather.NewFetcher(weather.Config{
		Source:    w.Source,
		Station:   w.Station,
		URL:       w.URL,
		Units:     w.Units,
		LineUnit:  w.LineUnit,
		Timeout:   timeout,
		UserAgent: w.UserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("weather: %w", err)
	}
	return f, nil
}

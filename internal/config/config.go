// Package config loads statbar configuration.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/tutu-network/statbar/internal/domain"
	"github.com/tutu-network/statbar/internal/infra/battery"
	"github.com/tutu-network/statbar/internal/infra/cpu"
)

// Config holds all statbar configuration.
type Config struct {
	Battery BatteryConfig `toml:"battery" yaml:"battery"`
	CPU     CPUConfig     `toml:"cpu" yaml:"cpu"`
	Memory  MemoryConfig  `toml:"memory" yaml:"memory"`
	Weather WeatherConfig `toml:"weather" yaml:"weather"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Export  ExportConfig  `toml:"export" yaml:"export"`
}

// BatteryConfig controls the bat mode.
type BatteryConfig struct {
	Source       string `toml:"source" yaml:"source"`
	SysfsRoot    string `toml:"sysfs_root" yaml:"sysfs_root"`
	Battery      string `toml:"battery" yaml:"battery"`
	Adapter      string `toml:"adapter" yaml:"adapter"`
	UpowerDevice string `toml:"upower_device" yaml:"upower_device"`
}

// CPUConfig controls the cpu mode.
type CPUConfig struct {
	Source   string `toml:"source" yaml:"source"`
	ProcStat string `toml:"proc_stat" yaml:"proc_stat"`
}

// MemoryConfig controls the mem mode.
type MemoryConfig struct {
	Source string `toml:"source" yaml:"source"`
}

// WeatherConfig controls the tmp mode.
type WeatherConfig struct {
	Source    string `toml:"source" yaml:"source"`
	Station   string `toml:"station" yaml:"station"`
	URL       string `toml:"url" yaml:"url"`
	Units     string `toml:"units" yaml:"units"`
	LineUnit  string `toml:"line_unit" yaml:"line_unit"`
	Timeout   string `toml:"timeout" yaml:"timeout"`
	UserAgent string `toml:"user_agent" yaml:"user_agent"`
}

// TimeoutDuration parses Timeout; an empty value means the fetcher default.
func (w WeatherConfig) TimeoutDuration() (time.Duration, error) {
	if w.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(w.Timeout)
	if err != nil {
		return 0, fmt.Errorf("weather.timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("weather.timeout must be positive, got %s", w.Timeout)
	}
	return d, nil
}

// LoggingConfig controls diagnostics on stderr.
type LoggingConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// ExportConfig controls the optional Prometheus exporter.
type ExportConfig struct {
	Listen string `toml:"listen" yaml:"listen"`
}

// DefaultConfig returns the built-in defaults: sysfs battery (pmset on
// macOS), /proc/stat CPU, free memory, NWS station UCCC1 in °F.
func DefaultConfig() Config {
	return Config{
		Battery: BatteryConfig{
			Source:       battery.DefaultSource,
			SysfsRoot:    battery.DefaultSysfsRoot,
			Battery:      "BAT0",
			Adapter:      "AC",
			UpowerDevice: battery.DefaultUpowerDevice,
		},
		CPU: CPUConfig{
			Source:   "proc",
			ProcStat: cpu.DefaultProcStat,
		},
		Memory: MemoryConfig{
			Source: "free",
		},
		Weather: WeatherConfig{
			Source:  "nws",
			Station: "UCCC1",
			Units:   domain.Fahrenheit,
			Timeout: "10s",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Validate checks values that the readers cannot default on their own.
func (c Config) Validate() error {
	switch strings.ToUpper(c.Weather.Units) {
	case domain.Fahrenheit, domain.Celsius:
	default:
		return fmt.Errorf("weather.units must be F or C, got %q", c.Weather.Units)
	}
	if c.Weather.LineUnit != "" {
		switch strings.ToUpper(c.Weather.LineUnit) {
		case domain.Fahrenheit, domain.Celsius:
		default:
			return fmt.Errorf("weather.line_unit must be F or C, got %q", c.Weather.LineUnit)
		}
	}
	if _, err := c.Weather.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// Load reads the config file at path over the defaults. An empty path means
// $STATBAR_HOME/config.toml, which may be absent. An explicit path must exist.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) && !explicit {
		return cfg, nil // no config file yet, use defaults
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// Save writes cfg to path, creating parent directories. The extension picks
// the format the same way Load does.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
	default:
		if err := Encode(&buf, cfg); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// DefaultPath returns $STATBAR_HOME/config.toml.
func DefaultPath() string {
	return filepath.Join(Home(), "config.toml")
}

// Home returns the statbar config directory.
func Home() string {
	if env := os.Getenv("STATBAR_HOME"); env != "" {
		return env
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "statbar")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "statbar")
}

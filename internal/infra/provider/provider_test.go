package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutu-network/statbar/internal/config"
	"github.com/tutu-network/statbar/internal/domain"
	"github.com/tutu-network/statbar/internal/infra/battery"
	"github.com/tutu-network/statbar/internal/infra/sysexec"
)

func TestNew_Defaults(t *testing.T) {
	cfg := config.DefaultConfig()
	want := map[domain.Mode]string{
		domain.ModeBattery:     battery.DefaultSource,
		domain.ModeCPU:         "proc",
		domain.ModeMemory:      "free",
		domain.ModeTemperature: "nws",
	}
	for mode, src := range want {
		t.Run(mode.String(), func(t *testing.T) {
			p, err := New(mode, cfg, sysexec.NewCanned(nil))
			require.NoError(t, err)
			assert.Equal(t, mode, p.Mode())
			assert.Equal(t, src, p.Source())
			assert.Equal(t, src, Sources(mode)[0])
		})
	}
}

func TestNew_EverySource(t *testing.T) {
	for _, mode := range domain.Modes() {
		for _, src := range Sources(mode) {
			t.Run(mode.String()+"/"+src, func(t *testing.T) {
				cfg := config.DefaultConfig()
				cfg.Battery.Source = src
				cfg.CPU.Source = src
				cfg.Memory.Source = src
				cfg.Weather.Source = src
				cfg.Weather.URL = "http://127.0.0.1:1/{station}"

				p, err := New(mode, cfg, sysexec.NewCanned(nil))
				require.NoError(t, err)
				assert.Equal(t, src, p.Source())
			})
		}
	}
}

func TestSources_BatteryListsEverySourceOnce(t *testing.T) {
	got := Sources(domain.ModeBattery)
	assert.Equal(t, battery.DefaultSource, got[0])
	assert.ElementsMatch(t, []string{"sysfs", "upower", "pmset"}, got)
}

func TestNew_EmptySourceUsesDefault(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.CPU.Source = ""
	p, err := New(domain.ModeCPU, cfg, sysexec.NewCanned(nil))
	require.NoError(t, err)
	assert.Equal(t, "proc", p.Source())
}

func TestNew_UnknownSource(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Memory.Source = "meminfo"
	_, err := New(domain.ModeMemory, cfg, sysexec.NewCanned(nil))
	assert.ErrorIs(t, err, domain.ErrUnknownSource)

	cfg = config.DefaultConfig()
	cfg.Weather.Source = "radar"
	_, err = New(domain.ModeTemperature, cfg, sysexec.NewCanned(nil))
	assert.ErrorIs(t, err, domain.ErrUnknownSource)
}

func TestNew_UnknownMode(t *testing.T) {
	_, err := New(domain.Mode("gpu"), config.DefaultConfig(), sysexec.NewCanned(nil))
	assert.ErrorIs(t, err, domain.ErrUnknownMode)
	assert.Nil(t, Sources(domain.Mode("gpu")))
}

func TestNew_BadWeatherTimeout(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Weather.Timeout = "later"
	_, err := New(domain.ModeTemperature, cfg, sysexec.NewCanned(nil))
	assert.Error(t, err)
}

func TestNew_MemoryFreeUsesRunner(t *testing.T) {
	runner := sysexec.NewCanned(map[string]string{
		"free": "               total        used        free      shared  buff/cache   available\n" +
			"Mem:            1000         250         500           0         250         700\n" +
			"Swap:              0           0           0\n",
	})
	p, err := New(domain.ModeMemory, config.DefaultConfig(), runner)
	require.NoError(t, err)

	s, err := p.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "   25", s.String())
	assert.Equal(t, []string{"free"}, runner.Calls())
}

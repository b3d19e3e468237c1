package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tutu-network/statbar/internal/api"
	"github.com/tutu-network/statbar/internal/app/loop"
	"github.com/tutu-network/statbar/internal/config"
	"github.com/tutu-network/statbar/internal/domain"
	"github.com/tutu-network/statbar/internal/infra/provider"
	"github.com/tutu-network/statbar/internal/infra/sysexec"
	"github.com/tutu-network/statbar/internal/logging"
)

func runStatus(cmd *cobra.Command, opts *options, version string, args []string) error {
	mode, err := domain.ParseMode(args[0])
	if err != nil {
		return err
	}
	var refreshArg string
	if len(args) > 1 {
		refreshArg = args[1]
	}
	refresh, err := loop.ParseRefresh(refreshArg)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts, mode)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Logging.Level, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	p, err := provider.New(mode, cfg, sysexec.NewRunner())
	if err != nil {
		return err
	}
	log.Debugw("starting",
		"mode", mode.String(),
		"source", p.Source(),
		"refresh", refresh.String(),
	)

	runner := loop.New(p, cmd.OutOrStdout(), refresh,
		loop.WithLogger(log.Named(mode.String())),
	)

	ctx := cmd.Context()
	if cfg.Export.Listen != "" {
		srv := api.NewServer(runner, version, log.Named("api"))
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.Export.Listen); err != nil {
				log.Errorw("exporter stopped", "addr", cfg.Export.Listen, "error", err)
			}
		}()
	}

	return runner.Run(ctx)
}

// loadConfig reads the config file and applies flag overrides. The source
// override applies to mode; an empty mode skips it.
func loadConfig(opts *options, mode domain.Mode) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, err
	}

	if opts.source != "" {
		switch mode {
		case domain.ModeBattery:
			cfg.Battery.Source = opts.source
		case domain.ModeCPU:
			cfg.CPU.Source = opts.source
		case domain.ModeMemory:
			cfg.Memory.Source = opts.source
		case domain.ModeTemperature:
			cfg.Weather.Source = opts.source
		}
	}
	if opts.station != "" {
		cfg.Weather.Station = opts.station
	}
	if opts.units != "" {
		cfg.Weather.Units = strings.ToUpper(opts.units)
	}
	if opts.listen != "" {
		cfg.Export.Listen = opts.listen
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%w: %w", errUsage, err)
	}
	return cfg, nil
}

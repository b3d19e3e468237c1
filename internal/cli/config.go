package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tutu-network/statbar/internal/config"
)

func newConfigCmd(opts *options) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long: `Print the effective configuration as TOML.

With --write the configuration is saved to the --config path, or to
$STATBAR_HOME/config.toml, so flag overrides become the new defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts, "")
			if err != nil {
				return err
			}
			if !write {
				return config.Encode(cmd.OutOrStdout(), cfg)
			}

			path := opts.configPath
			if path == "" {
				path = config.DefaultPath()
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "save the effective configuration instead of printing it")
	return cmd
}

// Package cli implements the statbar command-line interface using Cobra.
// The root command takes a mode and an optional refresh interval and prints
// one status line per iteration.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"regexp"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tutu-network/statbar/internal/domain"
)

// errUsage marks malformed command lines; usage is printed and the exit
// code is 1.
var errUsage = errors.New("invalid arguments")

// options holds flag values for one command tree.
type options struct {
	configPath string
	source     string
	station    string
	units      string
	listen     string
	logLevel   string
}

func newRootCmd(version string) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "statbar <bat|cpu|mem|tmp> [refresh_seconds]",
		Short: "Print one system metric per line for status bars",
		Long: `statbar prints battery charge, CPU utilization, memory utilization or the
outdoor temperature as a short line for GNU screen, tmux or i3bar.

A refresh of -1 prints once and exits. Without a refresh the line is
reprinted every second; 0 reprints without sleeping.`,
		Example: `  statbar bat
  statbar cpu 5
  statbar tmp -1 --station KBOS --units C`,
		Version:       version,
		Args:          validateArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, opts, version, args)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (.toml, .yaml or .yml; default $STATBAR_HOME/config.toml)")
	pf.StringVar(&opts.station, "station", "", "weather station identifier (overrides config)")
	pf.StringVar(&opts.units, "units", "", "temperature units, F or C (overrides config)")
	pf.StringVar(&opts.logLevel, "log-level", "", "diagnostic log level: debug, info, warn, error")
	cmd.Flags().StringVar(&opts.source, "source", "", "data source for the selected mode (see 'statbar modes')")
	cmd.Flags().StringVar(&opts.listen, "listen", "", "serve /metrics, /health and /api/sample on this address")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", errUsage, err)
	})

	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(newModesCmd())
	return cmd
}

func validateArgs(_ *cobra.Command, args []string) error {
	switch {
	case len(args) == 0:
		return fmt.Errorf("%w: missing mode", errUsage)
	case len(args) > 2:
		return fmt.Errorf("%w: expected at most 2 arguments, got %d", errUsage, len(args))
	}
	return nil
}

// Execute runs the root command and exits. Called from main.go.
func Execute(version string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, version, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command line and returns the process exit code.
func run(ctx context.Context, version string, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(version)
	root.SetArgs(normalizeArgs(args))
	root.SetOut(stdout)
	root.SetErr(stderr)

	cmd, err := root.ExecuteContextC(ctx)
	return exitCode(cmd, err, stderr)
}

func exitCode(cmd *cobra.Command, err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrUnknownMode):
		fmt.Fprintln(stderr, err)
		return 2
	case errors.Is(err, errUsage), errors.Is(err, domain.ErrBadRefresh):
		fmt.Fprintln(stderr, "Error:", err)
		if cmd != nil {
			fmt.Fprint(stderr, cmd.UsageString())
		}
		return 1
	default:
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
}

var negativeNumber = regexp.MustCompile(`^-\d+$`)

// normalizeArgs moves a negative refresh such as "-1" behind "--" so the
// flag parser does not read it as a shorthand flag. A token that follows a
// value-taking long flag is left alone.
func normalizeArgs(args []string) []string {
	var head, tail []string
	dash := false
	for i, a := range args {
		if a == "--" {
			tail = append(tail, args[i+1:]...)
			dash = true
			break
		}
		if negativeNumber.MatchString(a) && !takesValue(args, i) {
			tail = append(tail, a)
			continue
		}
		head = append(head, a)
	}
	if len(tail) == 0 && !dash {
		return head
	}
	return append(append(head, "--"), tail...)
}

var valueFlags = map[string]bool{
	"--config": true, "--source": true, "--station": true,
	"--units": true, "--listen": true, "--log-level": true,
}

func takesValue(args []string, i int) bool {
	return i > 0 && valueFlags[args[i-1]]
}

package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tutu-network/statbar/internal/domain"
	"github.com/tutu-network/statbar/internal/infra/provider"
)

func newModesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List modes and their data sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MODE\tDESCRIPTION\tSOURCES")
			for _, m := range domain.Modes() {
				sources := provider.Sources(m)
				if len(sources) > 0 {
					sources[0] += " (default)"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", m, m.Description(), strings.Join(sources, ", "))
			}
			return w.Flush()
		},
	}
}

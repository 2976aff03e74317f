package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize torch storage",
		Long:  "Create the configuration and data directories, then load or seed the catalog.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd.Context(), flags, func(e *env) error {
				stats := e.catalog.Stats()
				fmt.Fprintf(cmd.OutOrStdout(), "Teaching Torch catalog ready (%s backend, %s): %d grades, %d subjects\n",
					e.cfg.Backend, e.cfg.DataDir, stats.TotalGrades, stats.TotalSubjects)
				return nil
			})
		},
	}
}

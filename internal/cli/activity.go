package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/teachingtorch/torch/pkg/types"
)

func newActivityCmd(flags *rootFlags) *cobra.Command {
	activity := &cobra.Command{
		Use:   "activity",
		Short: "Show or append to the activity log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd.Context(), flags, func(e *env) error {
				acts := e.catalog.Activities()
				if flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), acts)
				}
				rows := make([][]string, 0, len(acts))
				for _, a := range acts {
					rows = append(rows, []string{a.Timestamp.Local().Format("2006-01-02 15:04:05"), a.Message})
				}
				return table(cmd.OutOrStdout(), []string{"TIME", "MESSAGE"}, rows)
			})
		},
	}
	activity.AddCommand(&cobra.Command{
		Use:   "log <message>",
		Short: "Append a message to the activity log",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd.Context(), flags, func(e *env) error {
				return e.catalog.Dispatch(types.LogActivity{Message: strings.Join(args, " ")})
			})
		},
	})
	return activity
}

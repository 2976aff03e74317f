package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teachingtorch/torch/internal/catalog"
)

const modulePath = "github.com/teachingtorch/torch"

// Version is the torch release, set at build time with
// -ldflags "-X github.com/teachingtorch/torch/internal/cli.Version=...".
var Version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the torch version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "torch %s\nschema: %s\nmodule: %s\n", Version, catalog.SchemaVersion, modulePath)
			return nil
		},
	}
}

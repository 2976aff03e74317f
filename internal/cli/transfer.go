package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teachingtorch/torch/internal/paths"
)

func newExportCmd(flags *rootFlags) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog snapshot to teaching-torch-data-<date>.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd.Context(), flags, func(e *env) error {
				name, data, err := e.catalog.Export()
				if err != nil {
					return err
				}
				path, err := paths.ExportFile(dir, name)
				if err != nil {
					return err
				}
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "directory to write the export into")
	return cmd
}

func newImportCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the whole catalog with an exported snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}
			return withAdmin(cmd.Context(), flags, func(e *env) error {
				if err := e.catalog.Import(raw); err != nil {
					return err
				}
				stats := e.catalog.Stats()
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d grades, %d subjects, %d resources, %d videos\n",
					stats.TotalGrades, stats.TotalSubjects, stats.TotalResources, stats.TotalVideos)
				return nil
			})
		},
	}
}

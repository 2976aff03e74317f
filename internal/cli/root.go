// Package cli implements the torch command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teachingtorch/torch/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool
}

// NewRootCmd creates the top-level "torch" command with global flags and all
// subcommands registered. Each call returns an independent command tree.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "torch",
		Short: "Manage the Teaching Torch resource catalog",
		Long: "Torch manages the Teaching Torch catalog of grades, subjects, textbooks,\n" +
			"past papers, notes and videos, stored in a pluggable key-value backend.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir, or $TORCH_CONFIG_DIR)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.torch-db)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log diagnostics to stderr")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(flags))
	root.AddCommand(newStatsCmd(flags))
	root.AddCommand(newGradesCmd(flags))
	root.AddCommand(newSubjectCmd(flags))
	root.AddCommand(newAddCmd(flags))
	root.AddCommand(newActivityCmd(flags))
	root.AddCommand(newExportCmd(flags))
	root.AddCommand(newImportCmd(flags))
	root.AddCommand(newResourceCmd(flags))
	root.AddCommand(newLoginCmd(flags))
	root.AddCommand(newLogoutCmd(flags))
	root.AddCommand(newLanguageCmd(flags))
	root.AddCommand(newLinkCmd(flags))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "torch:", err)
	}
	os.Exit(exitCode(err))
}

// userErrors are failures caused by the invocation rather than the system.
var userErrors = []error{
	types.ErrInvalidID,
	types.ErrInvalidName,
	types.ErrInvalidLanguage,
	types.ErrInvalidPaperType,
	types.ErrInvalidCategory,
	types.ErrInvalidMessage,
	types.ErrNoGrades,
	types.ErrSubjectExists,
	types.ErrSubjectNotFound,
	types.ErrGradeNotFound,
	types.ErrInvalidFormat,
	types.ErrInvalidLink,
	types.ErrInvalidResourceType,
	types.ErrResourceNotFound,
	types.ErrNotLoggedIn,
	types.ErrWrongPassword,
	types.ErrBackendEmpty,
	types.ErrBackendUnknown,
	types.ErrBucketEmpty,
	types.ErrResetInterval,
	errUsage,
}

// errUsage marks malformed command-line input.
var errUsage = errors.New("usage")

// exitCode maps err onto the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}

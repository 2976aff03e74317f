package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "login <password>",
		Short: "Start an admin session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd.Context(), flags, func(e *env) error {
				if err := e.session.Login(args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged in")
				return nil
			})
		},
	}
}

func newLogoutCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the admin session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd.Context(), flags, func(e *env) error {
				return e.session.Logout()
			})
		},
	}
}

func newLanguageCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "language [all|sinhala|tamil|english]",
		Short: "Show or set the language grade pages are filtered to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd.Context(), flags, func(e *env) error {
				if len(args) == 1 {
					if err := e.session.SetLanguage(args[0]); err != nil {
						return err
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), e.session.Language())
				return nil
			})
		},
	}
}

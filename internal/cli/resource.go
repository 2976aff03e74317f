package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teachingtorch/torch/internal/uploads"
	"github.com/teachingtorch/torch/pkg/types"
)

func newResourceCmd(flags *rootFlags) *cobra.Command {
	resource := &cobra.Command{
		Use:   "resource",
		Short: "Manage link submissions in the admin resource manager",
	}
	resource.AddCommand(newResourceAddCmd(flags))
	resource.AddCommand(newResourceListCmd(flags, "list", "List every submission, oldest first", (*uploads.Manager).List))
	resource.AddCommand(newResourceListCmd(flags, "recent", "List the most recent submissions", (*uploads.Manager).Recent))
	resource.AddCommand(newResourceGroupsCmd(flags))
	resource.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a submission from the lists; catalog entries are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd.Context(), flags, func(e *env) error {
				return e.uploads.Delete(args[0])
			})
		},
	})
	resource.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Empty the submission lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd.Context(), flags, func(e *env) error {
				return e.uploads.Clear()
			})
		},
	})
	return resource
}

func newResourceAddCmd(flags *rootFlags) *cobra.Command {
	var form uploads.Form
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Submit a link and publish it to the catalog in every selected language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd.Context(), flags, func(e *env) error {
				rec, err := e.uploads.Add(form)
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), rec)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s %q (%s)\n", rec.ResourceType, rec.Title, rec.ID)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&form.Link, "link", "", "share link")
	f.StringVar(&form.Title, "title", "", "title")
	f.StringVar(&form.Description, "description", "", "description")
	f.StringVar(&form.Grade, "grade", "", "grade id")
	f.StringVar(&form.Subject, "subject", "", "subject id")
	f.StringVar(&form.ResourceType, "type", "", "resource type: textbook, notes, papers or videos")
	f.StringSliceVar(&form.Languages, "lang", nil, "languages: sinhala, tamil, english")
	f.StringVar(&form.PaperType, "paper-type", "", "papers only: term or chapter")
	f.StringVar(&form.PaperCategory, "category", "", "papers: term or chapter name; notes: category")
	f.StringVar(&form.School, "school", "", "papers only: school name")
	return cmd
}

func newResourceListCmd(flags *rootFlags, use, short string, list func(*uploads.Manager) ([]types.ResourceRecord, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd.Context(), flags, func(e *env) error {
				recs, err := list(e.uploads)
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), recs)
				}
				return table(cmd.OutOrStdout(), []string{"ID", "TYPE", "GRADE", "SUBJECT", "LANGUAGES", "TITLE"}, recordRows(recs))
			})
		},
	}
}

func newResourceGroupsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List submissions grouped by grade, subject and type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd.Context(), flags, func(e *env) error {
				groups, err := e.uploads.Groups()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if flags.jsonMode {
					return printJSON(out, groups)
				}
				for _, key := range sortedKeys(groups) {
					fmt.Fprintf(out, "%s (%d)\n", key, len(groups[key]))
					for _, rec := range groups[key] {
						fmt.Fprintf(out, "  %s  %s\n", rec.ID, rec.Title)
					}
				}
				return nil
			})
		},
	}
}

func recordRows(recs []types.ResourceRecord) [][]string {
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{r.ID, r.ResourceType, r.Grade, r.Subject, strings.Join(r.Languages, ","), r.Title})
	}
	return rows
}

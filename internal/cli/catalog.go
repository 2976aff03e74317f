package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teachingtorch/torch/internal/view"
	"github.com/teachingtorch/torch/pkg/types"
)

func newStatsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog totals and the per-language breakdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd.Context(), flags, func(e *env) error {
				stats := e.catalog.Stats()
				out := cmd.OutOrStdout()
				if flags.jsonMode {
					return printJSON(out, stats)
				}
				fmt.Fprintf(out, "Grades:    %d\n", stats.TotalGrades)
				fmt.Fprintf(out, "Subjects:  %d\n", stats.TotalSubjects)
				fmt.Fprintf(out, "Resources: %d\n", stats.TotalResources)
				fmt.Fprintf(out, "Videos:    %d\n", stats.TotalVideos)
				for _, lang := range types.KnownLanguages {
					fmt.Fprintf(out, "  %-8s %d\n", lang, stats.LanguageBreakdown[lang])
				}
				return nil
			})
		},
	}
}

func newGradesCmd(flags *rootFlags) *cobra.Command {
	grades := &cobra.Command{
		Use:   "grades",
		Short: "List grades",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd.Context(), flags, func(e *env) error {
				list := e.catalog.Grades()
				if flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), list)
				}
				rows := make([][]string, 0, len(list))
				for _, g := range list {
					rows = append(rows, []string{g.ID, g.Name, g.Display})
				}
				return table(cmd.OutOrStdout(), []string{"ID", "NAME", "DISPLAY"}, rows)
			})
		},
	}
	grades.AddCommand(newGradeShowCmd(flags))
	return grades
}

func newGradeShowCmd(flags *rootFlags) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "show <grade-id>",
		Short: "Show a grade page: its subjects with their resources and videos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd.Context(), flags, func(e *env) error {
				if lang == "" {
					lang = e.session.Language()
				}
				page, err := view.Build(e.catalog, args[0], lang)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if flags.jsonMode {
					return printJSON(out, page)
				}
				fmt.Fprintf(out, "%s (%s) [%s]\n", page.Grade.Name, page.Grade.Display, page.Language)
				rows := make([][]string, 0, len(page.Subjects))
				for _, sp := range page.Subjects {
					rows = append(rows, []string{
						sp.ID,
						sp.Name,
						priorityLabel(sp.Subject, page.Grade.ID),
						strconv.Itoa(view.ResourceCount(sp.Resources)),
						strconv.Itoa(len(sp.Videos)),
					})
				}
				return table(out, []string{"SUBJECT", "NAME", "PRIORITY", "RESOURCES", "VIDEOS"}, rows)
			})
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "language filter: all, sinhala, tamil or english (default: selected language)")
	return cmd
}

func priorityLabel(s types.Subject, gradeID string) string {
	if _, ok := s.Priorities[gradeID]; !ok {
		return "-"
	}
	return strconv.Itoa(s.Priority(gradeID))
}

func newSubjectCmd(flags *rootFlags) *cobra.Command {
	subject := &cobra.Command{
		Use:   "subject",
		Short: "List and manage subjects",
	}
	subject.AddCommand(newSubjectListCmd(flags))
	subject.AddCommand(newSubjectAddCmd(flags))
	subject.AddCommand(newSubjectUpdateCmd(flags))
	subject.AddCommand(newSubjectDeleteCmd(flags))
	return subject
}

func newSubjectListCmd(flags *rootFlags) *cobra.Command {
	var grade string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List subjects, optionally those offered in one grade",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd.Context(), flags, func(e *env) error {
				list := e.catalog.Subjects()
				if grade != "" {
					list = e.catalog.SubjectsForGrade(grade)
				}
				if flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), list)
				}
				rows := make([][]string, 0, len(list))
				for _, s := range list {
					rows = append(rows, []string{s.ID, s.Name, s.Icon, strings.Join(s.Grades, ",")})
				}
				return table(cmd.OutOrStdout(), []string{"ID", "NAME", "ICON", "GRADES"}, rows)
			})
		},
	}
	cmd.Flags().StringVar(&grade, "grade", "", "only subjects offered in this grade, in display order")
	return cmd
}

func newSubjectAddCmd(flags *rootFlags) *cobra.Command {
	var (
		name       string
		icon       string
		grades     []string
		priorities []string
	)
	cmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Add a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prio, err := parsePriorities(priorities)
			if err != nil {
				return err
			}
			return withAdmin(cmd.Context(), flags, func(e *env) error {
				return e.catalog.Dispatch(types.AddSubject{
					ID: args[0], Name: name, Icon: icon, Grades: grades, Priorities: prio,
				})
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&icon, "icon", "", "icon class (default bi-book)")
	cmd.Flags().StringSliceVar(&grades, "grades", nil, "grades offering the subject")
	cmd.Flags().StringSliceVar(&priorities, "priority", nil, "per-grade priority as grade=N")
	return cmd
}

func newSubjectUpdateCmd(flags *rootFlags) *cobra.Command {
	var (
		name       string
		icon       string
		grades     []string
		priorities []string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a subject; only the flags given are changed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u types.SubjectUpdate
			if cmd.Flags().Changed("name") {
				u.Name = &name
			}
			if cmd.Flags().Changed("icon") {
				u.Icon = &icon
			}
			if cmd.Flags().Changed("grades") {
				u.Grades = grades
			}
			if cmd.Flags().Changed("priority") {
				prio, err := parsePriorities(priorities)
				if err != nil {
					return err
				}
				u.Priorities = prio
			}
			return withAdmin(cmd.Context(), flags, func(e *env) error {
				return e.catalog.Dispatch(types.UpdateSubject{ID: args[0], Updates: u})
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&icon, "icon", "", "icon class")
	cmd.Flags().StringSliceVar(&grades, "grades", nil, "grades offering the subject")
	cmd.Flags().StringSliceVar(&priorities, "priority", nil, "per-grade priority as grade=N; replaces all priorities")
	return cmd
}

func newSubjectDeleteCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a subject; its resources and videos are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd.Context(), flags, func(e *env) error {
				return e.catalog.Dispatch(types.DeleteSubject{ID: args[0]})
			})
		},
	}
}

// parsePriorities parses grade=N pairs.
func parsePriorities(pairs []string) (map[string]int, error) {
	out := make(map[string]int, len(pairs))
	for _, p := range pairs {
		grade, value, ok := strings.Cut(p, "=")
		if !ok || grade == "" {
			return nil, fmt.Errorf("priority %q: want grade=N: %w", p, errUsage)
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("priority %q: %w", p, errUsage)
		}
		out[grade] = n
	}
	return out, nil
}

// sortedKeys returns the keys of m in order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

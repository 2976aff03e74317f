package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teachingtorch/torch/internal/links"
	"github.com/teachingtorch/torch/pkg/types"
)

// addFlags are shared by the add subcommands.
type addFlags struct {
	grade       string
	subject     string
	lang        string
	link        string
	title       string
	description string
}

func (f *addFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.grade, "grade", "", "grade id")
	cmd.Flags().StringVar(&f.subject, "subject", "", "subject id")
	cmd.Flags().StringVar(&f.lang, "lang", "", "resource language")
	cmd.Flags().StringVar(&f.link, "link", "", "share link or file id")
	cmd.Flags().StringVar(&f.title, "title", "", "title")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
	_ = cmd.MarkFlagRequired("grade")
	_ = cmd.MarkFlagRequired("subject")
}

// fileData resolves the share link into the stored file URLs.
func (f *addFlags) fileData() types.FileData {
	d := links.ResolveDrive(f.link)
	return types.FileData{
		Name:        f.title,
		Title:       f.title,
		Description: f.description,
		URL:         f.link,
		DriveLink:   d.ShareLink,
		FileID:      d.FileID,
		DownloadURL: d.DownloadURL,
		EmbedURL:    d.EmbedURL,
		ViewURL:     d.ViewURL,
	}
}

func newAddCmd(flags *rootFlags) *cobra.Command {
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a textbook, paper, note or video directly to the catalog",
	}
	add.AddCommand(newAddTextbookCmd(flags))
	add.AddCommand(newAddPaperCmd(flags))
	add.AddCommand(newAddNoteCmd(flags))
	add.AddCommand(newAddVideoCmd(flags))
	return add
}

func newAddTextbookCmd(flags *rootFlags) *cobra.Command {
	f := &addFlags{}
	cmd := &cobra.Command{
		Use:   "textbook",
		Short: "Set the textbook for a grade, subject and language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd.Context(), flags, func(e *env) error {
				return e.catalog.Dispatch(types.AddTextbook{
					GradeID: f.grade, SubjectID: f.subject, Language: f.lang, File: f.fileData(),
				})
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newAddPaperCmd(flags *rootFlags) *cobra.Command {
	f := &addFlags{}
	var paperType, category, school string
	cmd := &cobra.Command{
		Use:   "paper",
		Short: "Add a past paper under a term or chapter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd.Context(), flags, func(e *env) error {
				return e.catalog.Dispatch(types.AddPaper{
					GradeID:   f.grade,
					SubjectID: f.subject,
					PaperType: paperType,
					Category:  category,
					File:      f.fileData(),
					School:    school,
					Language:  f.lang,
				})
			})
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&paperType, "type", types.PaperTypeTerm, "paper type: term or chapter")
	cmd.Flags().StringVar(&category, "category", "", "term or chapter name, e.g. term2")
	cmd.Flags().StringVar(&school, "school", "", "school that set the paper")
	return cmd
}

func newAddNoteCmd(flags *rootFlags) *cobra.Command {
	f := &addFlags{}
	var category string
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Add a study note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd.Context(), flags, func(e *env) error {
				return e.catalog.Dispatch(types.AddNote{
					GradeID: f.grade, SubjectID: f.subject, Category: category, File: f.fileData(), Language: f.lang,
				})
			})
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&category, "category", types.DefaultNoteCategory, "note category")
	return cmd
}

func newAddVideoCmd(flags *rootFlags) *cobra.Command {
	f := &addFlags{}
	cmd := &cobra.Command{
		Use:   "video",
		Short: "Add a video",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !links.IsYouTubeLink(f.link) {
				return fmt.Errorf("video link %q: %w", f.link, types.ErrInvalidLink)
			}
			v := links.ResolveVideo(f.link)
			return withAdmin(cmd.Context(), flags, func(e *env) error {
				return e.catalog.Dispatch(types.AddVideo{
					GradeID:   f.grade,
					SubjectID: f.subject,
					Video: types.VideoData{
						Title:        f.title,
						Description:  f.description,
						URL:          f.link,
						VideoID:      v.VideoID,
						EmbedURL:     v.EmbedURL,
						WatchURL:     v.WatchURL,
						ThumbnailURL: v.ThumbnailURL,
						Language:     f.lang,
					},
				})
			})
		},
	}
	f.register(cmd)
	return cmd
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teachingtorch/torch/internal/links"
)

// resolvedLink is the output of "torch link".
type resolvedLink struct {
	Input string           `json:"input"`
	Drive *links.DriveURLs `json:"drive,omitempty"`
	Video *links.VideoURLs `json:"video,omitempty"`
}

func newLinkCmd(flags *rootFlags) *cobra.Command {
	var quality string
	cmd := &cobra.Command{
		Use:   "link <url-or-id>",
		Short: "Show the URLs derived from a file-host or video-host link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := args[0]
			res := resolvedLink{Input: in}
			if links.IsYouTubeLink(in) {
				v := links.ResolveVideo(in)
				v.ThumbnailURL = links.VideoThumbnailURL(in, links.ThumbnailQuality(quality))
				res.Video = &v
			}
			if links.IsDriveLink(in) {
				d := links.ResolveDrive(in)
				res.Drive = &d
			}

			out := cmd.OutOrStdout()
			if flags.jsonMode {
				return printJSON(out, res)
			}
			if res.Drive == nil && res.Video == nil {
				fmt.Fprintf(out, "not a recognized link: %s\n", in)
				return nil
			}
			if v := res.Video; v != nil {
				fmt.Fprintf(out, "video id:   %s\nembed:      %s\nwatch:      %s\nthumbnail:  %s\n",
					v.VideoID, v.EmbedURL, v.WatchURL, v.ThumbnailURL)
			}
			if d := res.Drive; d != nil {
				fmt.Fprintf(out, "file id:    %s\ndownload:   %s\npreview:    %s\nview:       %s\n",
					d.FileID, d.DownloadURL, d.EmbedURL, d.ViewURL)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&quality, "quality", string(links.QualityMedium), "thumbnail quality: default, mqdefault, hqdefault, sddefault, maxresdefault")
	return cmd
}

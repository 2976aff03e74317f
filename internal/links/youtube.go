package links

import (
	"regexp"
	"strings"
)

// ThumbnailQuality selects one of the thumbnail renditions the video host
// publishes.
type ThumbnailQuality string

// Thumbnail qualities. QualityMedium is the default.
const (
	QualityDefault  ThumbnailQuality = "default"
	QualityMedium   ThumbnailQuality = "mqdefault"
	QualityHigh     ThumbnailQuality = "hqdefault"
	QualityStandard ThumbnailQuality = "sddefault"
	QualityMax      ThumbnailQuality = "maxresdefault"
)

var knownQualities = map[ThumbnailQuality]bool{
	QualityDefault:  true,
	QualityMedium:   true,
	QualityHigh:     true,
	QualityStandard: true,
	QualityMax:      true,
}

var (
	bareVideoID  = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
	videoPattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/v/|youtube\.com/shorts/)([^&\n?#]+)`)
	shortPattern = regexp.MustCompile(`youtu\.be/([^&\n?#]+)`)
)

// VideoURLs bundles every URL derived from a video-host link. VideoID is
// empty when the link could not be resolved.
type VideoURLs struct {
	VideoID      string `json:"videoId"`
	EmbedURL     string `json:"embedUrl"`
	WatchURL     string `json:"watchUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

func hasVideoHost(link string) bool {
	return strings.Contains(link, "youtube.com") || strings.Contains(link, "youtu.be")
}

// ExtractVideoID returns the 11-character video identifier in link, or "" if
// none can be found. A bare identifier is returned as is.
func ExtractVideoID(link string) string {
	if link == "" {
		return ""
	}
	if !hasVideoHost(link) && bareVideoID.MatchString(link) {
		return link
	}
	if m := videoPattern.FindStringSubmatch(link); m != nil {
		return m[1]
	}
	if m := shortPattern.FindStringSubmatch(link); m != nil {
		return m[1]
	}
	return ""
}

// IsYouTubeLink reports whether link looks like a video-host link or a bare
// video identifier.
func IsYouTubeLink(link string) bool {
	if link == "" {
		return false
	}
	return hasVideoHost(link) || bareVideoID.MatchString(link)
}

// VideoEmbedURL returns the embeddable player URL for link.
func VideoEmbedURL(link string) string {
	id := ExtractVideoID(link)
	if id == "" {
		return link
	}
	return "https://www.youtube.com/embed/" + id
}

// VideoWatchURL returns the canonical watch URL for link.
func VideoWatchURL(link string) string {
	id := ExtractVideoID(link)
	if id == "" {
		return link
	}
	return "https://www.youtube.com/watch?v=" + id
}

// VideoThumbnailURL returns the thumbnail image URL for link at quality.
// Unknown qualities fall back to QualityMedium.
func VideoThumbnailURL(link string, quality ThumbnailQuality) string {
	id := ExtractVideoID(link)
	if id == "" {
		return link
	}
	if !knownQualities[quality] {
		quality = QualityMedium
	}
	return "https://img.youtube.com/vi/" + id + "/" + string(quality) + ".jpg"
}

// ResolveVideo extracts the video identifier from link and builds every
// derived URL using the default thumbnail quality.
func ResolveVideo(link string) VideoURLs {
	return VideoURLs{
		VideoID:      ExtractVideoID(link),
		EmbedURL:     VideoEmbedURL(link),
		WatchURL:     VideoWatchURL(link),
		ThumbnailURL: VideoThumbnailURL(link, QualityMedium),
	}
}

// Package links resolves file-host and video-host share links into stable
// identifiers and the derived download, preview, view, embed and thumbnail
// URLs. Resolution never fails: when no identifier can be extracted every
// builder returns its input unchanged so callers can fall back to opening the
// original link.
package links

import (
	"regexp"
	"strings"
)

const driveHost = "drive.google.com"

// drivePatterns are tried in order; the first match wins.
var drivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`[?&]id=([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`/uc\?id=([a-zA-Z0-9_-]+)`),
}

var bareDriveID = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// DriveURLs bundles every URL derived from a file-host link. FileID is empty
// when the link could not be resolved, in which case every URL echoes
// ShareLink.
type DriveURLs struct {
	FileID      string `json:"fileId"`
	DownloadURL string `json:"downloadUrl"`
	EmbedURL    string `json:"embedUrl"`
	ViewURL     string `json:"viewUrl"`
	ShareLink   string `json:"shareLink"`
}

// ExtractFileID returns the file identifier in a file-host share link, or ""
// if none can be found. Input with neither the host name nor a slash is taken
// to be an identifier already.
func ExtractFileID(link string) string {
	if link == "" {
		return ""
	}
	if !strings.Contains(link, driveHost) && !strings.Contains(link, "/") {
		return link
	}
	for _, re := range drivePatterns {
		if m := re.FindStringSubmatch(link); m != nil {
			return m[1]
		}
	}
	return ""
}

// DriveDownloadURL returns the direct download URL for link.
func DriveDownloadURL(link string) string {
	id := ExtractFileID(link)
	if id == "" {
		return link
	}
	return "https://drive.google.com/uc?export=download&id=" + id
}

// DrivePreviewURL returns the embeddable preview URL for link.
func DrivePreviewURL(link string) string {
	id := ExtractFileID(link)
	if id == "" {
		return link
	}
	return "https://drive.google.com/file/d/" + id + "/preview"
}

// DriveViewURL returns the canonical view URL for link.
func DriveViewURL(link string) string {
	id := ExtractFileID(link)
	if id == "" {
		return link
	}
	return "https://drive.google.com/file/d/" + id + "/view"
}

// IsDriveLink reports whether link looks like a file-host link or a bare
// file identifier. No network check is made.
func IsDriveLink(link string) bool {
	if link == "" {
		return false
	}
	return strings.Contains(link, driveHost) || bareDriveID.MatchString(link)
}

// ResolveDrive extracts the file identifier from link and builds every
// derived URL.
func ResolveDrive(link string) DriveURLs {
	id := ExtractFileID(link)
	if id == "" {
		return DriveURLs{
			DownloadURL: link,
			EmbedURL:    link,
			ViewURL:     link,
			ShareLink:   link,
		}
	}
	return DriveURLs{
		FileID:      id,
		DownloadURL: DriveDownloadURL(link),
		EmbedURL:    DrivePreviewURL(link),
		ViewURL:     DriveViewURL(link),
		ShareLink:   link,
	}
}

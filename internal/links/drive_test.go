package links

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFileID(t *testing.T) {
	tests := []struct {
		name string
		link string
		want string
	}{
		{"file view link", "https://drive.google.com/file/d/ABC123/view", "ABC123"},
		{"file link without suffix", "https://drive.google.com/file/d/ABC-12_3", "ABC-12_3"},
		{"file link with query", "https://drive.google.com/file/d/ABC123/view?usp=sharing", "ABC123"},
		{"open link", "https://drive.google.com/open?id=XYZ789", "XYZ789"},
		{"id after other params", "https://drive.google.com/open?usp=x&id=XYZ789", "XYZ789"},
		{"uc link", "https://drive.google.com/uc?id=UC456", "UC456"},
		{"uc download link", "https://drive.google.com/uc?export=download&id=UC456", "UC456"},
		{"bare id", "1a2B3c4D5e", "1a2B3c4D5e"},
		{"empty", "", ""},
		{"other host", "https://example.com/files/abc", ""},
		{"drive host without id", "https://drive.google.com/drive/my-drive", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFileID(tt.link))
		})
	}
}

func TestDriveURLBuilders(t *testing.T) {
	link := "https://drive.google.com/file/d/ABC123/view"

	assert.Equal(t, "https://drive.google.com/uc?export=download&id=ABC123", DriveDownloadURL(link))
	assert.Equal(t, "https://drive.google.com/file/d/ABC123/preview", DrivePreviewURL(link))
	assert.Equal(t, "https://drive.google.com/file/d/ABC123/view", DriveViewURL(link))
}

func TestDriveURLBuildersEchoUnresolvableInput(t *testing.T) {
	for _, link := range []string{"", "https://example.com/files/abc", "https://drive.google.com/drive/folders"} {
		t.Run(link, func(t *testing.T) {
			assert.Equal(t, link, DriveDownloadURL(link))
			assert.Equal(t, link, DrivePreviewURL(link))
			assert.Equal(t, link, DriveViewURL(link))

			urls := ResolveDrive(link)
			assert.Empty(t, urls.FileID)
			assert.Equal(t, link, urls.DownloadURL)
			assert.Equal(t, link, urls.EmbedURL)
			assert.Equal(t, link, urls.ViewURL)
			assert.Equal(t, link, urls.ShareLink)
		})
	}
}

func TestResolveDrive(t *testing.T) {
	link := "https://drive.google.com/open?id=XYZ789"
	got := ResolveDrive(link)

	assert.Equal(t, DriveURLs{
		FileID:      "XYZ789",
		DownloadURL: "https://drive.google.com/uc?export=download&id=XYZ789",
		EmbedURL:    "https://drive.google.com/file/d/XYZ789/preview",
		ViewURL:     "https://drive.google.com/file/d/XYZ789/view",
		ShareLink:   link,
	}, got)
}

func TestIsDriveLink(t *testing.T) {
	tests := []struct {
		link string
		want bool
	}{
		{"https://drive.google.com/file/d/ABC123/view", true},
		{"ABC123", true},
		{"abc_DEF-123", true},
		{"", false},
		{"https://example.com/file.pdf", false},
		{"not an id", false},
	}

	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDriveLink(tt.link))
		})
	}
}

package types

import (
	"errors"
	"time"
)

// Resource types accepted by the admin resource manager.
const (
	ResourceTextbook = "textbook"
	ResourceNotes    = "notes"
	ResourcePapers   = "papers"
	ResourceVideos   = "videos"
)

// ResourceRecord is an entry in the admin resource manager's uploaded-files
// list. Exactly one of DriveLink and YouTubeURL is set.
type ResourceRecord struct {
	ID            string    `json:"id"`
	DriveLink     *string   `json:"driveLink"`
	YouTubeURL    *string   `json:"youtubeUrl"`
	URL           string    `json:"url"`
	FileID        string    `json:"fileId"`
	Title         string    `json:"title"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Grade         string    `json:"grade"`
	Subject       string    `json:"subject"`
	ResourceType  string    `json:"resourceType"`
	Languages     []string  `json:"languages"`
	UploadDate    time.Time `json:"uploadDate"`
	AddedBy       string    `json:"addedBy"`
	PaperType     string    `json:"paperType,omitempty"`
	PaperCategory string    `json:"paperCategory,omitempty"`
	School        string    `json:"school,omitempty"`
}

// Resource manager errors.
var (
	ErrInvalidLink         = errors.New("invalid link")
	ErrInvalidResourceType = errors.New("invalid resource type")
	ErrResourceNotFound    = errors.New("resource not found")
)

// Session errors.
var (
	ErrNotLoggedIn   = errors.New("admin session required")
	ErrWrongPassword = errors.New("invalid password")
)

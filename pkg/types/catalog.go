package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// Languages a resource can be published in. LanguageAll is a filter value,
// never a resource language.
const (
	LanguageSinhala = "sinhala"
	LanguageTamil   = "tamil"
	LanguageEnglish = "english"
	LanguageAll     = "all"
)

// KnownLanguages lists the resource languages counted by catalog statistics.
var KnownLanguages = []string{LanguageSinhala, LanguageTamil, LanguageEnglish}

// IsKnownLanguage reports whether lang is one of KnownLanguages.
func IsKnownLanguage(lang string) bool {
	for _, l := range KnownLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// Paper types.
const (
	PaperTypeTerm    = "term"
	PaperTypeChapter = "chapter"
)

// DefaultTerms are the term categories every resource bundle starts with.
var DefaultTerms = []string{"term1", "term2", "term3"}

// Defaults applied when a command omits an optional field.
const (
	DefaultSchool       = "Unknown School"
	DefaultSubjectIcon  = "bi-book"
	DefaultNoteCategory = "general"
	DefaultPriority     = 999
	MaxActivities       = 50
)

// Grade is an academic year level. Grades are seeded at initialization and
// never deleted.
type Grade struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Display string `json:"display"`
	Active  bool   `json:"active"`
}

// Subject is a course offered within one or more grades. Priorities order
// subjects within a grade; lower values come first.
type Subject struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Icon       string         `json:"icon"`
	Grades     []string       `json:"grades"`
	Priorities map[string]int `json:"priorities"`
}

// HasGrade reports whether the subject is visible under gradeID.
func (s Subject) HasGrade(gradeID string) bool {
	for _, g := range s.Grades {
		if g == gradeID {
			return true
		}
	}
	return false
}

// Priority returns the display priority for gradeID, or DefaultPriority when
// none is set.
func (s Subject) Priority(gradeID string) int {
	if p, ok := s.Priorities[gradeID]; ok {
		return p
	}
	return DefaultPriority
}

// SubjectUpdate carries the fields UpdateSubject merges into a subject.
// Nil fields are left unchanged.
type SubjectUpdate struct {
	Name       *string        `json:"name,omitempty"`
	Icon       *string        `json:"icon,omitempty"`
	Grades     []string       `json:"grades,omitempty"`
	Priorities map[string]int `json:"priorities,omitempty"`
}

// FileData describes an externally hosted file. The catalog stores links
// only; it never holds file contents.
type FileData struct {
	Name        string `json:"name,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	DriveLink   string `json:"driveLink,omitempty"`
	FileID      string `json:"fileId,omitempty"`
	DownloadURL string `json:"downloadUrl,omitempty"`
	EmbedURL    string `json:"embedUrl,omitempty"`
	ViewURL     string `json:"viewUrl,omitempty"`
}

// Textbook is the single textbook for one language of a grade and subject.
type Textbook struct {
	FileData
	Language   string    `json:"language"`
	UploadDate time.Time `json:"uploadDate"`
}

// Paper is a past exam paper filed under a term or chapter category.
type Paper struct {
	ID string `json:"id"`
	FileData
	School     string    `json:"school"`
	Language   string    `json:"language"`
	UploadDate time.Time `json:"uploadDate"`
}

// Note is a study note filed under a category.
type Note struct {
	ID string `json:"id"`
	FileData
	Language   string    `json:"language"`
	UploadDate time.Time `json:"uploadDate"`
}

// Papers groups past papers by term and by chapter.
type Papers struct {
	Terms    map[string][]Paper `json:"terms"`
	Chapters map[string][]Paper `json:"chapters"`
}

// ResourceBundle holds every resource for one grade and subject.
type ResourceBundle struct {
	Textbooks map[string]Textbook `json:"textbooks"`
	Papers    Papers              `json:"papers"`
	Notes     map[string][]Note   `json:"notes"`
}

// EmptyResourceBundle returns a structurally complete bundle with the
// default term categories and no resources.
func EmptyResourceBundle() ResourceBundle {
	terms := make(map[string][]Paper, len(DefaultTerms))
	for _, t := range DefaultTerms {
		terms[t] = []Paper{}
	}
	return ResourceBundle{
		Textbooks: map[string]Textbook{},
		Papers: Papers{
			Terms:    terms,
			Chapters: map[string][]Paper{},
		},
		Notes: map[string][]Note{},
	}
}

// VideoData describes an externally hosted video.
type VideoData struct {
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	URL          string `json:"url,omitempty"`
	VideoID      string `json:"videoId,omitempty"`
	EmbedURL     string `json:"embedUrl,omitempty"`
	WatchURL     string `json:"watchUrl,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Language     string `json:"language"`
}

// Video is a catalogued video for one grade and subject.
type Video struct {
	ID string `json:"id"`
	VideoData
	AddedDate time.Time `json:"addedDate"`
}

// ActivityEntry is one line of the admin activity feed.
type ActivityEntry struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// UnmarshalJSON accepts numeric ids as well as strings, so snapshots written
// by older clients still load.
func (a *ActivityEntry) UnmarshalJSON(data []byte) error {
	type alias ActivityEntry
	var raw struct {
		alias
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = ActivityEntry(raw.alias)
	id := bytes.TrimSpace(raw.ID)
	switch {
	case len(id) == 0 || bytes.Equal(id, []byte("null")):
		a.ID = ""
	case id[0] == '"':
		return json.Unmarshal(id, &a.ID)
	default:
		a.ID = string(id)
	}
	return nil
}

// Settings holds site settings and the activity log, newest entry first.
type Settings struct {
	SiteName      string          `json:"siteName"`
	AdminPassword string          `json:"adminPassword"`
	LastUpdated   time.Time       `json:"lastUpdated"`
	Activities    []ActivityEntry `json:"activities"`
}

// CatalogState is the aggregate root of the catalog. Resources and Videos are
// keyed by grade ID, then subject ID.
type CatalogState struct {
	Grades    map[string]Grade                     `json:"grades"`
	Subjects  map[string]Subject                   `json:"subjects"`
	Resources map[string]map[string]ResourceBundle `json:"resources"`
	Videos    map[string]map[string][]Video        `json:"videos"`
	Settings  Settings                             `json:"settings"`
	Loading   bool                                 `json:"loading"`
	Error     string                               `json:"error,omitempty"`
}

// Stats aggregates catalog counts for the admin overview.
type Stats struct {
	TotalGrades       int            `json:"totalGrades"`
	TotalSubjects     int            `json:"totalSubjects"`
	TotalResources    int            `json:"totalResources"`
	TotalVideos       int            `json:"totalVideos"`
	TotalLanguages    int            `json:"totalLanguages"`
	LanguageBreakdown map[string]int `json:"languageBreakdown"`
}

// Catalog command errors.
var (
	ErrInvalidID        = errors.New("invalid id")
	ErrInvalidName      = errors.New("invalid name")
	ErrInvalidLanguage  = errors.New("invalid language")
	ErrInvalidPaperType = errors.New("invalid paper type")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidMessage   = errors.New("activity message must not be empty")
	ErrNoGrades         = errors.New("subject must belong to at least one grade")
	ErrSubjectExists    = errors.New("subject already exists")
	ErrSubjectNotFound  = errors.New("subject not found")
	ErrGradeNotFound    = errors.New("grade not found")
	ErrInvalidFormat    = errors.New("invalid data format")
)

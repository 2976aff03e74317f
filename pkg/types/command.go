package types

import "io"

// Command is a catalog mutation. The set of implementations is closed; the
// catalog store dispatches on the concrete type.
type Command interface {
	// Name returns a stable identifier used in logs and metrics.
	Kind() string
	isCommand()
}

// AddTextbook upserts the textbook for Language under a grade and subject.
type AddTextbook struct {
	GradeID   string
	SubjectID string
	Language  string
	File      FileData
}

// AddPaper appends a past paper under a term or chapter category.
// School and Language default to DefaultSchool and LanguageEnglish.
type AddPaper struct {
	GradeID   string
	SubjectID string
	PaperType string
	Category  string
	File      FileData
	School    string
	Language  string
}

// AddNote appends a study note under a category. Category and Language
// default to DefaultNoteCategory and LanguageEnglish.
type AddNote struct {
	GradeID   string
	SubjectID string
	Category  string
	File      FileData
	Language  string
}

// AddVideo appends a video under a grade and subject.
type AddVideo struct {
	GradeID   string
	SubjectID string
	Video     VideoData
}

// AddSubject creates a subject visible under Grades.
type AddSubject struct {
	ID         string
	Name       string
	Icon       string
	Grades     []string
	Priorities map[string]int
}

// UpdateSubject shallow-merges Updates into an existing subject.
type UpdateSubject struct {
	ID      string
	Updates SubjectUpdate
}

// DeleteSubject removes a subject. Its resources and videos stay in place.
type DeleteSubject struct {
	ID string
}

// LogActivity appends a free-form message to the activity log.
type LogActivity struct {
	Message string
}

// ImportData replaces the whole catalog with the snapshot in Raw.
type ImportData struct {
	Raw []byte
}

// ExportData writes the pretty-printed catalog snapshot to W.
type ExportData struct {
	W io.Writer
}

func (AddTextbook) Kind() string   { return "add_textbook" }
func (AddPaper) Kind() string      { return "add_paper" }
func (AddNote) Kind() string       { return "add_note" }
func (AddVideo) Kind() string      { return "add_video" }
func (AddSubject) Kind() string    { return "add_subject" }
func (UpdateSubject) Kind() string { return "update_subject" }
func (DeleteSubject) Kind() string { return "delete_subject" }
func (LogActivity) Kind() string   { return "log_activity" }
func (ImportData) Kind() string    { return "import_data" }
func (ExportData) Kind() string    { return "export_data" }

func (AddTextbook) isCommand()   {}
func (AddPaper) isCommand()      {}
func (AddNote) isCommand()       {}
func (AddVideo) isCommand()      {}
func (AddSubject) isCommand()    {}
func (UpdateSubject) isCommand() {}
func (DeleteSubject) isCommand() {}
func (LogActivity) isCommand()   {}
func (ImportData) isCommand()    {}
func (ExportData) isCommand()    {}

package catalog

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/teachingtorch/torch/pkg/types"
)

// Grade returns the grade with id.
func (s *Store) Grade(id string) (types.Grade, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.state.Grades[id]
	return g, ok
}

// Grades returns every grade, numbered grades first in numeric order, then
// the rest by name.
func (s *Store) Grades() []types.Grade {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Grade, 0, len(s.state.Grades))
	for _, g := range s.state.Grades {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return gradeLess(out[i], out[j]) })
	return out
}

// gradeLess orders "Grade 6" before "Grade 10" and both before unnumbered
// grades such as "Advanced Level".
func gradeLess(a, b types.Grade) bool {
	na, okA := trailingNumber(a.Name)
	nb, okB := trailingNumber(b.Name)
	switch {
	case okA && okB && na != nb:
		return na < nb
	case okA != okB:
		return okA
	case a.Name != b.Name:
		return a.Name < b.Name
	default:
		return a.ID < b.ID
	}
}

func trailingNumber(name string) (int, bool) {
	end := len(name)
	start := strings.LastIndexFunc(name, func(r rune) bool { return !unicode.IsDigit(r) }) + 1
	if start >= end {
		return 0, false
	}
	n, err := strconv.Atoi(name[start:end])
	return n, err == nil
}

// Subject returns the subject with id.
func (s *Store) Subject(id string) (types.Subject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.state.Subjects[id]
	return sub, ok
}

// Subjects returns every subject ordered by name.
func (s *Store) Subjects() []types.Subject {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Subject, 0, len(s.state.Subjects))
	for _, sub := range s.state.Subjects {
		out = append(out, sub)
	}
	col := collate.New(language.Und)
	sort.SliceStable(out, func(i, j int) bool {
		if c := col.CompareString(out[i].Name, out[j].Name); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// SubjectsForGrade returns the subjects offered in gradeID, ordered by their
// priority for that grade and then by name.
func (s *Store) SubjectsForGrade(gradeID string) []types.Subject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SortSubjects(s.state.Subjects, gradeID)
}

// SortSubjects filters subjects to those in gradeID and orders them by
// priority ascending, then by name using locale-aware collation. Ties on both fall back to the subject id.
func SortSubjects(subjects map[string]types.Subject, gradeID string) []types.Subject {
	out := make([]types.Subject, 0, len(subjects))
	for _, sub := range subjects {
		if sub.HasGrade(gradeID) {
			out = append(out, sub)
		}
	}
	col := collate.New(language.Und)
	sort.Slice(out, func(i, j int) bool {
		pi, pj := out[i].Priority(gradeID), out[j].Priority(gradeID)
		if pi != pj {
			return pi < pj
		}
		if c := col.CompareString(out[i].Name, out[j].Name); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Resources returns a copy of the bundle for gradeID/subjectID, or an empty
// bundle when none exists.
func (s *Store) Resources(gradeID, subjectID string) types.ResourceBundle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ResourcesIn(s.state, gradeID, subjectID)
}

// ResourcesIn is Resources over an explicit state snapshot.
func ResourcesIn(st types.CatalogState, gradeID, subjectID string) types.ResourceBundle {
	b, ok := st.Resources[gradeID][subjectID]
	if !ok {
		return types.EmptyResourceBundle()
	}
	return cloneBundle(completeBundle(b))
}

// Videos returns the videos for gradeID/subjectID, never nil.
func (s *Store) Videos(gradeID, subjectID string) []types.Video {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return VideosIn(s.state, gradeID, subjectID)
}

// VideosIn is Videos over an explicit state snapshot.
func VideosIn(st types.CatalogState, gradeID, subjectID string) []types.Video {
	old := st.Videos[gradeID][subjectID]
	out := make([]types.Video, len(old))
	copy(out, old)
	return out
}

// Activities returns the activity log, newest first.
func (s *Store) Activities() []types.ActivityEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.ActivityEntry, len(s.state.Settings.Activities))
	copy(out, s.state.Settings.Activities)
	return out
}

// Settings returns the site settings.
func (s *Store) Settings() types.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Settings
}

// Stats aggregates catalog counts. Textbooks are counted by their map key,
// papers, notes and videos by their language field. Unknown languages are
// counted in the totals but not in the breakdown.
func (s *Store) Stats() types.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StatsOf(s.state)
}

// StatsOf is Stats over an explicit state snapshot. Resources are textbooks
// and papers; notes are not counted.
func StatsOf(st types.CatalogState) types.Stats {
	stats := types.Stats{
		TotalGrades:       len(st.Grades),
		TotalSubjects:     len(st.Subjects),
		TotalLanguages:    len(types.KnownLanguages),
		LanguageBreakdown: make(map[string]int, len(types.KnownLanguages)),
	}
	for _, l := range types.KnownLanguages {
		stats.LanguageBreakdown[l] = 0
	}
	count := func(lang string) {
		if types.IsKnownLanguage(lang) {
			stats.LanguageBreakdown[lang]++
		}
	}

	for _, bySubject := range st.Resources {
		for _, b := range bySubject {
			for lang := range b.Textbooks {
				stats.TotalResources++
				count(lang)
			}
			for _, group := range []map[string][]types.Paper{b.Papers.Terms, b.Papers.Chapters} {
				for _, papers := range group {
					for _, p := range papers {
						stats.TotalResources++
						count(p.Language)
					}
				}
			}
		}
	}
	for _, bySubject := range st.Videos {
		for _, videos := range bySubject {
			for _, v := range videos {
				stats.TotalVideos++
				count(v.Language)
			}
		}
	}
	return stats
}

// Export writes the pretty-printed snapshot through an ExportData command and
// returns it with its download file name.
func (s *Store) Export() (string, []byte, error) {
	var buf bytes.Buffer
	if err := s.Dispatch(types.ExportData{W: &buf}); err != nil {
		return "", nil, err
	}
	return ExportFilename(s.now()), buf.Bytes(), nil
}

// ExportFilename returns the download name for a snapshot exported at t.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("teaching-torch-data-%s.json", t.Format("2006-01-02"))
}

// Import replaces the catalog with the snapshot in raw.
func (s *Store) Import(raw []byte) error {
	return s.Dispatch(types.ImportData{Raw: raw})
}

func cloneBundle(b types.ResourceBundle) types.ResourceBundle {
	out := types.ResourceBundle{
		Textbooks: make(map[string]types.Textbook, len(b.Textbooks)),
		Papers: types.Papers{
			Terms:    clonePaperGroup(b.Papers.Terms),
			Chapters: clonePaperGroup(b.Papers.Chapters),
		},
		Notes: make(map[string][]types.Note, len(b.Notes)),
	}
	for k, v := range b.Textbooks {
		out.Textbooks[k] = v
	}
	for k, v := range b.Notes {
		out.Notes[k] = append([]types.Note{}, v...)
	}
	return out
}

func clonePaperGroup(m map[string][]types.Paper) map[string][]types.Paper {
	out := make(map[string][]types.Paper, len(m))
	for k, v := range m {
		out[k] = append([]types.Paper{}, v...)
	}
	return out
}

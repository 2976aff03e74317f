package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/teachingtorch/torch/pkg/types"
)

const importFailedMessage = "Import failed: Invalid data format"

// apply derives the state that results from cmd and the activity message
// describing it. st is never modified; every map on the path to a change is
// copied.
func (s *Store) apply(st types.CatalogState, cmd types.Command) (types.CatalogState, string, error) {
	switch c := cmd.(type) {
	case types.AddTextbook:
		return s.addTextbook(st, c)
	case types.AddPaper:
		return s.addPaper(st, c)
	case types.AddNote:
		return s.addNote(st, c)
	case types.AddVideo:
		return s.addVideo(st, c)
	case types.AddSubject:
		return addSubject(st, c)
	case types.UpdateSubject:
		return updateSubject(st, c)
	case types.DeleteSubject:
		return deleteSubject(st, c)
	case types.LogActivity:
		if strings.TrimSpace(c.Message) == "" {
			return st, "", types.ErrInvalidMessage
		}
		return st, c.Message, nil
	case types.ImportData:
		return importData(c)
	case types.ExportData:
		return exportData(st, c)
	default:
		return st, "", fmt.Errorf("unsupported command %T", cmd)
	}
}

func checkPath(gradeID, subjectID string) error {
	if gradeID == "" {
		return fmt.Errorf("grade id: %w", types.ErrInvalidID)
	}
	if subjectID == "" {
		return fmt.Errorf("subject id: %w", types.ErrInvalidID)
	}
	return nil
}

func (s *Store) addTextbook(st types.CatalogState, c types.AddTextbook) (types.CatalogState, string, error) {
	if err := checkPath(c.GradeID, c.SubjectID); err != nil {
		return st, "", err
	}
	if c.Language == "" {
		return st, "", types.ErrInvalidLanguage
	}

	book := types.Textbook{FileData: c.File, Language: c.Language, UploadDate: s.now()}
	next := withBundle(st, c.GradeID, c.SubjectID, func(b types.ResourceBundle) types.ResourceBundle {
		textbooks := make(map[string]types.Textbook, len(b.Textbooks)+1)
		for k, v := range b.Textbooks {
			textbooks[k] = v
		}
		textbooks[c.Language] = book
		b.Textbooks = textbooks
		return b
	})

	msg := fmt.Sprintf("Added %s textbook for %s - %s",
		c.Language, subjectName(st, c.SubjectID), gradeDisplay(st, c.GradeID))
	return next, msg, nil
}

func (s *Store) addPaper(st types.CatalogState, c types.AddPaper) (types.CatalogState, string, error) {
	if err := checkPath(c.GradeID, c.SubjectID); err != nil {
		return st, "", err
	}
	if c.PaperType != types.PaperTypeTerm && c.PaperType != types.PaperTypeChapter {
		return st, "", fmt.Errorf("%q: %w", c.PaperType, types.ErrInvalidPaperType)
	}
	if c.Category == "" {
		return st, "", types.ErrInvalidCategory
	}
	school := c.School
	if school == "" {
		school = types.DefaultSchool
	}
	lang := c.Language
	if lang == "" {
		lang = types.LanguageEnglish
	}

	paper := types.Paper{
		ID:         s.newID(),
		FileData:   c.File,
		School:     school,
		Language:   lang,
		UploadDate: s.now(),
	}
	next := withBundle(st, c.GradeID, c.SubjectID, func(b types.ResourceBundle) types.ResourceBundle {
		if c.PaperType == types.PaperTypeTerm {
			b.Papers.Terms = appendTo(b.Papers.Terms, c.Category, paper)
		} else {
			b.Papers.Chapters = appendTo(b.Papers.Chapters, c.Category, paper)
		}
		return b
	})

	msg := fmt.Sprintf("Added %s %s paper (%s) from %s", lang, c.PaperType, c.Category, school)
	return next, msg, nil
}

func (s *Store) addNote(st types.CatalogState, c types.AddNote) (types.CatalogState, string, error) {
	if err := checkPath(c.GradeID, c.SubjectID); err != nil {
		return st, "", err
	}
	category := c.Category
	if category == "" {
		category = types.DefaultNoteCategory
	}
	lang := c.Language
	if lang == "" {
		lang = types.LanguageEnglish
	}

	note := types.Note{ID: s.newID(), FileData: c.File, Language: lang, UploadDate: s.now()}
	next := withBundle(st, c.GradeID, c.SubjectID, func(b types.ResourceBundle) types.ResourceBundle {
		b.Notes = appendTo(b.Notes, category, note)
		return b
	})

	msg := fmt.Sprintf("Added %s note (%s) for %s - %s",
		lang, category, subjectName(st, c.SubjectID), gradeDisplay(st, c.GradeID))
	return next, msg, nil
}

func (s *Store) addVideo(st types.CatalogState, c types.AddVideo) (types.CatalogState, string, error) {
	if err := checkPath(c.GradeID, c.SubjectID); err != nil {
		return st, "", err
	}
	data := c.Video
	if data.Language == "" {
		data.Language = types.LanguageEnglish
	}
	video := types.Video{ID: s.newID(), VideoData: data, AddedDate: s.now()}

	videos := make(map[string]map[string][]types.Video, len(st.Videos)+1)
	for k, v := range st.Videos {
		videos[k] = v
	}
	bySubject := make(map[string][]types.Video, len(st.Videos[c.GradeID])+1)
	for k, v := range st.Videos[c.GradeID] {
		bySubject[k] = v
	}
	old := bySubject[c.SubjectID]
	list := make([]types.Video, 0, len(old)+1)
	list = append(list, old...)
	bySubject[c.SubjectID] = append(list, video)
	videos[c.GradeID] = bySubject
	st.Videos = videos

	return st, fmt.Sprintf("Added %s video: %s", data.Language, data.Title), nil
}

func addSubject(st types.CatalogState, c types.AddSubject) (types.CatalogState, string, error) {
	if c.ID == "" {
		return st, "", fmt.Errorf("subject id: %w", types.ErrInvalidID)
	}
	if strings.TrimSpace(c.Name) == "" {
		return st, "", types.ErrInvalidName
	}
	if _, ok := st.Subjects[c.ID]; ok {
		return st, "", fmt.Errorf("%q: %w", c.ID, types.ErrSubjectExists)
	}
	grades, err := checkGrades(st, c.Grades)
	if err != nil {
		return st, "", err
	}
	icon := c.Icon
	if icon == "" {
		icon = types.DefaultSubjectIcon
	}

	subject := types.Subject{
		ID:         c.ID,
		Name:       c.Name,
		Icon:       icon,
		Grades:     grades,
		Priorities: copyPriorities(c.Priorities),
	}
	st.Subjects = withSubject(st.Subjects, subject)

	msg := fmt.Sprintf("Added subject: %s for grades: %s", c.Name, strings.Join(grades, ", "))
	return st, msg, nil
}

func updateSubject(st types.CatalogState, c types.UpdateSubject) (types.CatalogState, string, error) {
	existing, ok := st.Subjects[c.ID]
	if !ok {
		return st, "", fmt.Errorf("%q: %w", c.ID, types.ErrSubjectNotFound)
	}

	updated := existing
	u := c.Updates
	if u.Name != nil {
		if strings.TrimSpace(*u.Name) == "" {
			return st, "", types.ErrInvalidName
		}
		updated.Name = *u.Name
	}
	if u.Icon != nil {
		updated.Icon = *u.Icon
	}
	if u.Grades != nil {
		grades, err := checkGrades(st, u.Grades)
		if err != nil {
			return st, "", err
		}
		updated.Grades = grades
	}
	if u.Priorities != nil {
		updated.Priorities = copyPriorities(u.Priorities)
	}
	st.Subjects = withSubject(st.Subjects, updated)

	return st, fmt.Sprintf("Updated subject: %s", existing.Name), nil
}

func deleteSubject(st types.CatalogState, c types.DeleteSubject) (types.CatalogState, string, error) {
	existing, ok := st.Subjects[c.ID]
	if !ok {
		return st, "", fmt.Errorf("%q: %w", c.ID, types.ErrSubjectNotFound)
	}
	subjects := make(map[string]types.Subject, len(st.Subjects))
	for k, v := range st.Subjects {
		if k != c.ID {
			subjects[k] = v
		}
	}
	st.Subjects = subjects
	return st, fmt.Sprintf("Deleted subject: %s", existing.Name), nil
}

func importData(c types.ImportData) (types.CatalogState, string, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(c.Raw, &top); err != nil {
		return types.CatalogState{}, "", fmt.Errorf("parse snapshot: %w", types.ErrInvalidFormat)
	}
	for _, key := range []string{"grades", "subjects"} {
		v, ok := top[key]
		if !ok || string(v) == "null" {
			return types.CatalogState{}, "", fmt.Errorf("missing %q: %w", key, types.ErrInvalidFormat)
		}
	}
	st, err := decodeSnapshot(c.Raw)
	if err != nil {
		return types.CatalogState{}, "", fmt.Errorf("decode snapshot: %w", types.ErrInvalidFormat)
	}
	return st, "Data imported successfully", nil
}

func exportData(st types.CatalogState, c types.ExportData) (types.CatalogState, string, error) {
	if c.W == nil {
		return st, "", fmt.Errorf("export: nil writer")
	}
	enc := json.NewEncoder(c.W)
	enc.SetIndent("", "  ")
	if err := enc.Encode(st); err != nil {
		return st, "", fmt.Errorf("export: %w", err)
	}
	return st, "Data exported successfully", nil
}

// checkGrades returns grades without duplicates, or an error when it is empty
// or names a grade that does not exist.
func checkGrades(st types.CatalogState, grades []string) ([]string, error) {
	if len(grades) == 0 {
		return nil, types.ErrNoGrades
	}
	out := make([]string, 0, len(grades))
	seen := make(map[string]bool, len(grades))
	for _, g := range grades {
		if _, ok := st.Grades[g]; !ok {
			return nil, fmt.Errorf("%q: %w", g, types.ErrGradeNotFound)
		}
		if !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	return out, nil
}

func copyPriorities(p map[string]int) map[string]int {
	out := make(map[string]int, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

func withSubject(subjects map[string]types.Subject, s types.Subject) map[string]types.Subject {
	out := make(map[string]types.Subject, len(subjects)+1)
	for k, v := range subjects {
		out[k] = v
	}
	out[s.ID] = s
	return out
}

// withBundle returns st with the bundle for gradeID/subjectID replaced by
// fn's result. fn receives a complete bundle and must not modify its maps in
// place.
func withBundle(st types.CatalogState, gradeID, subjectID string, fn func(types.ResourceBundle) types.ResourceBundle) types.CatalogState {
	resources := make(map[string]map[string]types.ResourceBundle, len(st.Resources)+1)
	for k, v := range st.Resources {
		resources[k] = v
	}
	bySubject := make(map[string]types.ResourceBundle, len(st.Resources[gradeID])+1)
	for k, v := range st.Resources[gradeID] {
		bySubject[k] = v
	}
	bundle, ok := bySubject[subjectID]
	if ok {
		bundle = completeBundle(bundle)
	} else {
		bundle = types.EmptyResourceBundle()
	}
	bySubject[subjectID] = fn(bundle)
	resources[gradeID] = bySubject
	st.Resources = resources
	return st
}

// appendTo returns a copy of m with item appended to m[key].
func appendTo[T any](m map[string][]T, key string, item T) map[string][]T {
	out := make(map[string][]T, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	old := m[key]
	list := make([]T, 0, len(old)+1)
	list = append(list, old...)
	out[key] = append(list, item)
	return out
}

func subjectName(st types.CatalogState, id string) string {
	if s, ok := st.Subjects[id]; ok {
		return s.Name
	}
	return id
}

func gradeDisplay(st types.CatalogState, id string) string {
	if g, ok := st.Grades[id]; ok {
		return g.Display
	}
	return id
}

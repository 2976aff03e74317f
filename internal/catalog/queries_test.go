package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teachingtorch/torch/internal/storage"
	"github.com/teachingtorch/torch/pkg/types"
)

func subjectIDs(subs []types.Subject) []string {
	ids := make([]string, len(subs))
	for i, s := range subs {
		ids[i] = s.ID
	}
	return ids
}

func TestSortSubjects(t *testing.T) {
	subjects := map[string]types.Subject{
		"banana": {ID: "banana", Name: "Banana", Grades: []string{"g"}},
		"apple":  {ID: "apple", Name: "apple", Grades: []string{"g"}},
		"zebra":  {ID: "zebra", Name: "Zebra", Grades: []string{"g"}, Priorities: map[string]int{"g": 1}},
		"mango":  {ID: "mango", Name: "Mango", Grades: []string{"g"}, Priorities: map[string]int{"other": 0}},
		"hidden": {ID: "hidden", Name: "Aardvark", Grades: []string{"other"}},
		"top":    {ID: "top", Name: "Top", Grades: []string{"g"}, Priorities: map[string]int{"g": 0}},
	}

	got := SortSubjects(subjects, "g")

	assert.Equal(t, []string{"top", "zebra", "apple", "banana", "mango"}, subjectIDs(got))
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Priority("g"), got[i].Priority("g"))
	}
}

func TestSortSubjectsTieBreaksOnID(t *testing.T) {
	subjects := map[string]types.Subject{
		"b": {ID: "b", Name: "Same", Grades: []string{"g"}},
		"a": {ID: "a", Name: "Same", Grades: []string{"g"}},
	}
	assert.Equal(t, []string{"a", "b"}, subjectIDs(SortSubjects(subjects, "g")))
}

func TestSortSubjectsCaseAware(t *testing.T) {
	subjects := map[string]types.Subject{
		"a-upper": {ID: "a-upper", Name: "Art", Grades: []string{"g"}},
		"z-lower": {ID: "z-lower", Name: "art", Grades: []string{"g"}},
		"bio":     {ID: "bio", Name: "Biology", Grades: []string{"g"}},
	}
	assert.Equal(t, []string{"z-lower", "a-upper", "bio"}, subjectIDs(SortSubjects(subjects, "g")))
}

func TestSubjectsCaseAware(t *testing.T) {
	f := newFixture(t, storage.NewMemory(), 0)
	require.NoError(t, f.store.Dispatch(types.AddSubject{ID: "a-upper", Name: "Art", Grades: []string{"grade6"}}))
	require.NoError(t, f.store.Dispatch(types.AddSubject{ID: "z-lower", Name: "art", Grades: []string{"grade6"}}))

	assert.Equal(t, []string{"z-lower", "a-upper", "english", "history", "mathematics", "science"}, subjectIDs(f.store.Subjects()))
}

func TestSubjectsForGrade(t *testing.T) {
	f := newFixture(t, storage.NewMemory(), 0)
	require.NoError(t, f.store.Dispatch(types.UpdateSubject{
		ID:      "science",
		Updates: types.SubjectUpdate{Priorities: map[string]int{"grade6": 1}},
	}))
	require.NoError(t, f.store.Dispatch(types.AddSubject{ID: "art", Name: "Art", Grades: []string{"grade7"}}))

	assert.Equal(t, []string{"science", "english", "history", "mathematics"}, subjectIDs(f.store.SubjectsForGrade("grade6")))
	assert.Equal(t, []string{"art", "english", "history", "mathematics", "science"}, subjectIDs(f.store.SubjectsForGrade("grade7")))
	assert.Empty(t, f.store.SubjectsForGrade("grade12"))
}

func TestGradesOrder(t *testing.T) {
	f := newFixture(t, storage.NewMemory(), 0)

	var ids []string
	for _, g := range f.store.Grades() {
		ids = append(ids, g.ID)
	}
	assert.Equal(t, []string{"grade6", "grade7", "grade8", "grade9", "grade10", "grade11", "al"}, ids)

	g, ok := f.store.Grade("al")
	require.True(t, ok)
	assert.Equal(t, "A/L", g.Display)
	_, ok = f.store.Grade("grade12")
	assert.False(t, ok)
}

func TestResourcesDefault(t *testing.T) {
	f := newFixture(t, storage.NewMemory(), 0)

	b := f.store.Resources("grade6", "english")
	assert.Equal(t, types.EmptyResourceBundle(), b)
	assert.Len(t, b.Papers.Terms, 3)
}

func TestStats(t *testing.T) {
	f := newFixture(t, storage.NewMemory(), 0)
	cmds := []types.Command{
		types.AddTextbook{GradeID: "grade6", SubjectID: "science", Language: types.LanguageSinhala},
		types.AddTextbook{GradeID: "grade6", SubjectID: "science", Language: types.LanguageTamil},
		types.AddTextbook{GradeID: "grade6", SubjectID: "science", Language: "french"},
		types.AddPaper{GradeID: "grade6", SubjectID: "science", PaperType: "term", Category: "term1", Language: types.LanguageTamil},
		types.AddPaper{GradeID: "grade7", SubjectID: "history", PaperType: "chapter", Category: "c1"},
		types.AddVideo{GradeID: "al", SubjectID: "english", Video: types.VideoData{Language: types.LanguageTamil}},
		types.AddVideo{GradeID: "al", SubjectID: "english", Video: types.VideoData{Language: "klingon"}},
	}
	for _, c := range cmds {
		require.NoError(t, f.store.Dispatch(c))
	}

	stats := f.store.Stats()
	assert.Equal(t, 7, stats.TotalGrades)
	assert.Equal(t, 4, stats.TotalSubjects)
	assert.Equal(t, 5, stats.TotalResources)
	assert.Equal(t, 2, stats.TotalVideos)
	assert.Equal(t, 3, stats.TotalLanguages)
	assert.Equal(t, map[string]int{
		types.LanguageSinhala: 1,
		types.LanguageTamil:   3,
		types.LanguageEnglish: 1,
	}, stats.LanguageBreakdown)
}

func TestStatsIgnoreNotes(t *testing.T) {
	f := newFixture(t, storage.NewMemory(), 0)
	before := f.store.Stats()

	require.NoError(t, f.store.Dispatch(types.AddNote{
		GradeID: "grade10", SubjectID: "mathematics", Category: "general", Language: types.LanguageSinhala,
	}))
	assert.Equal(t, before, f.store.Stats())

	raw := []byte(`{
		"grades": {"grade10": {"id": "grade10", "name": "Grade 10", "display": "Grade 10", "active": true}},
		"subjects": {"mathematics": {"id": "mathematics", "name": "Mathematics", "grades": ["grade10"]}},
		"resources": {"grade10": {"mathematics": {"notes": {"general": [
			{"id": "n1", "fileId": "NOTE1", "language": "sinhala"}
		]}}}}
	}`)
	require.NoError(t, f.store.Import(raw))
	stats := f.store.Stats()
	assert.Equal(t, 0, stats.TotalResources)
	assert.Equal(t, 0, stats.LanguageBreakdown[types.LanguageSinhala])
	require.Len(t, f.store.Resources("grade10", "mathematics").Notes["general"], 1)
}

package catalog

import (
	"time"

	"github.com/teachingtorch/torch/pkg/types"
)

// builtInGrade describes a grade seeded into a fresh catalog.
type builtInGrade struct {
	id      string
	name    string
	display string
}

// builtInSubject describes a subject seeded into a fresh catalog. Seeded
// subjects are offered in every built-in grade.
type builtInSubject struct {
	id   string
	name string
	icon string
}

var builtInGrades = []builtInGrade{
	{"grade6", "Grade 6", "Grade 6"},
	{"grade7", "Grade 7", "Grade 7"},
	{"grade8", "Grade 8", "Grade 8"},
	{"grade9", "Grade 9", "Grade 9"},
	{"grade10", "Grade 10", "Grade 10"},
	{"grade11", "Grade 11", "Grade 11"},
	{"al", "Advanced Level", "A/L"},
}

var builtInSubjects = []builtInSubject{
	{"english", "English", "bi-globe"},
	{"science", "Science", "bi-flask"},
	{"mathematics", "Mathematics", "bi-calculator"},
	{"history", "History", "bi-clock-history"},
}

// Seeded site settings.
const (
	DefaultSiteName      = "Teaching Torch"
	DefaultAdminPassword = "admin123"
)

// defaultState returns the catalog a fresh install starts with.
func defaultState(now time.Time) types.CatalogState {
	grades := make(map[string]types.Grade, len(builtInGrades))
	gradeIDs := make([]string, 0, len(builtInGrades))
	for _, g := range builtInGrades {
		grades[g.id] = types.Grade{ID: g.id, Name: g.name, Display: g.display, Active: true}
		gradeIDs = append(gradeIDs, g.id)
	}

	subjects := make(map[string]types.Subject, len(builtInSubjects))
	for _, s := range builtInSubjects {
		subjects[s.id] = types.Subject{
			ID:         s.id,
			Name:       s.name,
			Icon:       s.icon,
			Grades:     append([]string(nil), gradeIDs...),
			Priorities: map[string]int{},
		}
	}

	return types.CatalogState{
		Grades:    grades,
		Subjects:  subjects,
		Resources: map[string]map[string]types.ResourceBundle{},
		Videos:    map[string]map[string][]types.Video{},
		Settings: types.Settings{
			SiteName:      DefaultSiteName,
			AdminPassword: DefaultAdminPassword,
			LastUpdated:   now,
			Activities:    []types.ActivityEntry{},
		},
	}
}

// Package view projects catalog state into the aggregates rendered by a
// grade page.
package view

import (
	"fmt"

	"github.com/teachingtorch/torch/internal/catalog"
	"github.com/teachingtorch/torch/pkg/types"
)

// Source supplies catalog snapshots. *catalog.Store implements it.
type Source interface {
	State() types.CatalogState
}

// SubjectPage is one subject of a grade page with its resources and videos
// for that grade.
type SubjectPage struct {
	types.Subject
	Resources types.ResourceBundle `json:"resources"`
	Videos    []types.Video        `json:"videos"`
}

// GradePage is everything a grade page shows.
type GradePage struct {
	Grade    types.Grade   `json:"grade"`
	Language string        `json:"language"`
	Subjects []SubjectPage `json:"subjects"`
}

// Build returns the page for gradeID from src. Resources and videos are
// limited to lang unless lang is empty or types.LanguageAll. An unknown
// grade yields ErrGradeNotFound.
func Build(src Source, gradeID, lang string) (GradePage, error) {
	return Project(src.State(), gradeID, lang)
}

// Project is Build over an explicit snapshot.
func Project(st types.CatalogState, gradeID, lang string) (GradePage, error) {
	grade, ok := st.Grades[gradeID]
	if !ok {
		return GradePage{}, fmt.Errorf("%q: %w", gradeID, types.ErrGradeNotFound)
	}
	if lang == "" {
		lang = types.LanguageAll
	}

	subjects := catalog.SortSubjects(st.Subjects, gradeID)
	page := GradePage{
		Grade:    grade,
		Language: lang,
		Subjects: make([]SubjectPage, 0, len(subjects)),
	}
	for _, sub := range subjects {
		page.Subjects = append(page.Subjects, SubjectPage{
			Subject:   sub,
			Resources: FilterBundle(catalog.ResourcesIn(st, gradeID, sub.ID), lang),
			Videos:    FilterVideos(catalog.VideosIn(st, gradeID, sub.ID), lang),
		})
	}
	return page, nil
}

// ResourceCount returns the number of textbooks, papers and notes in b.
func ResourceCount(b types.ResourceBundle) int {
	n := len(b.Textbooks)
	for _, group := range []map[string][]types.Paper{b.Papers.Terms, b.Papers.Chapters} {
		for _, papers := range group {
			n += len(papers)
		}
	}
	for _, notes := range b.Notes {
		n += len(notes)
	}
	return n
}

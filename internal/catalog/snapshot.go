package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/teachingtorch/torch/pkg/types"
)

// decodeSnapshot parses a stored or imported snapshot and fills in the
// structure older snapshots may lack.
func decodeSnapshot(data []byte) (types.CatalogState, error) {
	var st types.CatalogState
	if err := json.Unmarshal(data, &st); err != nil {
		return types.CatalogState{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if st.Grades == nil || st.Subjects == nil {
		return types.CatalogState{}, fmt.Errorf("snapshot without grades or subjects: %w", types.ErrInvalidFormat)
	}
	return normalize(st), nil
}

// normalize fills nil maps and slices and copies map keys into ids. The
// input comes from a fresh decode, so it is modified in place.
func normalize(st types.CatalogState) types.CatalogState {
	for id, g := range st.Grades {
		if g.ID == "" {
			g.ID = id
			st.Grades[id] = g
		}
	}
	for id, s := range st.Subjects {
		if s.ID == "" {
			s.ID = id
		}
		if s.Priorities == nil {
			s.Priorities = map[string]int{}
		}
		if s.Grades == nil {
			s.Grades = []string{}
		}
		st.Subjects[id] = s
	}

	if st.Resources == nil {
		st.Resources = map[string]map[string]types.ResourceBundle{}
	}
	for g, bySubject := range st.Resources {
		if bySubject == nil {
			st.Resources[g] = map[string]types.ResourceBundle{}
			continue
		}
		for s, b := range bySubject {
			bySubject[s] = completeBundle(b)
		}
	}
	if st.Videos == nil {
		st.Videos = map[string]map[string][]types.Video{}
	}
	for g, bySubject := range st.Videos {
		if bySubject == nil {
			st.Videos[g] = map[string][]types.Video{}
		}
	}

	if st.Settings.Activities == nil {
		st.Settings.Activities = []types.ActivityEntry{}
	}
	if len(st.Settings.Activities) > types.MaxActivities {
		st.Settings.Activities = st.Settings.Activities[:types.MaxActivities]
	}
	st.Loading = false
	st.Error = ""
	return st
}

// completeBundle returns b with any missing maps replaced by empty ones.
// Maps that are present are shared, not copied.
func completeBundle(b types.ResourceBundle) types.ResourceBundle {
	if b.Textbooks == nil {
		b.Textbooks = map[string]types.Textbook{}
	}
	if b.Papers.Terms == nil {
		b.Papers.Terms = types.EmptyResourceBundle().Papers.Terms
	}
	if b.Papers.Chapters == nil {
		b.Papers.Chapters = map[string][]types.Paper{}
	}
	if b.Notes == nil {
		b.Notes = map[string][]types.Note{}
	}
	return b
}

package view

import "github.com/teachingtorch/torch/pkg/types"

func matches(itemLang, lang string) bool {
	return lang == "" || lang == types.LanguageAll || itemLang == lang
}

// FilterBundle returns b reduced to resources in lang. Category keys are
// kept even when every entry in them is filtered out. b must not be shared
// with catalog state; it is returned as-is for LanguageAll.
func FilterBundle(b types.ResourceBundle, lang string) types.ResourceBundle {
	if lang == "" || lang == types.LanguageAll {
		return b
	}
	out := types.ResourceBundle{
		Textbooks: make(map[string]types.Textbook, 1),
		Papers: types.Papers{
			Terms:    filterGroup(b.Papers.Terms, lang, func(p types.Paper) string { return p.Language }),
			Chapters: filterGroup(b.Papers.Chapters, lang, func(p types.Paper) string { return p.Language }),
		},
		Notes: filterGroup(b.Notes, lang, func(n types.Note) string { return n.Language }),
	}
	if book, ok := b.Textbooks[lang]; ok {
		out.Textbooks[lang] = book
	}
	return out
}

func filterGroup[T any](m map[string][]T, lang string, languageOf func(T) string) map[string][]T {
	out := make(map[string][]T, len(m))
	for k, items := range m {
		kept := make([]T, 0, len(items))
		for _, item := range items {
			if matches(languageOf(item), lang) {
				kept = append(kept, item)
			}
		}
		out[k] = kept
	}
	return out
}

// FilterVideos returns the videos in lang.
func FilterVideos(videos []types.Video, lang string) []types.Video {
	out := make([]types.Video, 0, len(videos))
	for _, v := range videos {
		if matches(v.Language, lang) {
			out = append(out, v)
		}
	}
	return out
}

package synthesis

import (
	"strings"

	"golang.org/x/text/language"

	"medley/internal/source"
)

// pickByLocale selects the title variant whose language best matches the
// desired locale. Returns false when no variant matches at any confidence.
func pickByLocale(titles []source.Title, desired language.Tag) (source.Title, bool) {
	if len(titles) == 0 {
		return source.Title{}, false
	}
	tags := make([]language.Tag, 0, len(titles))
	for _, t := range titles {
		tags = append(tags, language.Make(t.Language))
	}
	matcher := language.NewMatcher(tags)
	_, idx, conf := matcher.Match(desired)
	if conf == language.No {
		return source.Title{}, false
	}
	return titles[idx], true
}

// pickTitle chooses the display title for an entity: a default-flagged
// variant matching the locale wins, then any variant matching the locale,
// then the first default, then the first title at all.
func (s *Synthesizer) pickTitle(titles []source.Title) string {
	if len(titles) == 0 {
		return ""
	}

	defaults := make([]source.Title, 0, len(titles))
	for _, t := range titles {
		if t.Default {
			defaults = append(defaults, t)
		}
	}
	if t, ok := pickByLocale(defaults, s.locale); ok {
		return t.Value
	}
	if t, ok := pickByLocale(titles, s.locale); ok {
		return t.Value
	}
	if len(defaults) > 0 {
		return defaults[0].Value
	}
	return titles[0].Value
}

// collectTitles flattens the native title variants into provenance-tagged
// entries, marking the one matching the chosen display title as preferred.
func collectTitles(titles []source.Title, chosen string) []TextEntry {
	entries := make([]TextEntry, 0, len(titles))
	marked := false
	for _, t := range titles {
		entry := TextEntry{
			Value:    t.Value,
			Language: strings.ToLower(strings.TrimSpace(t.Language)),
			Source:   source.SchemeNative,
			Default:  t.Default,
		}
		if !marked && t.Value == chosen {
			entry.Preferred = true
			marked = true
		}
		entries = append(entries, entry)
	}
	return entries
}

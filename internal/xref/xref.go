package xref

import (
	"sort"
	"strings"

	"medley/internal/source"
)

// Range describes how confident and how partial a file-to-episode binding
// is: a file may cover a percentage span of an episode and belong to a
// multi-part group.
type Range struct {
	Start      float64
	End        float64
	Group      int
	GroupCount *int
}

// Complete reports whether the binding covers the whole episode.
func (r Range) Complete() bool {
	return r.Start <= 0 && r.End >= 100
}

// CrossReference is a deduplicated binding between a physical file and one
// episode. Uniqueness within a file's reference set is defined by the
// content fingerprint: two references sharing (hash, size) describe the
// same physical file.
type CrossReference struct {
	LocalEpisodeID  string
	NativeEpisodeID string
	ParentEpisodeID string
	Hash            string
	Size            int64
	Percent         Range
}

type fingerprint struct {
	hash string
	size int64
}

// Dedupe collapses raw references sharing a content fingerprint, keeping the
// first encountered. Input order is otherwise preserved.
func Dedupe(refs []source.RawCrossReference) []CrossReference {
	if len(refs) == 0 {
		return nil
	}
	seen := make(map[fingerprint]struct{}, len(refs))
	out := make([]CrossReference, 0, len(refs))
	for _, raw := range refs {
		key := fingerprint{hash: strings.ToLower(strings.TrimSpace(raw.Hash)), size: raw.Size}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, fromRaw(raw))
	}
	return out
}

func fromRaw(raw source.RawCrossReference) CrossReference {
	return CrossReference{
		LocalEpisodeID:  raw.LocalEpisodeID,
		NativeEpisodeID: raw.NativeEpisodeID,
		ParentEpisodeID: raw.ParentEpisodeID,
		Hash:            strings.ToLower(strings.TrimSpace(raw.Hash)),
		Size:            raw.Size,
		Percent: Range{
			Start:      raw.PercentStart,
			End:        raw.PercentEnd,
			Group:      raw.Group,
			GroupCount: raw.GroupCount,
		},
	}
}

// ByEpisode groups the deduplicated references of many files by native
// episode identifier, yielding the per-episode list of contributing files.
func ByEpisode(files []*source.FileRecord) map[string][]CrossReference {
	grouped := make(map[string][]CrossReference)
	for _, file := range files {
		if file == nil {
			continue
		}
		for _, ref := range Dedupe(file.CrossReferences) {
			if ref.NativeEpisodeID == "" {
				continue
			}
			grouped[ref.NativeEpisodeID] = append(grouped[ref.NativeEpisodeID], ref)
		}
	}
	return grouped
}

// placeholderTitles are generic sub-titles the native catalog assigns to
// entries that merely restate the show itself rather than naming an episode.
var placeholderTitles = map[string]struct{}{
	"complete movie": {},
	"music video":    {},
	"ova":            {},
	"short movie":    {},
	"special":        {},
	"tv special":     {},
	"web":            {},
}

// IsMainEntry reports whether the episode's primary display-language title
// is one of the known generic placeholders, flagging it as a standalone
// entry rather than part of a numbered sequence.
func IsMainEntry(ep *source.EpisodeRecord, displayLanguage string) bool {
	if ep == nil {
		return false
	}
	title := displayTitle(ep.Titles, displayLanguage)
	_, ok := placeholderTitles[strings.ToLower(strings.TrimSpace(title))]
	return ok
}

// IsStandalone decides whether an episode should be treated as standalone.
// A parent-catalog movie or episode binding takes precedence over the
// main-entry title heuristic.
func IsStandalone(ep *source.EpisodeRecord, movie *source.Movie, parentEpisode *source.ParentEpisode, displayLanguage string) bool {
	if movie != nil {
		return true
	}
	if parentEpisode != nil {
		return false
	}
	return IsMainEntry(ep, displayLanguage)
}

// displayTitle picks the primary title for a language: the default-flagged
// title in that language wins, then any title in that language, then the
// default in any language, then the first title.
func displayTitle(titles []source.Title, language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	var inLanguage, anyDefault string
	for _, t := range titles {
		lang := strings.ToLower(strings.TrimSpace(t.Language))
		if lang == language {
			if t.Default {
				return t.Value
			}
			if inLanguage == "" {
				inLanguage = t.Value
			}
		}
		if t.Default && anyDefault == "" {
			anyDefault = t.Value
		}
	}
	if inLanguage != "" {
		return inLanguage
	}
	if anyDefault != "" {
		return anyDefault
	}
	if len(titles) > 0 {
		return titles[0].Value
	}
	return ""
}

// sortResolved orders tuples by match-confidence grouping: whole-file
// bindings first, then by group index, then by span start.
func sortResolved(resolved []Resolved) {
	sort.SliceStable(resolved, func(i, j int) bool {
		a, b := resolved[i].Ref.Percent, resolved[j].Ref.Percent
		if a.Complete() != b.Complete() {
			return a.Complete()
		}
		if a.Group != b.Group {
			return a.Group < b.Group
		}
		return a.Start < b.Start
	})
}

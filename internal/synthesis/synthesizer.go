package synthesis

import (
	"strings"
	"time"

	"golang.org/x/text/language"

	"medley/internal/source"
	"medley/internal/xref"
)

// Options controls merge behaviour. The four tag/genre toggles gate which
// upstream value sources (keyword-sourced, genre-sourced) feed the Tags and
// Genres output lists independently; the same upstream value may land in
// neither, either, or both.
type Options struct {
	Locale               string
	TagsFromKeywords     bool
	TagsFromGenres       bool
	GenresFromKeywords   bool
	GenresFromGenres     bool
	SanitizeDescriptions bool
}

// Synthesizer builds canonical entities from per-source records.
type Synthesizer struct {
	opts   Options
	locale language.Tag
}

// New constructs a Synthesizer for the given options.
func New(opts Options) *Synthesizer {
	locale := language.Make(strings.TrimSpace(opts.Locale))
	if locale == language.Und {
		locale = language.English
	}
	return &Synthesizer{opts: opts, locale: locale}
}

// NativeRecord is the normalized native-catalog view of one entity; episode
// and series records both reduce to it before merging.
type NativeRecord struct {
	ID             string
	Titles         []source.Title
	Description    string
	RuntimeMinutes int
	AiredAt        *time.Time
	Rating         float64
	Roles          []source.Role
}

// NativeFromEpisode folds an episode and its owning series into one native
// view; roles always live on the series record.
func NativeFromEpisode(ep *source.EpisodeRecord, series *source.SeriesRecord) NativeRecord {
	record := NativeRecord{}
	if ep != nil {
		record.ID = ep.ID
		record.Titles = ep.Titles
		record.Description = ep.Description
		record.RuntimeMinutes = ep.RuntimeMinutes
		record.AiredAt = ep.AiredAt
		record.Rating = ep.Rating
	}
	if series != nil {
		record.Roles = series.Roles
	}
	return record
}

// NativeFromSeries reduces a series record to the native view.
func NativeFromSeries(series *source.SeriesRecord) NativeRecord {
	if series == nil {
		return NativeRecord{}
	}
	return NativeRecord{
		ID:          series.ID,
		Titles:      series.Titles,
		Description: series.Description,
		AiredAt:     series.AiredAt,
		Rating:      series.Rating,
		Roles:       series.Roles,
	}
}

// Input carries everything one synthesis pass consumes. Movie and
// ParentEpisode are mutually exclusive parent-catalog bindings; ParentShow
// accompanies ParentEpisode because episodes alone rarely carry studio,
// location, or rating data. ParentShow alone binds a series-level entity
// directly to the parent catalog.
type Input struct {
	ID        string
	ParentID  string
	Structure StructureType

	Native            NativeRecord
	PreferredTitle    string
	PreferredOverview string

	Cast                []source.Role
	Genres              []string
	Tags                []string
	ProductionLocations []string
	RatingOverride      *ContentRating

	Movie         *source.Movie
	ParentEpisode *source.ParentEpisode
	ParentShow    *source.Show

	CrossReferences []xref.CrossReference
}

// Synthesize merges the input into one canonical entity. Precedence is per
// field group: a bound parent-catalog movie wins, then a bound parent
// episode (with studios/locations/ratings inherited from its show), then
// the native record supplies everything.
func (s *Synthesizer) Synthesize(in Input) *EntityInfo {
	entity := &EntityInfo{
		ID:              in.ID,
		ParentID:        in.ParentID,
		Structure:       in.Structure,
		ExternalIDs:     externalIDs(in),
		CrossReferences: in.CrossReferences,
	}

	s.applyTitles(entity, in)
	s.applyOverview(entity, in)
	s.applyTagsAndGenres(entity, in)
	s.applyFacts(entity, in)
	s.applyStaffAndStudios(entity, in)
	s.applyRatings(entity, in)

	return entity
}

func externalIDs(in Input) map[source.Scheme]string {
	ids := make(map[source.Scheme]string, 2)
	if in.Native.ID != "" {
		ids[source.SchemeNative] = in.Native.ID
	}
	switch {
	case in.Movie != nil:
		ids[source.SchemeParent] = in.Movie.ID
	case in.ParentEpisode != nil:
		ids[source.SchemeParent] = in.ParentEpisode.ID
	case in.ParentShow != nil:
		ids[source.SchemeParent] = in.ParentShow.ID
	}
	return ids
}

func (s *Synthesizer) applyTitles(entity *EntityInfo, in Input) {
	chosen := strings.TrimSpace(in.PreferredTitle)
	if chosen == "" {
		chosen = s.pickTitle(in.Native.Titles)
	}
	entity.Title = chosen
	entity.Titles = collectTitles(in.Native.Titles, chosen)

	if parentTitle := parentDisplayTitle(in); parentTitle != "" {
		entity.Titles = append(entity.Titles, TextEntry{
			Value:    parentTitle,
			Language: strings.ToLower(s.opts.Locale),
			Source:   source.SchemeParent,
		})
	}

	for _, t := range in.Native.Titles {
		if t.Default {
			entity.OriginalLanguage = strings.ToLower(strings.TrimSpace(t.Language))
			break
		}
	}
}

func parentDisplayTitle(in Input) string {
	switch {
	case in.Movie != nil:
		return strings.TrimSpace(in.Movie.Title)
	case in.ParentEpisode != nil:
		return strings.TrimSpace(in.ParentEpisode.Title)
	case in.ParentShow != nil:
		return strings.TrimSpace(in.ParentShow.Title)
	}
	return ""
}

// applyOverview implements the overview selection rule: when the preferred
// description is textually the native raw description, the native text is
// sanitized and becomes both the default overview and the sole
// native-sourced entry; otherwise the preferred text is used untouched and
// no native-sourced entry is synthesized.
func (s *Synthesizer) applyOverview(entity *EntityInfo, in Input) {
	rawNative := in.Native.Description
	preferred := in.PreferredOverview
	if preferred == "" {
		preferred = rawNative
	}

	if rawNative != "" && preferred == rawNative {
		overview := rawNative
		if s.opts.SanitizeDescriptions {
			overview = SanitizeDescription(rawNative)
		}
		entity.Overview = overview
		entity.Overviews = append(entity.Overviews, TextEntry{
			Value:     overview,
			Language:  entity.OriginalLanguage,
			Source:    source.SchemeNative,
			Preferred: true,
		})
	} else {
		entity.Overview = preferred
	}

	if parentOverview := parentDisplayOverview(in); parentOverview != "" {
		entity.Overviews = append(entity.Overviews, TextEntry{
			Value:    parentOverview,
			Language: strings.ToLower(s.opts.Locale),
			Source:   source.SchemeParent,
		})
	}
}

func parentDisplayOverview(in Input) string {
	switch {
	case in.Movie != nil:
		return strings.TrimSpace(in.Movie.Overview)
	case in.ParentEpisode != nil:
		return strings.TrimSpace(in.ParentEpisode.Overview)
	case in.ParentShow != nil:
		return strings.TrimSpace(in.ParentShow.Overview)
	}
	return ""
}

func (s *Synthesizer) applyTagsAndGenres(entity *EntityInfo, in Input) {
	var keywordValues, genreValues []string
	switch {
	case in.Movie != nil:
		keywordValues, genreValues = in.Movie.Keywords, in.Movie.Genres
	case in.ParentEpisode != nil:
		if in.ParentShow != nil {
			keywordValues, genreValues = in.ParentShow.Keywords, in.ParentShow.Genres
		}
		if len(keywordValues) == 0 {
			keywordValues = in.ParentEpisode.Keywords
		}
		if len(genreValues) == 0 {
			genreValues = in.ParentEpisode.Genres
		}
	case in.ParentShow != nil:
		keywordValues, genreValues = in.ParentShow.Keywords, in.ParentShow.Genres
	default:
		keywordValues, genreValues = in.Tags, in.Genres
	}

	entity.Tags = gatherValues(keywordValues, s.opts.TagsFromKeywords, genreValues, s.opts.TagsFromGenres)
	entity.Genres = gatherValues(keywordValues, s.opts.GenresFromKeywords, genreValues, s.opts.GenresFromGenres)
}

func gatherValues(keywords []string, useKeywords bool, genres []string, useGenres bool) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(values []string) {
		for _, v := range values {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			key := strings.ToLower(v)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, v)
		}
	}
	if useKeywords {
		add(keywords)
	}
	if useGenres {
		add(genres)
	}
	return out
}

// applyFacts merges runtime, air date, and community rating. The native
// runtime is only a fallback when a bound movie omits its own.
func (s *Synthesizer) applyFacts(entity *EntityInfo, in Input) {
	switch {
	case in.Movie != nil:
		entity.RuntimeMinutes = in.Movie.RuntimeMinutes
		if entity.RuntimeMinutes == 0 {
			entity.RuntimeMinutes = in.Native.RuntimeMinutes
		}
		entity.AiredAt = in.Movie.AiredAt
		entity.CommunityRating = in.Movie.Rating
	case in.ParentEpisode != nil:
		entity.RuntimeMinutes = in.ParentEpisode.RuntimeMinutes
		if entity.RuntimeMinutes == 0 {
			entity.RuntimeMinutes = in.Native.RuntimeMinutes
		}
		entity.AiredAt = in.ParentEpisode.AiredAt
		entity.CommunityRating = in.ParentEpisode.Rating
	case in.ParentShow != nil:
		entity.RuntimeMinutes = in.Native.RuntimeMinutes
		entity.AiredAt = in.ParentShow.AiredAt
		if entity.AiredAt == nil {
			entity.AiredAt = in.Native.AiredAt
		}
		entity.CommunityRating = in.ParentShow.Rating
		if entity.CommunityRating == 0 {
			entity.CommunityRating = in.Native.Rating
		}
	default:
		entity.RuntimeMinutes = in.Native.RuntimeMinutes
		entity.AiredAt = in.Native.AiredAt
		entity.CommunityRating = in.Native.Rating
	}
}

// applyStaffAndStudios merges cast/crew and the studio/location lists.
// A bound movie supplies its own studios and countries; a bound parent
// episode inherits them from the parent show (episodes rarely carry this
// data); otherwise both derive from the native role list.
func (s *Synthesizer) applyStaffAndStudios(entity *EntityInfo, in Input) {
	locations := make(map[source.Scheme][]string, 2)
	if len(in.ProductionLocations) > 0 {
		locations[source.SchemeNative] = in.ProductionLocations
	}

	switch {
	case in.Movie != nil:
		entity.Staff = SynthesizeStaff(in.Movie.Cast)
		entity.Studios = in.Movie.Studios
		if len(in.Movie.ProductionCountries) > 0 {
			locations[source.SchemeParent] = in.Movie.ProductionCountries
		}
	case in.ParentEpisode != nil:
		entity.Staff = SynthesizeStaff(in.ParentEpisode.Cast)
		if in.ParentShow != nil {
			entity.Studios = in.ParentShow.Studios
			if len(in.ParentShow.ProductionCountries) > 0 {
				locations[source.SchemeParent] = in.ParentShow.ProductionCountries
			}
		}
	case in.ParentShow != nil:
		roles := in.Cast
		if len(roles) == 0 {
			roles = in.Native.Roles
		}
		entity.Staff = SynthesizeStaff(roles)
		entity.Studios = in.ParentShow.Studios
		if len(in.ParentShow.ProductionCountries) > 0 {
			locations[source.SchemeParent] = in.ParentShow.ProductionCountries
		}
	default:
		roles := in.Cast
		if len(roles) == 0 {
			roles = in.Native.Roles
		}
		entity.Staff = SynthesizeStaff(roles)
		entity.Studios = StudiosFromRoles(roles)
	}

	if len(locations) > 0 {
		entity.ProductionLocations = locations
	}
}

// applyRatings accumulates content ratings from every applicable source and
// deduplicates by full-field equality, preserving first-encounter order.
func (s *Synthesizer) applyRatings(entity *EntityInfo, in Input) {
	var collected []ContentRating
	switch {
	case in.Movie != nil:
		collected = fromSourceRatings(in.Movie.ContentRatings)
	case in.ParentEpisode != nil:
		if in.ParentShow != nil {
			collected = fromSourceRatings(in.ParentShow.ContentRatings)
		}
	case in.ParentShow != nil:
		collected = fromSourceRatings(in.ParentShow.ContentRatings)
	}
	if in.RatingOverride != nil {
		collected = append(collected, *in.RatingOverride)
	}
	entity.ContentRatings = dedupeRatings(collected)
}

func fromSourceRatings(ratings []source.ContentRating) []ContentRating {
	out := make([]ContentRating, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, ContentRating{
			Rating:   r.Rating,
			Country:  r.Country,
			Language: r.Language,
			Source:   source.SchemeParent,
		})
	}
	return out
}

func dedupeRatings(ratings []ContentRating) []ContentRating {
	if len(ratings) == 0 {
		return nil
	}
	out := make([]ContentRating, 0, len(ratings))
	seen := make(map[ContentRating]struct{}, len(ratings))
	for _, r := range ratings {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

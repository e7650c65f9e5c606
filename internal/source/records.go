package source

import "time"

// Scheme identifies which upstream source a value originated from.
type Scheme string

const (
	// SchemeNative is the anime-focused catalog that owns file-to-episode
	// organization and numbering.
	SchemeNative Scheme = "native"
	// SchemeParent is the movie/TV-oriented catalog that may or may not
	// hold a binding for a given native entity.
	SchemeParent Scheme = "parent"
	// SchemeLocal is the file-organization service that records physical
	// file placement and user overrides.
	SchemeLocal Scheme = "local"
)

// Title is one localized title variant carried by an upstream record.
type Title struct {
	Value    string `json:"value"`
	Language string `json:"language"`
	Type     string `json:"type,omitempty"`
	Default  bool   `json:"default,omitempty"`
}

// Staff identifies a person as known to one upstream source.
type Staff struct {
	Name       string `json:"name"`
	ImageURL   string `json:"image_url,omitempty"`
	ProviderID string `json:"provider_id,omitempty"`
}

// Role binds a staff member to a duty on an entity, optionally naming the
// character portrayed. Type carries the upstream vocabulary verbatim.
type Role struct {
	Type      string `json:"type"`
	Staff     Staff  `json:"staff"`
	Character string `json:"character,omitempty"`
}

// ContentRating is an age/audience classification from one source.
type ContentRating struct {
	Rating   string `json:"rating"`
	Country  string `json:"country,omitempty"`
	Language string `json:"language,omitempty"`
}

// EpisodeRecord is the native catalog's view of a single episode.
type EpisodeRecord struct {
	ID             string     `json:"id"`
	SeriesID       string     `json:"series_id"`
	Type           string     `json:"type,omitempty"`
	Number         int        `json:"number,omitempty"`
	Titles         []Title    `json:"titles,omitempty"`
	Description    string     `json:"description,omitempty"`
	RuntimeMinutes int        `json:"runtime_minutes,omitempty"`
	AiredAt        *time.Time `json:"aired_at,omitempty"`
	Rating         float64    `json:"rating,omitempty"`
}

// SeriesRecord is the native catalog's view of a series.
type SeriesRecord struct {
	ID          string     `json:"id"`
	Titles      []Title    `json:"titles,omitempty"`
	Description string     `json:"description,omitempty"`
	Roles       []Role     `json:"roles,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Rating      float64    `json:"rating,omitempty"`
	AiredAt     *time.Time `json:"aired_at,omitempty"`
}

// Movie is the parent catalog's view of a theatrical or standalone release.
type Movie struct {
	ID                  string          `json:"id"`
	Title               string          `json:"title"`
	Overview            string          `json:"overview,omitempty"`
	RuntimeMinutes      int             `json:"runtime_minutes,omitempty"`
	AiredAt             *time.Time      `json:"aired_at,omitempty"`
	Rating              float64         `json:"rating,omitempty"`
	Cast                []Role          `json:"cast,omitempty"`
	Studios             []string        `json:"studios,omitempty"`
	ProductionCountries []string        `json:"production_countries,omitempty"`
	ContentRatings      []ContentRating `json:"content_ratings,omitempty"`
	Keywords            []string        `json:"keywords,omitempty"`
	Genres              []string        `json:"genres,omitempty"`
}

// Show is the parent catalog's view of a series; it carries the studio,
// location, and rating data its episodes rarely repeat.
type Show struct {
	ID                  string          `json:"id"`
	Title               string          `json:"title"`
	Overview            string          `json:"overview,omitempty"`
	AiredAt             *time.Time      `json:"aired_at,omitempty"`
	Rating              float64         `json:"rating,omitempty"`
	Studios             []string        `json:"studios,omitempty"`
	ProductionCountries []string        `json:"production_countries,omitempty"`
	ContentRatings      []ContentRating `json:"content_ratings,omitempty"`
	Keywords            []string        `json:"keywords,omitempty"`
	Genres              []string        `json:"genres,omitempty"`
}

// ParentEpisode is the parent catalog's view of one episode of a Show.
type ParentEpisode struct {
	ID             string     `json:"id"`
	ShowID         string     `json:"show_id"`
	SeasonNumber   int        `json:"season_number,omitempty"`
	EpisodeNumber  int        `json:"episode_number,omitempty"`
	Title          string     `json:"title,omitempty"`
	Overview       string     `json:"overview,omitempty"`
	RuntimeMinutes int        `json:"runtime_minutes,omitempty"`
	AiredAt        *time.Time `json:"aired_at,omitempty"`
	Rating         float64    `json:"rating,omitempty"`
	Cast           []Role     `json:"cast,omitempty"`
	Keywords       []string   `json:"keywords,omitempty"`
	Genres         []string   `json:"genres,omitempty"`
}

// RawCrossReference is one recorded binding between a physical file and an
// episode, as reported by the local organization service. A file may carry
// several, possibly from more than one ID scheme.
type RawCrossReference struct {
	LocalEpisodeID  string  `json:"local_episode_id,omitempty"`
	NativeEpisodeID string  `json:"native_episode_id"`
	ParentEpisodeID string  `json:"parent_episode_id,omitempty"`
	Hash            string  `json:"hash"`
	Size            int64   `json:"size"`
	PercentStart    float64 `json:"percent_start,omitempty"`
	PercentEnd      float64 `json:"percent_end,omitempty"`
	Group           int     `json:"group,omitempty"`
	GroupCount      *int    `json:"group_count,omitempty"`
}

// FileRecord is the local service's view of one physical media file.
type FileRecord struct {
	ID              string              `json:"id"`
	Path            string              `json:"path,omitempty"`
	Hash            string              `json:"hash"`
	Size            int64               `json:"size"`
	CrossReferences []RawCrossReference `json:"cross_references,omitempty"`
}

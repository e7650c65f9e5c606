package library

import (
	"context"
	"slices"
	"time"
)

// Kind classifies an item within the library tree.
type Kind string

const (
	KindCollection Kind = "collection"
	KindMovie      Kind = "movie"
	KindShow       Kind = "show"
	KindSeason     Kind = "season"
	KindEpisode    Kind = "episode"
	KindVideo      Kind = "video"
)

// Field names a user may lock against refresh overwrites. The orchestrator
// skips any locked field when applying synthesized metadata.
const (
	FieldName           = "Name"
	FieldOverview       = "Overview"
	FieldGenres         = "Genres"
	FieldTags           = "Tags"
	FieldStudios        = "Studios"
	FieldOfficialRating = "OfficialRating"
	FieldPremiereDate   = "PremiereDate"
	FieldCast           = "Cast"
	FieldImages         = "Images"
)

// Person is one cast or crew credit attached to an item.
type Person struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Role       string `json:"role,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
	ProviderID string `json:"provider_id,omitempty"`
}

// Image is one artwork reference. Order carries the user's preferred
// ordering within an image kind.
type Image struct {
	URL   string `json:"url"`
	Kind  string `json:"kind"`
	Order int    `json:"order"`
}

// ContentRating is the audience classification stored on an item.
type ContentRating struct {
	Rating  string `json:"rating"`
	Country string `json:"country,omitempty"`
}

// Item is one node of the library tree.
type Item struct {
	ID       string
	ParentID string
	Kind     Kind

	Name             string
	Overview         string
	OriginalLanguage string
	RuntimeMinutes   int
	PremiereDate     *time.Time
	EndDate          *time.Time
	CommunityRating  float64
	OfficialRating   string
	IndexNumber      int
	Path             string

	Genres              []string
	Tags                []string
	Studios             []string
	ProductionLocations []string
	ContentRatings      []ContentRating
	People              []Person
	Images              []Image

	// ProviderIDs maps an external scheme name to the item's id in that
	// scheme. An empty map means the item was never matched upstream.
	ProviderIDs map[string]string

	LockedFields []string
	IsVirtual    bool

	LastRefreshedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsFieldLocked reports whether the user locked the named field.
func (i *Item) IsFieldLocked(field string) bool {
	return i != nil && slices.Contains(i.LockedFields, field)
}

// ProviderID returns the item's id in the given scheme, empty when unmatched.
func (i *Item) ProviderID(scheme string) string {
	if i == nil || i.ProviderIDs == nil {
		return ""
	}
	return i.ProviderIDs[scheme]
}

// Query filters index lookups. Zero values mean "any".
type Query struct {
	Kind           Kind
	ProviderScheme string
	IncludeVirtual bool
}

// Index is the orchestrator's read view of the library tree. Lookups for
// unknown ids return (nil, nil).
type Index interface {
	Get(ctx context.Context, id string) (*Item, error)
	Children(ctx context.Context, parentID string) ([]*Item, error)
	Extras(ctx context.Context, ownerID string) ([]*Item, error)
	AlternateVersions(ctx context.Context, id string) ([]*Item, error)
	Find(ctx context.Context, q Query) ([]*Item, error)
}

// Saver persists item mutations made by a refresh pass.
type Saver interface {
	Save(ctx context.Context, item *Item) error
}

package synthesis

import (
	"time"

	"medley/internal/source"
	"medley/internal/xref"
)

// StructureType tags which ID scheme defines episode/season numbering for an
// entity.
type StructureType string

const (
	// StructureNative numbers entities by the native catalog's scheme.
	StructureNative StructureType = "native"
	// StructureParent numbers entities by the parent catalog's scheme.
	StructureParent StructureType = "parent"
)

// TextEntry is one localized title or overview variant with its provenance.
type TextEntry struct {
	Value     string
	Language  string
	Source    source.Scheme
	Default   bool
	Preferred bool
}

// ContentRating is an audience classification with full provenance.
// Equality is defined over all four fields.
type ContentRating struct {
	Rating   string
	Country  string
	Language string
	Source   source.Scheme
}

// PersonKind is the fixed staff vocabulary synthesized entities use.
type PersonKind string

const (
	PersonDirector PersonKind = "Director"
	PersonProducer PersonKind = "Producer"
	PersonLyricist PersonKind = "Lyricist"
	PersonWriter   PersonKind = "Writer"
	PersonComposer PersonKind = "Composer"
	PersonActor    PersonKind = "Actor"
)

// StaffEntry is one synthesized cast/crew member. Role carries the joined
// character display string for actors voicing multiple roles.
type StaffEntry struct {
	Kind       PersonKind
	Name       string
	Role       string
	ImageURL   string
	ProviderID string
}

// EntityInfo is the canonical reconciled record for one entity. It is
// constructed fresh on every synthesis pass and superseded wholesale on the
// next; callers must not mutate it.
type EntityInfo struct {
	ID          string
	ParentID    string
	ExternalIDs map[source.Scheme]string
	Structure   StructureType

	Title  string
	Titles []TextEntry

	Overview  string
	Overviews []TextEntry

	OriginalLanguage string
	RuntimeMinutes   int
	AiredAt          *time.Time
	CommunityRating  float64

	Genres  []string
	Tags    []string
	Studios []string

	ProductionLocations map[source.Scheme][]string
	ContentRatings      []ContentRating
	Staff               []StaffEntry

	CrossReferences []xref.CrossReference
}

// IsAvailable reports whether any file justifies the entity's existence.
// Unavailable entities are excluded from refresh and display.
func (e *EntityInfo) IsAvailable() bool {
	return e != nil && len(e.CrossReferences) > 0
}

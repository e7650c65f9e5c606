package refresh

import (
	"fmt"
	"strings"
)

// FieldSet selects which independent field groups a refresh applies.
// Applying one group never reads or writes fields owned by another.
type FieldSet uint16

const (
	// FieldTitles covers the display name, overview, and original language.
	FieldTitles FieldSet = 1 << iota
	// FieldDates covers premiere/end dates and runtime.
	FieldDates
	// FieldTagsGenres covers the tag and genre lists.
	FieldTagsGenres
	// FieldStudios covers studios and production locations.
	FieldStudios
	// FieldContentRatings covers the official rating and the full rating list.
	FieldContentRatings
	// FieldImages covers artwork references.
	FieldImages
	// FieldImageOrder covers the preferred artwork ordering.
	FieldImageOrder
	// FieldCast covers the people list.
	FieldCast
	// FieldCustom invokes the pluggable custom hook.
	FieldCustom
	// FieldLegacy requests the host-native full refresh instead of
	// field-scoped application.
	FieldLegacy
)

// AllFields enables every field-scoped group; the legacy escape hatch stays
// off.
const AllFields = FieldTitles | FieldDates | FieldTagsGenres | FieldStudios |
	FieldContentRatings | FieldImages | FieldImageOrder | FieldCast | FieldCustom

var fieldNames = []struct {
	field FieldSet
	name  string
}{
	{FieldTitles, "titles"},
	{FieldDates, "dates"},
	{FieldTagsGenres, "tags-genres"},
	{FieldStudios, "studios"},
	{FieldContentRatings, "content-ratings"},
	{FieldImages, "images"},
	{FieldImageOrder, "image-order"},
	{FieldCast, "cast"},
	{FieldCustom, "custom"},
	{FieldLegacy, "legacy"},
}

// Has reports whether every group in other is enabled.
func (f FieldSet) Has(other FieldSet) bool {
	return f&other == other
}

// With returns f with the given groups enabled.
func (f FieldSet) With(other FieldSet) FieldSet {
	return f | other
}

// Without returns f with the given groups disabled.
func (f FieldSet) Without(other FieldSet) FieldSet {
	return f &^ other
}

// Names lists the enabled group names in application order.
func (f FieldSet) Names() []string {
	var names []string
	for _, entry := range fieldNames {
		if f.Has(entry.field) {
			names = append(names, entry.name)
		}
	}
	return names
}

// String renders the set for logs and CLI output.
func (f FieldSet) String() string {
	names := f.Names()
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// ParseFields builds a FieldSet from group names. "all" enables every
// field-scoped group.
func ParseFields(names []string) (FieldSet, error) {
	var set FieldSet
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if name == "all" {
			set = set.With(AllFields)
			continue
		}
		matched := false
		for _, entry := range fieldNames {
			if entry.name == name {
				set = set.With(entry.field)
				matched = true
				break
			}
		}
		if !matched {
			return 0, fmt.Errorf("unknown field group %q", raw)
		}
	}
	return set, nil
}

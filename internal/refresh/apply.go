package refresh

import (
	"slices"
	"sort"
	"time"

	"medley/internal/library"
	"medley/internal/provider"
)

// CustomHook is the pluggable per-item group invoked between images and
// cast. It reports whether it changed the item.
type CustomHook func(item *library.Item, metadata *library.Item) bool

// applyGroups copies the enabled field groups from the lookup result onto
// the item in a fixed, group-isolated order and returns the names of the
// groups that actually changed something. Locked fields are never
// overwritten regardless of diff outcome.
func applyGroups(item *library.Item, res provider.Result, fields FieldSet, custom CustomHook) []string {
	src := res.Item
	if src == nil {
		return nil
	}

	var changed []string
	record := func(name string, did bool) {
		if did {
			changed = append(changed, name)
		}
	}

	if fields.Has(FieldTitles) {
		record("titles", applyTitles(item, src))
	}
	if fields.Has(FieldDates) {
		record("dates", applyDates(item, src))
	}
	if fields.Has(FieldTagsGenres) {
		record("tags-genres", applyTagsGenres(item, src))
	}
	if fields.Has(FieldStudios) {
		record("studios", applyStudios(item, src))
	}
	if fields.Has(FieldContentRatings) {
		record("content-ratings", applyContentRatings(item, src))
	}
	if fields.Has(FieldImages) {
		record("images", applyImages(item, src))
	}
	if fields.Has(FieldImageOrder) {
		record("image-order", applyImageOrder(item))
	}
	if fields.Has(FieldCustom) && custom != nil {
		record("custom", custom(item, src))
	}
	if fields.Has(FieldCast) {
		record("cast", applyCast(item, res.People))
	}

	if len(changed) > 0 {
		mergeProviderIDs(item, src)
	}
	return changed
}

func applyTitles(item, src *library.Item) bool {
	changed := false
	if src.Name != "" && src.Name != item.Name && !item.IsFieldLocked(library.FieldName) {
		item.Name = src.Name
		changed = true
	}
	if src.Overview != "" && src.Overview != item.Overview && !item.IsFieldLocked(library.FieldOverview) {
		item.Overview = src.Overview
		changed = true
	}
	if src.OriginalLanguage != "" && src.OriginalLanguage != item.OriginalLanguage {
		item.OriginalLanguage = src.OriginalLanguage
		changed = true
	}
	return changed
}

func applyDates(item, src *library.Item) bool {
	changed := false
	if !equalTime(item.PremiereDate, src.PremiereDate) && src.PremiereDate != nil && !item.IsFieldLocked(library.FieldPremiereDate) {
		item.PremiereDate = src.PremiereDate
		changed = true
	}
	if src.EndDate != nil && !equalTime(item.EndDate, src.EndDate) {
		item.EndDate = src.EndDate
		changed = true
	}
	if src.RuntimeMinutes != 0 && src.RuntimeMinutes != item.RuntimeMinutes {
		item.RuntimeMinutes = src.RuntimeMinutes
		changed = true
	}
	if src.CommunityRating != 0 && src.CommunityRating != item.CommunityRating {
		item.CommunityRating = src.CommunityRating
		changed = true
	}
	return changed
}

func applyTagsGenres(item, src *library.Item) bool {
	changed := false
	if !slices.Equal(item.Genres, src.Genres) && !item.IsFieldLocked(library.FieldGenres) {
		item.Genres = src.Genres
		changed = true
	}
	if !slices.Equal(item.Tags, src.Tags) && !item.IsFieldLocked(library.FieldTags) {
		item.Tags = src.Tags
		changed = true
	}
	return changed
}

func applyStudios(item, src *library.Item) bool {
	changed := false
	if !slices.Equal(item.Studios, src.Studios) && !item.IsFieldLocked(library.FieldStudios) {
		item.Studios = src.Studios
		changed = true
	}
	if !slices.Equal(item.ProductionLocations, src.ProductionLocations) {
		item.ProductionLocations = src.ProductionLocations
		changed = true
	}
	return changed
}

func applyContentRatings(item, src *library.Item) bool {
	changed := false
	if src.OfficialRating != "" && src.OfficialRating != item.OfficialRating && !item.IsFieldLocked(library.FieldOfficialRating) {
		item.OfficialRating = src.OfficialRating
		changed = true
	}
	if !slices.Equal(item.ContentRatings, src.ContentRatings) {
		item.ContentRatings = src.ContentRatings
		changed = true
	}
	return changed
}

func applyImages(item, src *library.Item) bool {
	if len(src.Images) == 0 || item.IsFieldLocked(library.FieldImages) {
		return false
	}
	if slices.Equal(item.Images, src.Images) {
		return false
	}
	item.Images = src.Images
	return true
}

// applyImageOrder restores the preferred ordering within each image kind.
func applyImageOrder(item *library.Item) bool {
	if len(item.Images) < 2 || item.IsFieldLocked(library.FieldImages) {
		return false
	}
	ordered := slices.Clone(item.Images)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Kind != ordered[j].Kind {
			return ordered[i].Kind < ordered[j].Kind
		}
		return ordered[i].Order < ordered[j].Order
	})
	if slices.Equal(item.Images, ordered) {
		return false
	}
	item.Images = ordered
	return true
}

func applyCast(item *library.Item, people []library.Person) bool {
	if item.IsFieldLocked(library.FieldCast) {
		return false
	}
	if slices.Equal(item.People, people) {
		return false
	}
	item.People = people
	return true
}

// mergeProviderIDs keeps the item's scheme map current without dropping ids
// the lookup didn't resolve this time.
func mergeProviderIDs(item, src *library.Item) {
	if len(src.ProviderIDs) == 0 {
		return
	}
	if item.ProviderIDs == nil {
		item.ProviderIDs = make(map[string]string, len(src.ProviderIDs))
	}
	for scheme, id := range src.ProviderIDs {
		if id != "" {
			item.ProviderIDs[scheme] = id
		}
	}
}

func equalTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

package provider

import (
	"medley/internal/library"
	"medley/internal/source"
	"medley/internal/synthesis"
)

// Result is one metadata lookup outcome. Found false means no upstream
// record backs the item; Item is a detached template the orchestrator copies
// field groups from, never a row in the index.
type Result struct {
	Found  bool
	Item   *library.Item
	People []library.Person
}

func itemFromEntity(kind library.Kind, entity *synthesis.EntityInfo) (*library.Item, []library.Person) {
	item := &library.Item{
		Kind:             kind,
		Name:             entity.Title,
		Overview:         entity.Overview,
		OriginalLanguage: entity.OriginalLanguage,
		RuntimeMinutes:   entity.RuntimeMinutes,
		PremiereDate:     entity.AiredAt,
		CommunityRating:  entity.CommunityRating,
		Genres:           entity.Genres,
		Tags:             entity.Tags,
		Studios:          entity.Studios,
	}

	if len(entity.ProductionLocations) > 0 {
		item.ProductionLocations = flattenLocations(entity.ProductionLocations)
	}
	if len(entity.ContentRatings) > 0 {
		item.OfficialRating = entity.ContentRatings[0].Rating
		item.ContentRatings = make([]library.ContentRating, 0, len(entity.ContentRatings))
		for _, r := range entity.ContentRatings {
			item.ContentRatings = append(item.ContentRatings, library.ContentRating{
				Rating:  r.Rating,
				Country: r.Country,
			})
		}
	}
	if len(entity.ExternalIDs) > 0 {
		item.ProviderIDs = make(map[string]string, len(entity.ExternalIDs))
		for scheme, id := range entity.ExternalIDs {
			item.ProviderIDs[string(scheme)] = id
		}
	}

	people := make([]library.Person, 0, len(entity.Staff))
	for _, s := range entity.Staff {
		people = append(people, library.Person{
			Name:       s.Name,
			Kind:       string(s.Kind),
			Role:       s.Role,
			ImageURL:   s.ImageURL,
			ProviderID: s.ProviderID,
		})
	}
	return item, people
}

// flattenLocations merges per-scheme location lists, parent catalog first,
// dropping duplicates.
func flattenLocations(locations map[source.Scheme][]string) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(values []string) {
		for _, v := range values {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	add(locations[source.SchemeParent])
	add(locations[source.SchemeNative])
	add(locations[source.SchemeLocal])
	return out
}

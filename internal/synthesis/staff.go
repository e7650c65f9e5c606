package synthesis

import (
	"sort"
	"strings"

	"medley/internal/source"
)

// roleKinds maps the upstream role-type vocabulary onto the fixed staff
// vocabulary. Role types absent from this table produce no staff entry.
var roleKinds = map[string]PersonKind{
	"director":       PersonDirector,
	"direction":      PersonDirector,
	"producer":       PersonProducer,
	"lyricist":       PersonLyricist,
	"song lyrics":    PersonLyricist,
	"writer":         PersonWriter,
	"script":         PersonWriter,
	"source work":    PersonWriter,
	"composer":       PersonComposer,
	"music":          PersonComposer,
	"actor":          PersonActor,
	"voice actor":    PersonActor,
	"seiyuu":         PersonActor,
	"guest star":     PersonActor,
	"studio":         "", // feeds the studio list, never staff
	"animation work": "",
}

const characterSeparator = " / "

type roleGroupKey struct {
	roleType string
	identity string
}

// SynthesizeStaff groups raw roles by (role-type, staff identity) and emits
// one entry per group. When a group carries multiple character names (a
// voice actor playing several roles) the names are sorted and joined into
// one display string. Unrecognized role types are silently dropped.
func SynthesizeStaff(roles []source.Role) []StaffEntry {
	type group struct {
		first      source.Role
		characters []string
	}

	order := make([]roleGroupKey, 0, len(roles))
	groups := make(map[roleGroupKey]*group, len(roles))

	for _, role := range roles {
		roleType := strings.ToLower(strings.TrimSpace(role.Type))
		kind, known := roleKinds[roleType]
		if !known || kind == "" {
			continue
		}
		identity := role.Staff.ProviderID
		if identity == "" {
			identity = strings.ToLower(strings.TrimSpace(role.Staff.Name))
		}
		if identity == "" {
			continue
		}
		key := roleGroupKey{roleType: roleType, identity: identity}
		g, ok := groups[key]
		if !ok {
			g = &group{first: role}
			groups[key] = g
			order = append(order, key)
		}
		if character := strings.TrimSpace(role.Character); character != "" {
			g.characters = append(g.characters, character)
		}
	}

	entries := make([]StaffEntry, 0, len(order))
	for _, key := range order {
		g := groups[key]
		entries = append(entries, StaffEntry{
			Kind:       roleKinds[key.roleType],
			Name:       g.first.Staff.Name,
			Role:       joinCharacters(g.characters),
			ImageURL:   g.first.Staff.ImageURL,
			ProviderID: g.first.Staff.ProviderID,
		})
	}
	return entries
}

func joinCharacters(characters []string) string {
	switch len(characters) {
	case 0:
		return ""
	case 1:
		return characters[0]
	}
	unique := make([]string, 0, len(characters))
	seen := make(map[string]struct{}, len(characters))
	for _, c := range characters {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		unique = append(unique, c)
	}
	sort.Strings(unique)
	return strings.Join(unique, characterSeparator)
}

// StudiosFromRoles extracts the studio list from a native role set: the
// staff names of roles typed as studio/animation-work, first occurrence wins.
func StudiosFromRoles(roles []source.Role) []string {
	var studios []string
	seen := make(map[string]struct{})
	for _, role := range roles {
		roleType := strings.ToLower(strings.TrimSpace(role.Type))
		if roleType != "studio" && roleType != "animation work" {
			continue
		}
		name := strings.TrimSpace(role.Staff.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		studios = append(studios, name)
	}
	return studios
}

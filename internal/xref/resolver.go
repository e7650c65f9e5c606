package xref

import (
	"context"

	"medley/internal/source"
)

// EpisodeLookup supplies native episode records to the resolver. Absence is
// reported as (nil, nil).
type EpisodeLookup interface {
	EpisodeByNativeID(ctx context.Context, id string) (*source.EpisodeRecord, error)
}

// Resolved is one file-to-episode resolution tuple. ID is the identifier
// that downstream synthesis should key the entity on: the parent-catalog
// episode identifier when bound, otherwise the native identifier.
type Resolved struct {
	Episode *source.EpisodeRecord
	Ref     CrossReference
	ID      string
}

// Resolver matches file records to episodes across ID schemes.
type Resolver struct {
	episodes EpisodeLookup
}

// NewResolver builds a resolver over the given episode lookup.
func NewResolver(episodes EpisodeLookup) *Resolver {
	return &Resolver{episodes: episodes}
}

// ResolveFile produces the ordered resolution tuples for one file. A file
// whose references all fail to resolve (or that has none after dedup) yields
// an empty slice: absence of a mapping is a valid terminal state.
func (r *Resolver) ResolveFile(ctx context.Context, file *source.FileRecord) ([]Resolved, error) {
	if file == nil {
		return nil, nil
	}
	refs := Dedupe(file.CrossReferences)
	if len(refs) == 0 {
		return nil, nil
	}

	resolved := make([]Resolved, 0, len(refs))
	for _, ref := range refs {
		if ref.NativeEpisodeID == "" {
			continue
		}
		episode, err := r.episodes.EpisodeByNativeID(ctx, ref.NativeEpisodeID)
		if err != nil {
			return nil, err
		}
		if episode == nil {
			continue
		}
		id := ref.NativeEpisodeID
		if ref.ParentEpisodeID != "" {
			id = ref.ParentEpisodeID
		}
		resolved = append(resolved, Resolved{Episode: episode, Ref: ref, ID: id})
	}
	sortResolved(resolved)
	return resolved, nil
}

package provider

import (
	"context"
	"log/slog"
	"sync"

	csmap "github.com/mhmtszr/concurrent-swiss-map"

	"medley/internal/library"
	"medley/internal/logging"
	"medley/internal/services"
	"medley/internal/source"
	"medley/internal/synthesis"
	"medley/internal/xref"
)

// Metadata is the per-kind lookup contract the orchestrator consumes.
type Metadata interface {
	Lookup(ctx context.Context, item *library.Item) (Result, error)
}

// MetadataFunc adapts a function to the Metadata interface.
type MetadataFunc func(ctx context.Context, item *library.Item) (Result, error)

// Lookup implements Metadata.
func (f MetadataFunc) Lookup(ctx context.Context, item *library.Item) (Result, error) {
	return f(ctx, item)
}

// Service synthesizes canonical metadata for library items from upstream
// records. One lookup method exists per library kind; all of them share the
// entity cache, which lives until InvalidateCache swaps it out.
type Service struct {
	client   Client
	syn      *synthesis.Synthesizer
	resolver *xref.Resolver
	locale   string
	logger   *slog.Logger

	mu       sync.Mutex
	entities *csmap.CsMap[string, *synthesis.EntityInfo]
}

// NewService builds a metadata service over the given client and synthesizer.
func NewService(client Client, syn *synthesis.Synthesizer, locale string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		client:   client,
		syn:      syn,
		resolver: xref.NewResolver(client),
		locale:   locale,
		logger:   logger.With(logging.FieldComponent, "provider"),
		entities: csmap.Create[string, *synthesis.EntityInfo](),
	}
}

// InvalidateCache discards every cached entity. Called alongside the pass
// reset so a stalled refresh sees fresh upstream state.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	s.entities = csmap.Create[string, *synthesis.EntityInfo]()
	s.mu.Unlock()
}

func (s *Service) cache() *csmap.CsMap[string, *synthesis.EntityInfo] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entities
}

// Movie returns the movie-kind lookup.
func (s *Service) Movie() Metadata { return MetadataFunc(s.lookupMovie) }

// Show returns the show-kind lookup.
func (s *Service) Show() Metadata { return MetadataFunc(s.lookupSeries(library.KindShow)) }

// Season returns the season-kind lookup.
func (s *Service) Season() Metadata { return MetadataFunc(s.lookupSeries(library.KindSeason)) }

// Collection returns the collection-kind lookup.
func (s *Service) Collection() Metadata { return MetadataFunc(s.lookupSeries(library.KindCollection)) }

// Episode returns the episode-kind lookup.
func (s *Service) Episode() Metadata { return MetadataFunc(s.lookupEpisode(library.KindEpisode)) }

// Video returns the extras/video-kind lookup.
func (s *Service) Video() Metadata { return MetadataFunc(s.lookupEpisode(library.KindVideo)) }

// ResolveFile maps one local file to its episodes across ID schemes.
func (s *Service) ResolveFile(ctx context.Context, localFileID string) ([]xref.Resolved, error) {
	file, err := s.client.FileByLocalID(ctx, localFileID)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstream, "provider", "resolve-file", "fetch file record", err)
	}
	if file == nil {
		return nil, nil
	}
	resolved, err := s.resolver.ResolveFile(ctx, file)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstream, "provider", "resolve-file", "resolve cross references", err)
	}
	return resolved, nil
}

func (s *Service) lookupMovie(ctx context.Context, item *library.Item) (Result, error) {
	entity, err := s.movieEntity(ctx, item)
	if err != nil || entity == nil {
		return Result{}, err
	}
	if !entity.IsAvailable() {
		s.logger.Debug("movie has no backing files", logging.FieldItemID, item.ID)
		return Result{}, nil
	}
	mapped, people := itemFromEntity(library.KindMovie, entity)
	return Result{Found: true, Item: mapped, People: people}, nil
}

func (s *Service) movieEntity(ctx context.Context, item *library.Item) (*synthesis.EntityInfo, error) {
	if entity, ok := s.cache().Load(item.ID); ok {
		return entity, nil
	}
	nativeID := item.ProviderID(string(source.SchemeNative))
	if nativeID == "" {
		return nil, nil
	}

	series, err := s.client.SeriesByID(ctx, nativeID)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstream, "provider", "movie", "fetch series", err)
	}
	if series == nil {
		return nil, nil
	}
	episodes, err := s.client.EpisodesBySeries(ctx, nativeID)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstream, "provider", "movie", "fetch episodes", err)
	}

	main := mainEntry(episodes, s.locale)
	refs, err := s.episodeRefs(ctx, main)
	if err != nil {
		return nil, err
	}

	var movie *source.Movie
	if parentID := item.ProviderID(string(source.SchemeParent)); parentID != "" {
		movie, err = s.client.MovieByID(ctx, parentID)
		if err != nil {
			return nil, services.Wrap(services.ErrUpstream, "provider", "movie", "fetch parent movie", err)
		}
	}

	native := synthesis.NativeFromSeries(series)
	if main != nil {
		native = synthesis.NativeFromEpisode(main, series)
		// Series-level titles and identity name the movie; the episode is
		// usually the generic placeholder entry.
		native.Titles = series.Titles
		native.ID = series.ID
	}

	entity := s.syn.Synthesize(synthesis.Input{
		ID:              item.ID,
		Structure:       synthesis.StructureNative,
		Native:          native,
		Tags:            series.Tags,
		Movie:           movie,
		CrossReferences: refs,
	})
	s.cache().Store(item.ID, entity)
	return entity, nil
}

func (s *Service) lookupSeries(kind library.Kind) func(ctx context.Context, item *library.Item) (Result, error) {
	return func(ctx context.Context, item *library.Item) (Result, error) {
		if entity, ok := s.cache().Load(item.ID); ok {
			return resultFromEntity(kind, entity), nil
		}
		nativeID := item.ProviderID(string(source.SchemeNative))
		if nativeID == "" {
			return Result{}, nil
		}

		series, err := s.client.SeriesByID(ctx, nativeID)
		if err != nil {
			return Result{}, services.Wrap(services.ErrUpstream, "provider", string(kind), "fetch series", err)
		}
		if series == nil {
			return Result{}, nil
		}

		var show *source.Show
		if parentID := item.ProviderID(string(source.SchemeParent)); parentID != "" {
			show, err = s.client.ShowByID(ctx, parentID)
			if err != nil {
				return Result{}, services.Wrap(services.ErrUpstream, "provider", string(kind), "fetch parent show", err)
			}
		}

		refs, err := s.seriesRefs(ctx, nativeID)
		if err != nil {
			return Result{}, err
		}

		entity := s.syn.Synthesize(synthesis.Input{
			ID:              item.ID,
			ParentID:        item.ParentID,
			Structure:       synthesis.StructureNative,
			Native:          synthesis.NativeFromSeries(series),
			Tags:            series.Tags,
			ParentShow:      show,
			CrossReferences: refs,
		})
		s.cache().Store(item.ID, entity)
		return resultFromEntity(kind, entity), nil
	}
}

func (s *Service) lookupEpisode(kind library.Kind) func(ctx context.Context, item *library.Item) (Result, error) {
	return func(ctx context.Context, item *library.Item) (Result, error) {
		entity, err := s.episodeEntity(ctx, item)
		if err != nil || entity == nil {
			return Result{}, err
		}
		if !entity.IsAvailable() {
			s.logger.Debug("episode has no backing files",
				logging.FieldItemID, item.ID, logging.FieldKind, string(kind))
			return Result{}, nil
		}
		mapped, people := itemFromEntity(kind, entity)
		mapped.IndexNumber = item.IndexNumber
		return Result{Found: true, Item: mapped, People: people}, nil
	}
}

func (s *Service) episodeEntity(ctx context.Context, item *library.Item) (*synthesis.EntityInfo, error) {
	if entity, ok := s.cache().Load(item.ID); ok {
		return entity, nil
	}
	nativeID := item.ProviderID(string(source.SchemeNative))
	if nativeID == "" {
		return nil, nil
	}

	episode, err := s.client.EpisodeByNativeID(ctx, nativeID)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstream, "provider", "episode", "fetch episode", err)
	}
	if episode == nil {
		return nil, nil
	}

	var series *source.SeriesRecord
	if episode.SeriesID != "" {
		series, err = s.client.SeriesByID(ctx, episode.SeriesID)
		if err != nil {
			return nil, services.Wrap(services.ErrUpstream, "provider", "episode", "fetch series", err)
		}
	}

	refs, err := s.episodeRefs(ctx, episode)
	if err != nil {
		return nil, err
	}

	// A parent binding on an episode may point at either a movie (a
	// standalone release) or a show episode; the movie wins when both
	// schemes know the id.
	var (
		movie         *source.Movie
		parentEpisode *source.ParentEpisode
		parentShow    *source.Show
	)
	if parentID := item.ProviderID(string(source.SchemeParent)); parentID != "" {
		movie, err = s.client.MovieByID(ctx, parentID)
		if err != nil {
			return nil, services.Wrap(services.ErrUpstream, "provider", "episode", "fetch parent movie", err)
		}
		if movie == nil {
			parentEpisode, err = s.client.ParentEpisodeByID(ctx, parentID)
			if err != nil {
				return nil, services.Wrap(services.ErrUpstream, "provider", "episode", "fetch parent episode", err)
			}
			if parentEpisode != nil && parentEpisode.ShowID != "" {
				parentShow, err = s.client.ShowByID(ctx, parentEpisode.ShowID)
				if err != nil {
					return nil, services.Wrap(services.ErrUpstream, "provider", "episode", "fetch parent show", err)
				}
			}
		}
	}

	structure := synthesis.StructureNative
	if parentEpisode != nil {
		structure = synthesis.StructureParent
	}
	entity := s.syn.Synthesize(synthesis.Input{
		ID:              item.ID,
		ParentID:        item.ParentID,
		Structure:       structure,
		Native:          synthesis.NativeFromEpisode(episode, series),
		Movie:           movie,
		ParentEpisode:   parentEpisode,
		ParentShow:      parentShow,
		CrossReferences: refs,
	})
	s.cache().Store(item.ID, entity)
	return entity, nil
}

func (s *Service) episodeRefs(ctx context.Context, episode *source.EpisodeRecord) ([]xref.CrossReference, error) {
	if episode == nil {
		return nil, nil
	}
	raw, err := s.client.CrossReferencesForEpisode(ctx, episode.ID)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstream, "provider", "episode", "fetch cross references", err)
	}
	return xref.Dedupe(raw), nil
}

func (s *Service) seriesRefs(ctx context.Context, seriesID string) ([]xref.CrossReference, error) {
	episodes, err := s.client.EpisodesBySeries(ctx, seriesID)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstream, "provider", "series", "fetch episodes", err)
	}
	var refs []xref.CrossReference
	for i := range episodes {
		epRefs, err := s.episodeRefs(ctx, &episodes[i])
		if err != nil {
			return nil, err
		}
		refs = append(refs, epRefs...)
	}
	return refs, nil
}

func resultFromEntity(kind library.Kind, entity *synthesis.EntityInfo) Result {
	if entity == nil {
		return Result{}
	}
	mapped, people := itemFromEntity(kind, entity)
	return Result{Found: true, Item: mapped, People: people}
}

// mainEntry picks the episode whose display title is a generic placeholder,
// falling back to the first episode.
func mainEntry(episodes []source.EpisodeRecord, locale string) *source.EpisodeRecord {
	for i := range episodes {
		if xref.IsMainEntry(&episodes[i], locale) {
			return &episodes[i]
		}
	}
	if len(episodes) > 0 {
		return &episodes[0]
	}
	return nil
}

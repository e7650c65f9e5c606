package provider

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"medley/internal/source"
)

// Client fetches decoded upstream records. Every method reports a missing
// record as (nil, nil); errors are reserved for transport and decode
// failures.
type Client interface {
	SeriesByID(ctx context.Context, id string) (*source.SeriesRecord, error)
	EpisodeByNativeID(ctx context.Context, id string) (*source.EpisodeRecord, error)
	EpisodesBySeries(ctx context.Context, seriesID string) ([]source.EpisodeRecord, error)
	MovieByID(ctx context.Context, id string) (*source.Movie, error)
	ShowByID(ctx context.Context, id string) (*source.Show, error)
	ParentEpisodeByID(ctx context.Context, id string) (*source.ParentEpisode, error)
	FileByLocalID(ctx context.Context, id string) (*source.FileRecord, error)
	CrossReferencesForEpisode(ctx context.Context, nativeEpisodeID string) ([]source.RawCrossReference, error)
}

// CachingClient memoizes another Client with a TTL cache. Nil results are
// cached too, so repeated lookups of absent records stay cheap.
type CachingClient struct {
	next  Client
	cache *cache.Cache
}

// NewCachingClient wraps next with a TTL cache. A non-positive ttl falls
// back to one hour.
func NewCachingClient(next Client, ttl time.Duration) *CachingClient {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachingClient{
		next:  next,
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func cached[T any](c *CachingClient, ctx context.Context, key string, fetch func(context.Context) (T, error)) (T, error) {
	if v, ok := c.cache.Get(key); ok {
		return v.(T), nil
	}
	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.cache.Set(key, value, cache.DefaultExpiration)
	return value, nil
}

func (c *CachingClient) SeriesByID(ctx context.Context, id string) (*source.SeriesRecord, error) {
	return cached(c, ctx, "series:"+id, func(ctx context.Context) (*source.SeriesRecord, error) {
		return c.next.SeriesByID(ctx, id)
	})
}

func (c *CachingClient) EpisodeByNativeID(ctx context.Context, id string) (*source.EpisodeRecord, error) {
	return cached(c, ctx, "episode:"+id, func(ctx context.Context) (*source.EpisodeRecord, error) {
		return c.next.EpisodeByNativeID(ctx, id)
	})
}

func (c *CachingClient) EpisodesBySeries(ctx context.Context, seriesID string) ([]source.EpisodeRecord, error) {
	return cached(c, ctx, "episodes:"+seriesID, func(ctx context.Context) ([]source.EpisodeRecord, error) {
		return c.next.EpisodesBySeries(ctx, seriesID)
	})
}

func (c *CachingClient) MovieByID(ctx context.Context, id string) (*source.Movie, error) {
	return cached(c, ctx, "movie:"+id, func(ctx context.Context) (*source.Movie, error) {
		return c.next.MovieByID(ctx, id)
	})
}

func (c *CachingClient) ShowByID(ctx context.Context, id string) (*source.Show, error) {
	return cached(c, ctx, "show:"+id, func(ctx context.Context) (*source.Show, error) {
		return c.next.ShowByID(ctx, id)
	})
}

func (c *CachingClient) ParentEpisodeByID(ctx context.Context, id string) (*source.ParentEpisode, error) {
	return cached(c, ctx, "parent-episode:"+id, func(ctx context.Context) (*source.ParentEpisode, error) {
		return c.next.ParentEpisodeByID(ctx, id)
	})
}

func (c *CachingClient) FileByLocalID(ctx context.Context, id string) (*source.FileRecord, error) {
	return cached(c, ctx, "file:"+id, func(ctx context.Context) (*source.FileRecord, error) {
		return c.next.FileByLocalID(ctx, id)
	})
}

func (c *CachingClient) CrossReferencesForEpisode(ctx context.Context, nativeEpisodeID string) ([]source.RawCrossReference, error) {
	return cached(c, ctx, "xrefs:"+nativeEpisodeID, func(ctx context.Context) ([]source.RawCrossReference, error) {
		return c.next.CrossReferencesForEpisode(ctx, nativeEpisodeID)
	})
}

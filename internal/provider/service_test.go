package provider_test

import (
	"context"
	"testing"
	"time"

	"medley/internal/library"
	"medley/internal/provider"
	"medley/internal/source"
	"medley/internal/synthesis"
)

type fakeClient struct {
	series         map[string]*source.SeriesRecord
	episodes       map[string]*source.EpisodeRecord
	episodesBySer  map[string][]source.EpisodeRecord
	movies         map[string]*source.Movie
	shows          map[string]*source.Show
	parentEpisodes map[string]*source.ParentEpisode
	files          map[string]*source.FileRecord
	xrefs          map[string][]source.RawCrossReference

	calls map[string]int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		series:         map[string]*source.SeriesRecord{},
		episodes:       map[string]*source.EpisodeRecord{},
		episodesBySer:  map[string][]source.EpisodeRecord{},
		movies:         map[string]*source.Movie{},
		shows:          map[string]*source.Show{},
		parentEpisodes: map[string]*source.ParentEpisode{},
		files:          map[string]*source.FileRecord{},
		xrefs:          map[string][]source.RawCrossReference{},
		calls:          map[string]int{},
	}
}

func (f *fakeClient) SeriesByID(_ context.Context, id string) (*source.SeriesRecord, error) {
	f.calls["series"]++
	return f.series[id], nil
}

func (f *fakeClient) EpisodeByNativeID(_ context.Context, id string) (*source.EpisodeRecord, error) {
	f.calls["episode"]++
	return f.episodes[id], nil
}

func (f *fakeClient) EpisodesBySeries(_ context.Context, seriesID string) ([]source.EpisodeRecord, error) {
	f.calls["episodes"]++
	return f.episodesBySer[seriesID], nil
}

func (f *fakeClient) MovieByID(_ context.Context, id string) (*source.Movie, error) {
	f.calls["movie"]++
	return f.movies[id], nil
}

func (f *fakeClient) ShowByID(_ context.Context, id string) (*source.Show, error) {
	f.calls["show"]++
	return f.shows[id], nil
}

func (f *fakeClient) ParentEpisodeByID(_ context.Context, id string) (*source.ParentEpisode, error) {
	f.calls["parent-episode"]++
	return f.parentEpisodes[id], nil
}

func (f *fakeClient) FileByLocalID(_ context.Context, id string) (*source.FileRecord, error) {
	f.calls["file"]++
	return f.files[id], nil
}

func (f *fakeClient) CrossReferencesForEpisode(_ context.Context, id string) ([]source.RawCrossReference, error) {
	f.calls["xrefs"]++
	return f.xrefs[id], nil
}

func newService(client provider.Client) *provider.Service {
	syn := synthesis.New(synthesis.Options{
		Locale:           "en",
		TagsFromKeywords: true,
		GenresFromGenres: true,
	})
	return provider.NewService(client, syn, "en", nil)
}

func movieFixture(client *fakeClient) {
	client.series["s1"] = &source.SeriesRecord{
		ID:     "s1",
		Titles: []source.Title{{Value: "Gekijouban", Language: "ja", Default: true}, {Value: "The Film", Language: "en"}},
	}
	client.episodesBySer["s1"] = []source.EpisodeRecord{
		{ID: "e1", SeriesID: "s1", Titles: []source.Title{{Value: "Complete Movie", Language: "en", Default: true}}, RuntimeMinutes: 25},
	}
	client.xrefs["e1"] = []source.RawCrossReference{
		{NativeEpisodeID: "e1", Hash: "abc", Size: 700},
	}
	client.movies["m1"] = &source.Movie{
		ID:             "m1",
		Title:          "The Film",
		RuntimeMinutes: 118,
		Rating:         8.0,
		Studios:        []string{"Big Studio"},
	}
}

func TestMovieLookupBindsParentMovie(t *testing.T) {
	client := newFakeClient()
	movieFixture(client)
	svc := newService(client)

	item := &library.Item{
		ID:          "item-1",
		Kind:        library.KindMovie,
		ProviderIDs: map[string]string{"native": "s1", "parent": "m1"},
	}

	res, err := svc.Movie().Lookup(context.Background(), item)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if !res.Found {
		t.Fatal("expected metadata to be found")
	}
	if res.Item.RuntimeMinutes != 118 {
		t.Fatalf("runtime = %d, want parent movie runtime", res.Item.RuntimeMinutes)
	}
	if len(res.Item.Studios) != 1 || res.Item.Studios[0] != "Big Studio" {
		t.Fatalf("studios = %v, want movie studios", res.Item.Studios)
	}
	if res.Item.ProviderIDs["parent"] != "m1" {
		t.Fatalf("provider ids = %v, want parent m1", res.Item.ProviderIDs)
	}
}

func TestMovieLookupUnavailableWithoutFiles(t *testing.T) {
	client := newFakeClient()
	movieFixture(client)
	delete(client.xrefs, "e1")
	svc := newService(client)

	item := &library.Item{
		ID:          "item-1",
		Kind:        library.KindMovie,
		ProviderIDs: map[string]string{"native": "s1", "parent": "m1"},
	}

	res, err := svc.Movie().Lookup(context.Background(), item)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if res.Found {
		t.Fatal("expected unavailable movie to yield no metadata")
	}
}

func TestLookupWithoutProviderIDIsNotAnError(t *testing.T) {
	svc := newService(newFakeClient())
	item := &library.Item{ID: "item-1", Kind: library.KindMovie}

	res, err := svc.Movie().Lookup(context.Background(), item)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if res.Found {
		t.Fatal("expected absence, got metadata")
	}
}

func TestEpisodeLookupInheritsShowStudios(t *testing.T) {
	client := newFakeClient()
	client.episodes["e7"] = &source.EpisodeRecord{
		ID: "e7", SeriesID: "s1", Number: 7,
		Titles: []source.Title{{Value: "The Seventh", Language: "en", Default: true}},
	}
	client.series["s1"] = &source.SeriesRecord{ID: "s1"}
	client.xrefs["e7"] = []source.RawCrossReference{
		{NativeEpisodeID: "e7", ParentEpisodeID: "pe7", Hash: "def", Size: 350},
	}
	client.parentEpisodes["pe7"] = &source.ParentEpisode{
		ID: "pe7", ShowID: "show1", Title: "Episode Seven", RuntimeMinutes: 24,
	}
	client.shows["show1"] = &source.Show{
		ID:      "show1",
		Studios: []string{"Show Studio"},
		ContentRatings: []source.ContentRating{
			{Rating: "TV-14", Country: "us"},
		},
	}
	svc := newService(client)

	item := &library.Item{
		ID:          "item-7",
		Kind:        library.KindEpisode,
		IndexNumber: 7,
		ProviderIDs: map[string]string{"native": "e7", "parent": "pe7"},
	}

	res, err := svc.Episode().Lookup(context.Background(), item)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if !res.Found {
		t.Fatal("expected metadata to be found")
	}
	if len(res.Item.Studios) != 1 || res.Item.Studios[0] != "Show Studio" {
		t.Fatalf("studios = %v, want show studios", res.Item.Studios)
	}
	if res.Item.OfficialRating != "TV-14" {
		t.Fatalf("official rating = %q, want TV-14 from show", res.Item.OfficialRating)
	}
	if res.Item.IndexNumber != 7 {
		t.Fatalf("index number = %d, want preserved 7", res.Item.IndexNumber)
	}
}

func TestEntityCacheAvoidsRefetchUntilInvalidated(t *testing.T) {
	client := newFakeClient()
	movieFixture(client)
	svc := newService(client)

	item := &library.Item{
		ID:          "item-1",
		Kind:        library.KindMovie,
		ProviderIDs: map[string]string{"native": "s1", "parent": "m1"},
	}

	ctx := context.Background()
	if _, err := svc.Movie().Lookup(ctx, item); err != nil {
		t.Fatalf("first lookup failed: %v", err)
	}
	if _, err := svc.Movie().Lookup(ctx, item); err != nil {
		t.Fatalf("second lookup failed: %v", err)
	}
	if client.calls["series"] != 1 {
		t.Fatalf("series fetched %d times, want 1 (cached)", client.calls["series"])
	}

	svc.InvalidateCache()
	if _, err := svc.Movie().Lookup(ctx, item); err != nil {
		t.Fatalf("post-invalidate lookup failed: %v", err)
	}
	if client.calls["series"] != 2 {
		t.Fatalf("series fetched %d times after invalidate, want 2", client.calls["series"])
	}
}

func TestResolveFileOrdersAndDedups(t *testing.T) {
	client := newFakeClient()
	client.episodes["e1"] = &source.EpisodeRecord{ID: "e1", SeriesID: "s1"}
	client.episodes["e2"] = &source.EpisodeRecord{ID: "e2", SeriesID: "s1"}
	client.files["f1"] = &source.FileRecord{
		ID:   "f1",
		Hash: "abc",
		Size: 700,
		CrossReferences: []source.RawCrossReference{
			{NativeEpisodeID: "e2", Hash: "ABC", Size: 700, PercentStart: 50, PercentEnd: 100},
			{NativeEpisodeID: "e1", Hash: "def", Size: 700, PercentStart: 0, PercentEnd: 100},
			{NativeEpisodeID: "e2", Hash: "abc", Size: 700, PercentStart: 0, PercentEnd: 50},
		},
	}
	svc := newService(client)

	resolved, err := svc.ResolveFile(context.Background(), "f1")
	if err != nil {
		t.Fatalf("ResolveFile failed: %v", err)
	}
	// The duplicate (hash, size) fingerprint collapses case-insensitively;
	// the complete binding sorts first.
	if len(resolved) != 2 {
		t.Fatalf("got %d resolutions, want 2", len(resolved))
	}
	if resolved[0].Episode.ID != "e1" || !resolved[0].Ref.Percent.Complete() {
		t.Fatalf("first resolution = %+v, want complete e1 binding", resolved[0])
	}
}

func TestResolveUnknownFileIsNotAnError(t *testing.T) {
	svc := newService(newFakeClient())
	resolved, err := svc.ResolveFile(context.Background(), "missing")
	if err != nil {
		t.Fatalf("ResolveFile failed: %v", err)
	}
	if resolved != nil {
		t.Fatalf("expected nil for unknown file, got %#v", resolved)
	}
}

func TestCachingClientMemoizesIncludingAbsence(t *testing.T) {
	inner := newFakeClient()
	inner.movies["m1"] = &source.Movie{ID: "m1", Title: "The Film"}
	client := provider.NewCachingClient(inner, time.Minute)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		movie, err := client.MovieByID(ctx, "m1")
		if err != nil {
			t.Fatalf("MovieByID failed: %v", err)
		}
		if movie == nil || movie.Title != "The Film" {
			t.Fatalf("unexpected movie: %#v", movie)
		}
	}
	if inner.calls["movie"] != 1 {
		t.Fatalf("inner fetched %d times, want 1", inner.calls["movie"])
	}

	for i := 0; i < 3; i++ {
		movie, err := client.MovieByID(ctx, "absent")
		if err != nil {
			t.Fatalf("MovieByID failed: %v", err)
		}
		if movie != nil {
			t.Fatalf("expected nil for absent id, got %#v", movie)
		}
	}
	if inner.calls["movie"] != 2 {
		t.Fatalf("inner fetched %d times, want 2 (absence cached)", inner.calls["movie"])
	}
}

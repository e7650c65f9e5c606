package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"medley/internal/source"
)

// Snapshot is a decoded catalog export: every source record the three
// upstreams reported, in one JSON document. It backs the CLI when no live
// upstream is wired in; transport stays outside this repository.
type Snapshot struct {
	Series         []source.SeriesRecord  `json:"series,omitempty"`
	Episodes       []source.EpisodeRecord `json:"episodes,omitempty"`
	Movies         []source.Movie         `json:"movies,omitempty"`
	Shows          []source.Show          `json:"shows,omitempty"`
	ParentEpisodes []source.ParentEpisode `json:"parent_episodes,omitempty"`
	Files          []source.FileRecord    `json:"files,omitempty"`
}

// SnapshotClient serves Client lookups from an in-memory Snapshot. Records
// missing from the snapshot resolve to absence, never an error.
type SnapshotClient struct {
	series         map[string]*source.SeriesRecord
	episodes       map[string]*source.EpisodeRecord
	bySeries       map[string][]source.EpisodeRecord
	movies         map[string]*source.Movie
	shows          map[string]*source.Show
	parentEpisodes map[string]*source.ParentEpisode
	files          map[string]*source.FileRecord
	refsByEpisode  map[string][]source.RawCrossReference
}

var _ Client = (*SnapshotClient)(nil)

// NewSnapshotClient indexes the snapshot for id lookups. Cross references
// are regrouped from file records onto their native episode ids.
func NewSnapshotClient(snap Snapshot) *SnapshotClient {
	c := &SnapshotClient{
		series:         make(map[string]*source.SeriesRecord, len(snap.Series)),
		episodes:       make(map[string]*source.EpisodeRecord, len(snap.Episodes)),
		bySeries:       make(map[string][]source.EpisodeRecord),
		movies:         make(map[string]*source.Movie, len(snap.Movies)),
		shows:          make(map[string]*source.Show, len(snap.Shows)),
		parentEpisodes: make(map[string]*source.ParentEpisode, len(snap.ParentEpisodes)),
		files:          make(map[string]*source.FileRecord, len(snap.Files)),
		refsByEpisode:  make(map[string][]source.RawCrossReference),
	}
	for i := range snap.Series {
		c.series[snap.Series[i].ID] = &snap.Series[i]
	}
	for i := range snap.Episodes {
		ep := &snap.Episodes[i]
		c.episodes[ep.ID] = ep
		c.bySeries[ep.SeriesID] = append(c.bySeries[ep.SeriesID], *ep)
	}
	for i := range snap.Movies {
		c.movies[snap.Movies[i].ID] = &snap.Movies[i]
	}
	for i := range snap.Shows {
		c.shows[snap.Shows[i].ID] = &snap.Shows[i]
	}
	for i := range snap.ParentEpisodes {
		c.parentEpisodes[snap.ParentEpisodes[i].ID] = &snap.ParentEpisodes[i]
	}
	for i := range snap.Files {
		file := &snap.Files[i]
		c.files[file.ID] = file
		for _, ref := range file.CrossReferences {
			if ref.NativeEpisodeID == "" {
				continue
			}
			c.refsByEpisode[ref.NativeEpisodeID] = append(c.refsByEpisode[ref.NativeEpisodeID], ref)
		}
	}
	return c
}

// LoadSnapshot reads a snapshot file and indexes it. A missing file yields
// an empty client so every lookup reports absence.
func LoadSnapshot(path string) (*SnapshotClient, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewSnapshotClient(Snapshot{}), nil
		}
		return nil, fmt.Errorf("read catalog snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse catalog snapshot %s: %w", path, err)
	}
	return NewSnapshotClient(snap), nil
}

func (c *SnapshotClient) SeriesByID(_ context.Context, id string) (*source.SeriesRecord, error) {
	return c.series[id], nil
}

func (c *SnapshotClient) EpisodeByNativeID(_ context.Context, id string) (*source.EpisodeRecord, error) {
	return c.episodes[id], nil
}

func (c *SnapshotClient) EpisodesBySeries(_ context.Context, seriesID string) ([]source.EpisodeRecord, error) {
	return c.bySeries[seriesID], nil
}

func (c *SnapshotClient) MovieByID(_ context.Context, id string) (*source.Movie, error) {
	return c.movies[id], nil
}

func (c *SnapshotClient) ShowByID(_ context.Context, id string) (*source.Show, error) {
	return c.shows[id], nil
}

func (c *SnapshotClient) ParentEpisodeByID(_ context.Context, id string) (*source.ParentEpisode, error) {
	return c.parentEpisodes[id], nil
}

func (c *SnapshotClient) FileByLocalID(_ context.Context, id string) (*source.FileRecord, error) {
	return c.files[id], nil
}

func (c *SnapshotClient) CrossReferencesForEpisode(_ context.Context, nativeEpisodeID string) ([]source.RawCrossReference, error) {
	return c.refsByEpisode[nativeEpisodeID], nil
}

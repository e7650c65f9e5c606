package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"medley/internal/library"
	"medley/internal/provider"
	"medley/internal/source"
)

func TestConfigInitWritesSample(t *testing.T) {
	env := setupCLITestEnv(t)

	target := filepath.Join(env.baseDir, "fresh", "config.toml")
	out, _, err := runCLI(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	_, _, err = runCLI(t, "", "config", "init", "--path", target)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("second init should refuse without --overwrite, got %v", err)
	}
}

func TestConfigShowListsSettings(t *testing.T) {
	setupCLITestEnv(t)

	out, _, err := runCLI(t, "", "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "paths.data_dir")
	requireContains(t, out, "refresh.dead_zone_hours")
}

func TestRefreshUnknownItemFails(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "refresh", "no-such-item")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestRefreshRejectsUnknownFieldGroup(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "refresh", "whatever", "--fields", "bogus")
	if err == nil || !strings.Contains(err.Error(), "unknown field group") {
		t.Fatalf("expected field parse error, got %v", err)
	}
}

func TestRefreshMovieAppliesSnapshotMetadata(t *testing.T) {
	env := setupCLITestEnv(t)

	env.writeSnapshot(t, provider.Snapshot{
		Series: []source.SeriesRecord{{
			ID:          "s1",
			Titles:      []source.Title{{Value: "The Feature", Language: "en", Default: true}},
			Description: "A film.",
			Rating:      8.1,
		}},
		Episodes: []source.EpisodeRecord{{
			ID:             "e1",
			SeriesID:       "s1",
			RuntimeMinutes: 97,
		}},
		Files: []source.FileRecord{{
			ID: "f1", Hash: "abc", Size: 700,
			CrossReferences: []source.RawCrossReference{
				{NativeEpisodeID: "e1", Hash: "abc", Size: 700},
			},
		}},
	})
	item := env.seedItem(t, &library.Item{
		ID:          "movie-1",
		Kind:        library.KindMovie,
		Name:        "placeholder",
		ProviderIDs: map[string]string{"native": "s1"},
	})

	out, _, err := runCLI(t, env.configPath, "refresh", item.ID)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	requireContains(t, out, "yes")

	saved := env.loadItem(t, item.ID)
	if saved == nil || saved.Name != "The Feature" {
		t.Fatalf("refresh did not persist the synthesized name, got %+v", saved)
	}
	if saved.LastRefreshedAt == nil {
		t.Fatal("refresh did not stamp LastRefreshedAt")
	}
}

func TestResolveFilePrintsBindings(t *testing.T) {
	env := setupCLITestEnv(t)

	env.writeSnapshot(t, provider.Snapshot{
		Episodes: []source.EpisodeRecord{{ID: "e1", SeriesID: "s1"}},
		Files: []source.FileRecord{{
			ID: "f1", Hash: "abc", Size: 700,
			CrossReferences: []source.RawCrossReference{
				{NativeEpisodeID: "e1", ParentEpisodeID: "p9", Hash: "abc", Size: 700},
			},
		}},
	})

	out, _, err := runCLI(t, env.configPath, "resolve", "f1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	requireContains(t, out, "p9")

	out, _, err = runCLI(t, env.configPath, "resolve", "missing")
	if err != nil {
		t.Fatalf("resolve missing: %v", err)
	}
	requireContains(t, out, "no episode bindings")
}

func TestSweepRunsOnEmptyLibrary(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "sweep")
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	requireContains(t, out, "Updated")
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"medley/internal/library"
	"medley/internal/provider"
)

type cliTestEnv struct {
	baseDir    string
	dataDir    string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	dataDir := filepath.Join(base, "data")
	logDir := filepath.Join(base, "logs")
	for _, dir := range []string{dataDir, logDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf("[paths]\ndata_dir = %q\nlog_dir = %q\n\n[catalog]\nlocale = \"en\"\n", dataDir, logDir)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{baseDir: base, dataDir: dataDir, configPath: configPath}
}

func (env *cliTestEnv) writeSnapshot(t *testing.T, snap provider.Snapshot) {
	t.Helper()
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	if err := os.WriteFile(filepath.Join(env.dataDir, "catalog.json"), data, 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
}

func (env *cliTestEnv) seedItem(t *testing.T, item *library.Item) *library.Item {
	t.Helper()
	store, err := library.OpenPath(filepath.Join(env.dataDir, "library.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	if err := store.Insert(context.Background(), item); err != nil {
		t.Fatalf("insert item: %v", err)
	}
	return item
}

func (env *cliTestEnv) loadItem(t *testing.T, id string) *library.Item {
	t.Helper()
	store, err := library.OpenPath(filepath.Join(env.dataDir, "library.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	item, err := store.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	return item
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = []string{"--config", configPath}
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

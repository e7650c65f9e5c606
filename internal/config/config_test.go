package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"medley/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Refresh.DeadZoneHours != 24 {
		t.Fatalf("DeadZoneHours = %d, want default 24", cfg.Refresh.DeadZoneHours)
	}
	if !cfg.Synthesis.SanitizeDescriptions {
		t.Fatal("expected description sanitization on by default")
	}
}

func TestLoadAppliesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[catalog]
locale = "ja"
native_base_url = "http://catalog.local/api/"

[refresh]
dead_zone_hours = 6
out_of_sync_days = 7
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.Catalog.Locale != "ja" {
		t.Fatalf("Locale = %q, want ja", cfg.Catalog.Locale)
	}
	if cfg.Catalog.NativeBaseURL != "http://catalog.local/api" {
		t.Fatalf("NativeBaseURL = %q, want trailing slash trimmed", cfg.Catalog.NativeBaseURL)
	}
	if cfg.Refresh.DeadZoneHours != 6 || cfg.Refresh.OutOfSyncDays != 7 {
		t.Fatalf("refresh thresholds = %d/%d, want 6/7", cfg.Refresh.DeadZoneHours, cfg.Refresh.OutOfSyncDays)
	}
	// Untouched sections keep defaults.
	if cfg.Refresh.RangeDays != 14 {
		t.Fatalf("RangeDays = %d, want default 14", cfg.Refresh.RangeDays)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"negative dead zone", func(c *config.Config) { c.Refresh.DeadZoneHours = -1 }, "dead_zone_hours"},
		{"zero sweep interval", func(c *config.Config) { c.Refresh.SweepIntervalMinutes = 0 }, "sweep_interval_minutes"},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "yaml" }, "logging"},
		{"empty locale", func(c *config.Config) { c.Catalog.Locale = "" }, "locale"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err.Error(), tc.want)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config invalid: %v", err)
	}
}

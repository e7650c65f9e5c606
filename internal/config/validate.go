package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}
	c.Catalog.NativeBaseURL = strings.TrimRight(strings.TrimSpace(c.Catalog.NativeBaseURL), "/")
	c.Catalog.ParentBaseURL = strings.TrimRight(strings.TrimSpace(c.Catalog.ParentBaseURL), "/")
	c.Catalog.Locale = strings.TrimSpace(c.Catalog.Locale)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

// Validate rejects configurations that cannot produce a working process.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return fmt.Errorf("paths: data_dir must be set")
	}
	if c.Catalog.Locale == "" {
		return fmt.Errorf("catalog: locale must be set")
	}
	if c.Catalog.CacheTTLMinutes < 0 {
		return fmt.Errorf("catalog: cache_ttl_minutes must not be negative")
	}
	if c.Refresh.DeadZoneHours < 0 {
		return fmt.Errorf("refresh: dead_zone_hours must not be negative")
	}
	if c.Refresh.OutOfSyncDays < 0 {
		return fmt.Errorf("refresh: out_of_sync_days must not be negative")
	}
	if c.Refresh.RangeDays < 0 {
		return fmt.Errorf("refresh: range_days must not be negative")
	}
	if c.Refresh.SweepIntervalMinutes <= 0 {
		return fmt.Errorf("refresh: sweep_interval_minutes must be positive")
	}
	switch c.Logging.Format {
	case "", "console", "text", "json":
	default:
		return fmt.Errorf("logging: unsupported format %q", c.Logging.Format)
	}
	return nil
}

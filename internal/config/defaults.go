package config

// Default returns the baseline configuration before any file is applied.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: "~/.local/share/medley",
			LogDir:  "~/.local/share/medley/logs",
		},
		Catalog: Catalog{
			Locale:          "en",
			CacheTTLMinutes: 10,
		},
		Synthesis: Synthesis{
			TagsFromKeywords:     true,
			TagsFromGenres:       false,
			GenresFromKeywords:   false,
			GenresFromGenres:     true,
			SanitizeDescriptions: true,
		},
		Refresh: Refresh{
			DeadZoneHours:        24,
			OutOfSyncDays:        30,
			RangeDays:            14,
			IncludeUnaired:       false,
			SweepIntervalMinutes: 360,
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}

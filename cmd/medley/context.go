package main

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"medley/internal/config"
	"medley/internal/library"
	"medley/internal/logging"
	"medley/internal/provider"
	"medley/internal/refresh"
	"medley/internal/synthesis"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// runtime bundles the wired collaborators a command needs: the item store,
// the metadata service over the catalog snapshot, and the orchestrator.
type runtime struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *library.Store
	service *provider.Service
	orch    *refresh.Orchestrator
}

// openRuntime assembles the runtime. logPaths selects logger destinations;
// empty means stderr so command output on stdout stays clean.
func (c *commandContext) openRuntime(logPaths ...string) (*runtime, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if len(logPaths) == 0 {
		logPaths = []string{"stderr"}
	}

	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: logPaths,
	})
	if err != nil {
		return nil, err
	}

	store, err := library.Open(cfg)
	if err != nil {
		return nil, err
	}

	snapshot, err := provider.LoadSnapshot(filepath.Join(cfg.Paths.DataDir, "catalog.json"))
	if err != nil {
		store.Close()
		return nil, err
	}
	client := provider.NewCachingClient(snapshot, time.Duration(cfg.Catalog.CacheTTLMinutes)*time.Minute)

	syn := synthesis.New(synthesis.Options{
		Locale:               cfg.Catalog.Locale,
		TagsFromKeywords:     cfg.Synthesis.TagsFromKeywords,
		TagsFromGenres:       cfg.Synthesis.TagsFromGenres,
		GenresFromKeywords:   cfg.Synthesis.GenresFromKeywords,
		GenresFromGenres:     cfg.Synthesis.GenresFromGenres,
		SanitizeDescriptions: cfg.Synthesis.SanitizeDescriptions,
	})
	service := provider.NewService(client, syn, cfg.Catalog.Locale, logger)

	orch := refresh.NewOrchestrator(refresh.Providers{
		Collection: service.Collection(),
		Movie:      service.Movie(),
		Show:       service.Show(),
		Season:     service.Season(),
		Episode:    service.Episode(),
		Video:      service.Video(),
	}, store, store, nil, logger)
	orch.OnStall(service.InvalidateCache)

	return &runtime{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		service: service,
		orch:    orch,
	}, nil
}

func (r *runtime) Close() error {
	return r.store.Close()
}

func (r *runtime) sweepOptions(includeUnaired bool, fields refresh.FieldSet) refresh.SweepOptions {
	return refresh.SweepOptions{
		DeadZone:       time.Duration(r.cfg.Refresh.DeadZoneHours) * time.Hour,
		OutOfSync:      time.Duration(r.cfg.Refresh.OutOfSyncDays) * 24 * time.Hour,
		Range:          time.Duration(r.cfg.Refresh.RangeDays) * 24 * time.Hour,
		IncludeUnaired: includeUnaired || r.cfg.Refresh.IncludeUnaired,
		Fields:         fields,
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

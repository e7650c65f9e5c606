package refresh

import (
	"context"
	"errors"
	"time"

	"medley/internal/library"
	"medley/internal/services"
	"medley/internal/source"
)

// SweepOptions are the time-window thresholds the scheduled sweep combines
// per item.
type SweepOptions struct {
	// DeadZone is the anti-refresh floor: items refreshed more recently
	// than now-DeadZone are never candidates.
	DeadZone time.Duration
	// OutOfSync forces items whose last refresh predates now-OutOfSync,
	// overriding the dead zone when the two cutoffs contradict.
	OutOfSync time.Duration
	// Range bounds the air-date window for otherwise-eligible items.
	Range time.Duration
	// IncludeUnaired lifts the upper air-date bound and admits virtual or
	// unaired items.
	IncludeUnaired bool
	// ProviderScheme is the scheme whose id must be present on candidates.
	ProviderScheme string
	// Fields scopes the per-item refresh; zero means AllFields.
	Fields FieldSet
}

// Progress reports sweep advancement per stage.
type Progress func(stage string, done, total int)

// DueForRefresh decides whether one item is a sweep candidate at the given
// instant. The staleness override always wins when the out-of-sync cutoff
// lands after the dead-zone cutoff.
func DueForRefresh(item *library.Item, now time.Time, opts SweepOptions) bool {
	if item == nil {
		return false
	}

	deadZoneCutoff := now.Add(-opts.DeadZone)
	outOfSyncCutoff := now.Add(-opts.OutOfSync)
	deadZoneActive := !outOfSyncCutoff.After(deadZoneCutoff)

	if deadZoneActive && item.LastRefreshedAt != nil && item.LastRefreshedAt.After(deadZoneCutoff) {
		return false
	}

	unaired := item.IsVirtual || item.PremiereDate == nil || item.PremiereDate.After(now)
	if item.LastRefreshedAt == nil || item.LastRefreshedAt.Before(outOfSyncCutoff) {
		if unaired && !opts.IncludeUnaired {
			return false
		}
		return true
	}

	if item.PremiereDate == nil {
		return opts.IncludeUnaired
	}
	if item.PremiereDate.Before(now.Add(-opts.Range)) {
		return false
	}
	if item.PremiereDate.After(now) {
		return opts.IncludeUnaired
	}
	return true
}

// AutoRefresh runs one scheduled sweep: candidate movies and episodes come
// from index filters, seasons and shows are derived by parent grouping, and
// the four stages run in the fixed movies, shows, seasons, episodes order so
// parent display metadata is fresh before children apply field groups that
// might read it.
func (o *Orchestrator) AutoRefresh(ctx context.Context, opts SweepOptions, progress Progress) (Outcome, error) {
	if opts.ProviderScheme == "" {
		opts.ProviderScheme = string(source.SchemeNative)
	}
	if progress == nil {
		progress = func(string, int, int) {}
	}
	now := time.Now().UTC()

	movies, err := o.dueItems(ctx, library.KindMovie, now, opts)
	if err != nil {
		return Outcome{}, err
	}
	episodes, err := o.dueItems(ctx, library.KindEpisode, now, opts)
	if err != nil {
		return Outcome{}, err
	}
	seasons, shows, err := o.deriveAncestors(ctx, episodes)
	if err != nil {
		return Outcome{}, err
	}

	refreshOpts := Options{Fields: opts.Fields}
	stages := []struct {
		name  string
		items []*library.Item
	}{
		{"movies", movies},
		{"shows", shows},
		{"seasons", seasons},
		{"episodes", episodes},
	}

	var (
		outcome Outcome
		errs    []error
	)
	for _, stage := range stages {
		for i, item := range stage.items {
			if err := ctx.Err(); err != nil {
				return outcome, err
			}
			itemOutcome, itemErr := o.Refresh(ctx, item, refreshOpts)
			outcome = outcome.Or(itemOutcome)
			if itemErr != nil {
				errs = append(errs, itemErr)
			}
			progress(stage.name, i+1, len(stage.items))
		}
	}

	o.logger.Info("sweep finished",
		"movies", len(movies),
		"shows", len(shows),
		"seasons", len(seasons),
		"episodes", len(episodes),
		"updated", outcome.Updated,
	)
	return outcome, errors.Join(errs...)
}

func (o *Orchestrator) dueItems(ctx context.Context, kind library.Kind, now time.Time, opts SweepOptions) ([]*library.Item, error) {
	items, err := o.index.Find(ctx, library.Query{
		Kind:           kind,
		ProviderScheme: opts.ProviderScheme,
		IncludeVirtual: opts.IncludeUnaired,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "refresh", "sweep", "query candidates", err)
	}
	due := items[:0]
	for _, item := range items {
		if DueForRefresh(item, now, opts) {
			due = append(due, item)
		}
	}
	return due, nil
}

// deriveAncestors groups due episodes by their parents, yielding the season
// and show candidates in stable first-seen order.
func (o *Orchestrator) deriveAncestors(ctx context.Context, episodes []*library.Item) (seasons, shows []*library.Item, err error) {
	seenSeasons := make(map[string]struct{})
	seenShows := make(map[string]struct{})
	for _, episode := range episodes {
		if episode.ParentID == "" {
			continue
		}
		if _, dup := seenSeasons[episode.ParentID]; dup {
			continue
		}
		seenSeasons[episode.ParentID] = struct{}{}

		season, err := o.index.Get(ctx, episode.ParentID)
		if err != nil {
			return nil, nil, services.Wrap(services.ErrPersistence, "refresh", "sweep", "load season", err)
		}
		if season == nil {
			continue
		}
		seasons = append(seasons, season)

		if season.ParentID == "" {
			continue
		}
		if _, dup := seenShows[season.ParentID]; dup {
			continue
		}
		seenShows[season.ParentID] = struct{}{}
		show, err := o.index.Get(ctx, season.ParentID)
		if err != nil {
			return nil, nil, services.Wrap(services.ErrPersistence, "refresh", "sweep", "load show", err)
		}
		if show != nil {
			shows = append(shows, show)
		}
	}
	if len(seasons) > 0 || len(shows) > 0 {
		o.logger.Debug("derived sweep ancestors", "seasons", len(seasons), "shows", len(shows))
	}
	return seasons, shows, nil
}

package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"medley/internal/library"
	"medley/internal/logging"
	"medley/internal/provider"
	"medley/internal/services"
)

// Options scopes one refresh invocation.
type Options struct {
	// Fields selects which groups to apply. Zero means AllFields.
	Fields FieldSet
	// Recursive extends a show refresh into its seasons and a season
	// refresh into its episodes. Extras and alternate versions cascade
	// regardless.
	Recursive bool
}

func (o Options) fields() FieldSet {
	if o.Fields == 0 {
		return AllFields
	}
	return o.Fields
}

// Outcome is the immutable result of one refresh invocation. Callers fold
// cascade outcomes with Or instead of sharing a mutable accumulator.
type Outcome struct {
	Updated bool
	Groups  []string
}

// Or folds another outcome into this one, returning the combination.
func (o Outcome) Or(other Outcome) Outcome {
	return Outcome{
		Updated: o.Updated || other.Updated,
		Groups:  append(o.Groups, other.Groups...),
	}
}

// LegacyRefresher performs the host-native full metadata refresh used when
// field-scoped refresh is not requested or not supported for an item's kind.
type LegacyRefresher interface {
	Refresh(ctx context.Context, item *library.Item) (bool, error)
}

// Providers carries one metadata lookup per item kind, injected at
// construction. A nil entry means the kind is not supported by this
// metadata source and falls back to the legacy refresher.
type Providers struct {
	Collection provider.Metadata
	Movie      provider.Metadata
	Show       provider.Metadata
	Season     provider.Metadata
	Episode    provider.Metadata
	Video      provider.Metadata
}

// Orchestrator applies synthesized metadata onto library items and runs the
// scheduled sweep. One orchestrator owns one Pass; the pass and any
// registered caches are reset together on the external stalled signal.
type Orchestrator struct {
	providers Providers
	index     library.Index
	saver     library.Saver
	legacy    LegacyRefresher
	custom    CustomHook
	logger    *slog.Logger
	pass      *Pass
	onStall   []func()
}

// NewOrchestrator wires the orchestrator's collaborators. index and saver
// are required; legacy may be nil when no host-native refresh exists.
func NewOrchestrator(providers Providers, index library.Index, saver library.Saver, legacy LegacyRefresher, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		providers: providers,
		index:     index,
		saver:     saver,
		legacy:    legacy,
		logger:    logger.With(logging.FieldComponent, "refresh"),
		pass:      NewPass(),
	}
}

// SetCustomHook installs the pluggable custom field group.
func (o *Orchestrator) SetCustomHook(hook CustomHook) {
	o.custom = hook
}

// OnStall registers a callback run whenever the stalled signal resets the
// pass, letting collaborators drop their own caches in step.
func (o *Orchestrator) OnStall(fn func()) {
	o.onStall = append(o.onStall, fn)
}

// SignalStalled clears the visited set and every registered cache. Called
// by the owner when the host reports an idle/stalled period.
func (o *Orchestrator) SignalStalled() {
	o.pass.Reset()
	for _, fn := range o.onStall {
		fn()
	}
}

// Pass exposes the current pass, mainly for tests and the serve loop.
func (o *Orchestrator) Pass() *Pass {
	return o.pass
}

// Refresh dispatches to the per-kind operation for the item's kind.
func (o *Orchestrator) Refresh(ctx context.Context, item *library.Item, opts Options) (Outcome, error) {
	if item == nil {
		return Outcome{}, nil
	}
	switch item.Kind {
	case library.KindCollection:
		return o.RefreshCollection(ctx, item, opts)
	case library.KindMovie:
		return o.RefreshMovie(ctx, item, opts)
	case library.KindShow:
		return o.RefreshShow(ctx, item, opts)
	case library.KindSeason:
		return o.RefreshSeason(ctx, item, opts)
	case library.KindEpisode:
		return o.RefreshEpisode(ctx, item, opts)
	case library.KindVideo:
		return o.RefreshVideo(ctx, item, opts)
	default:
		return Outcome{}, services.Wrap(services.ErrValidation, "refresh", "dispatch",
			fmt.Sprintf("unsupported item kind %q", item.Kind), nil)
	}
}

// RefreshByID loads an item from the index and refreshes it.
func (o *Orchestrator) RefreshByID(ctx context.Context, id string, opts Options) (Outcome, error) {
	item, err := o.index.Get(ctx, id)
	if err != nil {
		return Outcome{}, services.Wrap(services.ErrPersistence, "refresh", "load", "load item", err)
	}
	if item == nil {
		return Outcome{}, nil
	}
	return o.Refresh(ctx, item, opts)
}

// RefreshCollection refreshes a collection. Nested collection members are
// synthesized directly and are not cascaded here.
func (o *Orchestrator) RefreshCollection(ctx context.Context, item *library.Item, opts Options) (Outcome, error) {
	return o.refreshOne(ctx, item, opts, o.providers.Collection, nil)
}

// RefreshMovie refreshes a movie and cascades to its alternate versions and
// extras.
func (o *Orchestrator) RefreshMovie(ctx context.Context, item *library.Item, opts Options) (Outcome, error) {
	return o.refreshOne(ctx, item, opts, o.providers.Movie, o.cascadeVersionsAndExtras)
}

// RefreshShow refreshes a show, cascades to its seasons when Recursive is
// set, and always cascades to extras attached directly to the show.
func (o *Orchestrator) RefreshShow(ctx context.Context, item *library.Item, opts Options) (Outcome, error) {
	return o.refreshOne(ctx, item, opts, o.providers.Show, o.cascadeChildrenAndExtras)
}

// RefreshSeason refreshes a season, cascading likewise to its episodes and
// its own extras.
func (o *Orchestrator) RefreshSeason(ctx context.Context, item *library.Item, opts Options) (Outcome, error) {
	return o.refreshOne(ctx, item, opts, o.providers.Season, o.cascadeChildrenAndExtras)
}

// RefreshEpisode refreshes an episode and cascades to its alternate
// versions and additional parts.
func (o *Orchestrator) RefreshEpisode(ctx context.Context, item *library.Item, opts Options) (Outcome, error) {
	return o.refreshOne(ctx, item, opts, o.providers.Episode, o.cascadeVersionsAndExtras)
}

// RefreshVideo refreshes a standalone video, trailer, or extra.
func (o *Orchestrator) RefreshVideo(ctx context.Context, item *library.Item, opts Options) (Outcome, error) {
	return o.refreshOne(ctx, item, opts, o.providers.Video, nil)
}

type cascadeFunc func(ctx context.Context, item *library.Item, opts Options) (Outcome, error)

func (o *Orchestrator) refreshOne(ctx context.Context, item *library.Item, opts Options, lookup provider.Metadata, cascade cascadeFunc) (Outcome, error) {
	if item == nil || item.ID == "" {
		return Outcome{}, nil
	}
	if !o.pass.Visit(item.ID) {
		return Outcome{}, nil
	}

	fields := opts.fields()
	var (
		outcome Outcome
		ownErr  error
	)

	switch {
	case fields.Has(FieldLegacy) || lookup == nil:
		outcome, ownErr = o.legacyRefresh(ctx, item)
	default:
		outcome, ownErr = o.fieldRefresh(ctx, item, fields, lookup)
	}

	if cascade == nil {
		return outcome, ownErr
	}
	cascadeOutcome, cascadeErr := cascade(ctx, item, opts)
	return outcome.Or(cascadeOutcome), errors.Join(ownErr, cascadeErr)
}

func (o *Orchestrator) legacyRefresh(ctx context.Context, item *library.Item) (Outcome, error) {
	if o.legacy == nil {
		return Outcome{}, nil
	}
	changed, err := o.legacy.Refresh(ctx, item)
	if err != nil {
		return Outcome{}, services.Wrap(services.ErrUpstream, "refresh", "legacy", "legacy refresh", err)
	}
	if changed {
		return Outcome{Updated: true, Groups: []string{"legacy"}}, nil
	}
	return Outcome{}, nil
}

func (o *Orchestrator) fieldRefresh(ctx context.Context, item *library.Item, fields FieldSet, lookup provider.Metadata) (Outcome, error) {
	res, err := lookup.Lookup(ctx, item)
	if err != nil {
		return Outcome{}, err
	}
	if !res.Found {
		// No matching upstream entity: nothing to refresh.
		return Outcome{}, nil
	}

	changed := applyGroups(item, res, fields, o.custom)
	if len(changed) == 0 {
		return Outcome{}, nil
	}

	// Never persist on a canceled pass.
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	now := time.Now().UTC()
	item.LastRefreshedAt = &now
	if err := o.saver.Save(ctx, item); err != nil {
		return Outcome{}, services.Wrap(services.ErrPersistence, "refresh", "persist", "save item", err)
	}

	o.logger.Info("item refreshed",
		logging.FieldItemID, item.ID,
		logging.FieldKind, string(item.Kind),
		logging.FieldGroups, changed,
	)
	return Outcome{Updated: true, Groups: changed}, nil
}

// cascadeChildrenAndExtras recurses into direct children (seasons of a show,
// episodes of a season) when Recursive is set, and always into extras. A
// failing child never aborts its siblings; errors are joined into the
// aggregate.
func (o *Orchestrator) cascadeChildrenAndExtras(ctx context.Context, item *library.Item, opts Options) (Outcome, error) {
	var (
		outcome Outcome
		errs    []error
	)
	if opts.Recursive {
		children, err := o.index.Children(ctx, item.ID)
		if err != nil {
			errs = append(errs, services.Wrap(services.ErrPersistence, "refresh", "cascade", "list children", err))
		}
		for _, child := range children {
			childOutcome, childErr := o.Refresh(ctx, child, opts)
			outcome = outcome.Or(childOutcome)
			if childErr != nil {
				errs = append(errs, childErr)
			}
		}
	}

	extrasOutcome, extrasErr := o.cascadeExtras(ctx, item, opts)
	outcome = outcome.Or(extrasOutcome)
	if extrasErr != nil {
		errs = append(errs, extrasErr)
	}
	return outcome, errors.Join(errs...)
}

// cascadeVersionsAndExtras recurses into alternate versions and extras of a
// movie or episode.
func (o *Orchestrator) cascadeVersionsAndExtras(ctx context.Context, item *library.Item, opts Options) (Outcome, error) {
	var (
		outcome Outcome
		errs    []error
	)
	versions, err := o.index.AlternateVersions(ctx, item.ID)
	if err != nil {
		errs = append(errs, services.Wrap(services.ErrPersistence, "refresh", "cascade", "list alternate versions", err))
	}
	for _, version := range versions {
		versionOutcome, versionErr := o.Refresh(ctx, version, opts)
		outcome = outcome.Or(versionOutcome)
		if versionErr != nil {
			errs = append(errs, versionErr)
		}
	}

	extrasOutcome, extrasErr := o.cascadeExtras(ctx, item, opts)
	outcome = outcome.Or(extrasOutcome)
	if extrasErr != nil {
		errs = append(errs, extrasErr)
	}
	return outcome, errors.Join(errs...)
}

func (o *Orchestrator) cascadeExtras(ctx context.Context, item *library.Item, opts Options) (Outcome, error) {
	extras, err := o.index.Extras(ctx, item.ID)
	if err != nil {
		return Outcome{}, services.Wrap(services.ErrPersistence, "refresh", "cascade", "list extras", err)
	}
	var (
		outcome Outcome
		errs    []error
	)
	for _, extra := range extras {
		extraOutcome, extraErr := o.Refresh(ctx, extra, opts)
		outcome = outcome.Or(extraOutcome)
		if extraErr != nil {
			errs = append(errs, extraErr)
		}
	}
	return outcome, errors.Join(errs...)
}

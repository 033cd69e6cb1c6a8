package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/searchbox/catalog"
	"github.com/poiesic/searchbox/config"
	"github.com/poiesic/searchbox/core"
	"github.com/poiesic/searchbox/rules"
)

// Mode selects the backend a query runs against.
type Mode string

const (
	// ModeLive queries the catalog provider directly, regardless of stock.
	ModeLive Mode = "live"
	// ModeFilteredLive queries the catalog provider restricted to in-stock
	// products.
	ModeFilteredLive Mode = "filtered-live"
	// ModeSnapshot answers from the current snapshot document, building one
	// when absent.
	ModeSnapshot Mode = "snapshot"
)

// ParseMode parses the wire form of a mode. Empty input means ModeLive.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeLive, nil
	case ModeLive, ModeFilteredLive, ModeSnapshot:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w: %q", core.ErrInvalidMode, s)
	}
}

// candidateOverfetch is how many matches each backend fetches per kind
// before ranking. Larger than the result cap so priority ordering has
// material to work with instead of truncating arbitrarily.
const candidateOverfetch = 20

// SnapshotSource serves the current Ready snapshot dataset.
type SnapshotSource interface {
	Current(ctx context.Context) (*core.Dataset, core.SnapshotMeta, error)
}

// Executor runs queries against one of three interchangeable backends and
// applies the exclusion, tiering, and ranking pipeline identically to all
// of them.
//
// Exclusion is always recomputed from the current rules, even in snapshot
// mode where tiers come frozen from the document. That asymmetry is
// deliberate: a newly excluded item disappears immediately everywhere,
// while priority changes reach snapshot-mode results on the next rebuild.
type Executor struct {
	provider  catalog.Provider
	store     config.Store
	expander  *rules.Expander
	datasets  *DatasetBuilder
	snapshots SnapshotSource
	logger    *slog.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithSnapshots wires the snapshot backend. Without it, snapshot-mode
// queries fail with ErrSnapshotsNotConfigured.
func WithSnapshots(source SnapshotSource) ExecutorOption {
	return func(e *Executor) {
		e.snapshots = source
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// NewExecutor creates a search executor.
func NewExecutor(provider catalog.Provider, store config.Store, opts ...ExecutorOption) (*Executor, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	e := &Executor{
		provider: provider,
		store:    store,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	expander, err := rules.NewExpander(provider, rules.WithLogger(e.logger))
	if err != nil {
		return nil, err
	}
	e.expander = expander

	datasets, err := NewDatasetBuilder(provider, store, WithDatasetLogger(e.logger))
	if err != nil {
		return nil, err
	}
	e.datasets = datasets

	return e, nil
}

// Query runs a search and returns the ranked, capped result.
func (e *Executor) Query(ctx context.Context, term string, mode Mode) (*core.RankedResult, error) {
	return e.QueryWithMonitor(ctx, term, mode, nil)
}

// QueryWithMonitor runs a search with pipeline monitoring.
// The monitor receives callbacks at each stage of the query.
func (e *Executor) QueryWithMonitor(ctx context.Context, term string, mode Mode, monitor Monitor) (*core.RankedResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	// Reject short terms before any provider call.
	if err := core.ValidateTerm(term); err != nil {
		return nil, err
	}
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}
	monitor.Start(term, mode)

	// One consistent read of all rule fields for the whole evaluation.
	settings, err := e.store.Load(ctx)
	if err != nil {
		return emptyResult(), fmt.Errorf("load rule configuration: %w", err)
	}
	ruleSet := e.expander.Expand(ctx, settings.RawRules())
	monitor.AfterRuleExpansion(ruleSet.ExcludedCount())

	var products, categories []core.TaggedItem
	switch mode {
	case ModeSnapshot:
		products, categories, err = e.snapshotCandidates(ctx, term)
	default:
		products, categories, err = e.liveCandidates(ctx, settings, term, mode == ModeFilteredLive, ruleSet)
	}
	if err != nil {
		return emptyResult(), err
	}
	monitor.AfterCandidateFetch(len(products), len(categories))

	products = filterExcluded(products, ruleSet, monitor)
	categories = filterExcluded(categories, ruleSet, monitor)

	result := Rank(products, categories)
	monitor.Finish(result)
	return result, nil
}

// Dataset returns the full live dataset (uncapped, exclusion applied,
// tiers computed from the current rules).
func (e *Executor) Dataset(ctx context.Context) (*core.Dataset, error) {
	return e.datasets.Dataset(ctx)
}

// liveCandidates fetches candidates from the catalog provider and tags
// them with freshly computed tiers.
func (e *Executor) liveCandidates(ctx context.Context, settings config.Settings, term string, onlyInStock bool, ruleSet *rules.ExpandedRuleSet) ([]core.TaggedItem, []core.TaggedItem, error) {
	items, err := e.provider.SearchItems(ctx, settings.SearchTypes(), term, onlyInStock, candidateOverfetch)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}

	found, err := e.provider.SearchCategories(ctx, term, candidateOverfetch)
	if err != nil {
		// Products still answer the query; only the category bucket drops.
		e.logger.Warn("category search failed, continuing without categories", "term", term, "err", err)
		found = nil
	}

	products := make([]core.TaggedItem, 0, len(items))
	for _, item := range items {
		products = append(products, core.TaggedItem{CatalogItem: item, Tier: ruleSet.TierOf(item.Ref)})
	}
	categories := make([]core.TaggedItem, 0, len(found))
	for _, item := range found {
		categories = append(categories, core.TaggedItem{CatalogItem: item, Tier: ruleSet.TierOf(item.Ref)})
	}
	return products, categories, nil
}

// snapshotCandidates filters the frozen document by title match. Tiers are
// the ones frozen at build time.
func (e *Executor) snapshotCandidates(ctx context.Context, term string) ([]core.TaggedItem, []core.TaggedItem, error) {
	if e.snapshots == nil {
		return nil, nil, ErrSnapshotsNotConfigured
	}
	dataset, _, err := e.snapshots.Current(ctx)
	if err != nil {
		return nil, nil, err
	}

	needle := strings.ToLower(term)
	var products, categories []core.TaggedItem
	for _, item := range dataset.Products {
		if len(products) >= candidateOverfetch {
			break
		}
		if strings.Contains(strings.ToLower(item.Title), needle) {
			// Refs are not serialized in the document; rebuild from bucket + id.
			item.Ref = core.ProductRef(item.ID)
			products = append(products, item)
		}
	}
	for _, item := range dataset.Categories {
		if len(categories) >= candidateOverfetch {
			break
		}
		if strings.Contains(strings.ToLower(item.Title), needle) {
			item.Ref = core.CategoryRef(item.ID)
			categories = append(categories, item)
		}
	}
	return products, categories, nil
}

func filterExcluded(items []core.TaggedItem, ruleSet *rules.ExpandedRuleSet, monitor Monitor) []core.TaggedItem {
	kept := items[:0]
	for _, item := range items {
		if ruleSet.IsExcluded(item.Ref) {
			monitor.ExcludedHit(item.Ref)
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

func emptyResult() *core.RankedResult {
	return &core.RankedResult{
		Products:   make([]core.TaggedItem, 0),
		Categories: make([]core.TaggedItem, 0),
	}
}

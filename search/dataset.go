package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/searchbox/catalog"
	"github.com/poiesic/searchbox/config"
	"github.com/poiesic/searchbox/core"
	"github.com/poiesic/searchbox/rules"
)

// DatasetBuilder materializes the full, uncapped, tier-annotated catalog
// copy: every publishable in-stock item of the configured types plus every
// non-empty category, minus exclusions. It backs the client-side full
// dataset cache and is the enumeration the snapshot builder freezes.
type DatasetBuilder struct {
	provider catalog.Provider
	store    config.Store
	expander *rules.Expander
	logger   *slog.Logger
}

// DatasetOption configures a DatasetBuilder.
type DatasetOption func(*DatasetBuilder)

// WithDatasetLogger sets a custom logger.
// Default is slog.Default().
func WithDatasetLogger(logger *slog.Logger) DatasetOption {
	return func(b *DatasetBuilder) {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
	}
}

// NewDatasetBuilder creates a dataset builder.
func NewDatasetBuilder(provider catalog.Provider, store config.Store, opts ...DatasetOption) (*DatasetBuilder, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	b := &DatasetBuilder{
		provider: provider,
		store:    store,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}

	expander, err := rules.NewExpander(provider, rules.WithLogger(b.logger))
	if err != nil {
		return nil, err
	}
	b.expander = expander
	return b, nil
}

// Dataset assembles the full dataset for the current rules and catalog.
// A failed primary item listing is fatal; a failed category listing only
// drops the category bucket.
func (b *DatasetBuilder) Dataset(ctx context.Context) (*core.Dataset, error) {
	settings, err := b.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rule configuration: %w", err)
	}
	ruleSet := b.expander.Expand(ctx, settings.RawRules())

	items, err := b.provider.ListItems(ctx, settings.SearchTypes(), true, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}

	categories, err := b.provider.ListCategories(ctx, 1)
	if err != nil {
		b.logger.Warn("category listing failed, dataset has no categories", "err", err)
		categories = nil
	}

	dataset := &core.Dataset{
		Products:   make([]core.TaggedItem, 0, len(items)),
		Categories: make([]core.TaggedItem, 0, len(categories)),
	}
	for _, item := range items {
		if ruleSet.IsExcluded(item.Ref) {
			continue
		}
		dataset.Products = append(dataset.Products, core.TaggedItem{
			CatalogItem: item,
			Tier:        ruleSet.TierOf(item.Ref),
		})
	}
	for _, category := range categories {
		if ruleSet.IsExcluded(category.Ref) {
			continue
		}
		dataset.Categories = append(dataset.Categories, core.TaggedItem{
			CatalogItem: category,
			Tier:        ruleSet.TierOf(category.Ref),
		})
	}
	return dataset, nil
}

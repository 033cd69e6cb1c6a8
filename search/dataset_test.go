package search

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/searchbox/catalog"
	"github.com/poiesic/searchbox/config"
	"github.com/poiesic/searchbox/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingListProvider struct {
	catalog.Provider
}

func (f *failingListProvider) ListItems(ctx context.Context, types []string, onlyInStock bool, limit int) ([]core.CatalogItem, error) {
	return nil, errors.New("catalog store down")
}

type failingCategoryListProvider struct {
	catalog.Provider
}

func (f *failingCategoryListProvider) ListCategories(ctx context.Context, minMemberCount int) ([]core.CatalogItem, error) {
	return nil, errors.New("taxonomy store down")
}

func TestNewDatasetBuilder(t *testing.T) {
	store := newTestStore(t, config.Settings{})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewDatasetBuilder(nil, store)
		assert.Equal(t, ErrProviderRequired, err)
	})

	t.Run("nil store", func(t *testing.T) {
		_, err := NewDatasetBuilder(widgetCatalog(), nil)
		assert.Equal(t, ErrStoreRequired, err)
	})
}

func TestDataset(t *testing.T) {
	t.Run("full enumeration, in stock only", func(t *testing.T) {
		store := newTestStore(t, config.Settings{})
		b, err := NewDatasetBuilder(widgetCatalog(), store)
		require.NoError(t, err)

		dataset, err := b.Dataset(context.Background())
		require.NoError(t, err)
		// Product 12 is out of stock and never enters the dataset.
		assert.Equal(t, []int64{10, 11, 20}, ids(dataset.Products))
		assert.Equal(t, []int64{5}, ids(dataset.Categories))
		for _, item := range dataset.Products {
			assert.Equal(t, core.TierNormal, item.Tier)
		}
	})

	t.Run("exclusions and tiers applied", func(t *testing.T) {
		store := newTestStore(t, config.Settings{
			Excluded: "product:20",
			Highest:  "category:5",
		})
		b, err := NewDatasetBuilder(widgetCatalog(), store)
		require.NoError(t, err)

		dataset, err := b.Dataset(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []int64{10, 11}, ids(dataset.Products))
		for _, item := range dataset.Products {
			assert.Equal(t, core.TierHigh, item.Tier)
		}
		require.Len(t, dataset.Categories, 1)
		assert.Equal(t, core.TierHigh, dataset.Categories[0].Tier)
	})

	t.Run("item listing failure is fatal", func(t *testing.T) {
		store := newTestStore(t, config.Settings{})
		b, err := NewDatasetBuilder(&failingListProvider{Provider: widgetCatalog()}, store)
		require.NoError(t, err)

		_, err = b.Dataset(context.Background())
		assert.ErrorIs(t, err, ErrProviderUnavailable)
	})

	t.Run("category listing failure drops the bucket", func(t *testing.T) {
		store := newTestStore(t, config.Settings{})
		b, err := NewDatasetBuilder(&failingCategoryListProvider{Provider: widgetCatalog()}, store)
		require.NoError(t, err)

		dataset, err := b.Dataset(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []int64{10, 11, 20}, ids(dataset.Products))
		assert.Empty(t, dataset.Categories)
	})
}

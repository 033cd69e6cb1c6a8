package search

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/poiesic/searchbox/catalog"
	"github.com/poiesic/searchbox/catalog/mem"
	"github.com/poiesic/searchbox/config"
	"github.com/poiesic/searchbox/core"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, settings config.Settings) config.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	store, err := config.NewRedisStore(rdb)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), settings))
	return store
}

// widgetCatalog: category 5 holds products 10 and 11, all titled "widget".
func widgetCatalog() *mem.Provider {
	p := mem.NewProvider()
	p.AddProduct(mem.Product{ID: 10, Title: "Blue Widget", Published: true, InStock: true, Categories: []int64{5}})
	p.AddProduct(mem.Product{ID: 11, Title: "Red Widget", Published: true, InStock: true, Categories: []int64{5}})
	p.AddProduct(mem.Product{ID: 12, Title: "Widget Cable", Published: true, InStock: false})
	p.AddProduct(mem.Product{ID: 20, Title: "Green Gadget", Published: true, InStock: true})
	p.AddCategory(mem.Category{ID: 5, Title: "Widget Shop"})
	return p
}

// countingProvider counts every provider call.
type countingProvider struct {
	catalog.Provider
	calls atomic.Int32
}

func (c *countingProvider) ListItems(ctx context.Context, types []string, onlyInStock bool, limit int) ([]core.CatalogItem, error) {
	c.calls.Add(1)
	return c.Provider.ListItems(ctx, types, onlyInStock, limit)
}

func (c *countingProvider) SearchItems(ctx context.Context, types []string, term string, onlyInStock bool, limit int) ([]core.CatalogItem, error) {
	c.calls.Add(1)
	return c.Provider.SearchItems(ctx, types, term, onlyInStock, limit)
}

func (c *countingProvider) SearchCategories(ctx context.Context, term string, limit int) ([]core.CatalogItem, error) {
	c.calls.Add(1)
	return c.Provider.SearchCategories(ctx, term, limit)
}

func (c *countingProvider) CategoryMembers(ctx context.Context, categoryID int64) ([]int64, error) {
	c.calls.Add(1)
	return c.Provider.CategoryMembers(ctx, categoryID)
}

// failingSearchProvider fails product search.
type failingSearchProvider struct {
	catalog.Provider
}

func (f *failingSearchProvider) SearchItems(ctx context.Context, types []string, term string, onlyInStock bool, limit int) ([]core.CatalogItem, error) {
	return nil, errors.New("catalog store down")
}

// failingCategorySearchProvider fails category search only.
type failingCategorySearchProvider struct {
	catalog.Provider
}

func (f *failingCategorySearchProvider) SearchCategories(ctx context.Context, term string, limit int) ([]core.CatalogItem, error) {
	return nil, errors.New("taxonomy store down")
}

// stubSnapshots serves a fixed dataset.
type stubSnapshots struct {
	dataset *core.Dataset
	err     error
}

func (s *stubSnapshots) Current(ctx context.Context) (*core.Dataset, core.SnapshotMeta, error) {
	if s.err != nil {
		return nil, core.SnapshotMeta{}, s.err
	}
	return s.dataset, core.SnapshotMeta{}, nil
}

func TestNewExecutor(t *testing.T) {
	store := newTestStore(t, config.Settings{})

	t.Run("valid configuration", func(t *testing.T) {
		e, err := NewExecutor(widgetCatalog(), store)
		require.NoError(t, err)
		assert.NotNil(t, e)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewExecutor(nil, store)
		assert.Equal(t, ErrProviderRequired, err)
	})

	t.Run("nil store", func(t *testing.T) {
		_, err := NewExecutor(widgetCatalog(), nil)
		assert.Equal(t, ErrStoreRequired, err)
	})
}

func TestParseMode(t *testing.T) {
	for _, valid := range []string{"", "live", "filtered-live", "snapshot"} {
		_, err := ParseMode(valid)
		require.NoError(t, err, "mode %q", valid)
	}

	_, err := ParseMode("cached")
	assert.ErrorIs(t, err, core.ErrInvalidMode)
}

func TestQuery_TermTooShort(t *testing.T) {
	provider := &countingProvider{Provider: widgetCatalog()}
	store := newTestStore(t, config.Settings{})
	e, err := NewExecutor(provider, store)
	require.NoError(t, err)

	_, err = e.Query(context.Background(), "ab", ModeLive)
	assert.ErrorIs(t, err, core.ErrTermTooShort)
	// Validation happens before any provider call.
	assert.Equal(t, int32(0), provider.calls.Load())
}

func TestQuery_InvalidMode(t *testing.T) {
	store := newTestStore(t, config.Settings{})
	e, err := NewExecutor(widgetCatalog(), store)
	require.NoError(t, err)

	_, err = e.Query(context.Background(), "widget", Mode("cached"))
	assert.ErrorIs(t, err, core.ErrInvalidMode)
}

func TestQuery_Live(t *testing.T) {
	t.Run("plain match, out of stock included", func(t *testing.T) {
		store := newTestStore(t, config.Settings{})
		e, err := NewExecutor(widgetCatalog(), store)
		require.NoError(t, err)

		result, err := e.Query(context.Background(), "widget", ModeLive)
		require.NoError(t, err)
		assert.Equal(t, []int64{10, 11, 12}, ids(result.Products))
		assert.Equal(t, []int64{5}, ids(result.Categories))
		for _, item := range result.Products {
			assert.Equal(t, core.TierNormal, item.Tier)
		}
	})

	t.Run("category priority expands to members, exclusion wins", func(t *testing.T) {
		// highest = category:5 (members 10, 11), product 10 also excluded:
		// product 11 comes back high, product 10 is absent entirely.
		store := newTestStore(t, config.Settings{
			Highest:  "category:5",
			Excluded: "product:10",
		})
		e, err := NewExecutor(widgetCatalog(), store)
		require.NoError(t, err)

		result, err := e.Query(context.Background(), "widget", ModeLive)
		require.NoError(t, err)

		require.NotEmpty(t, result.Products)
		assert.Equal(t, int64(11), result.Products[0].ID)
		assert.Equal(t, core.TierHigh, result.Products[0].Tier)
		assert.NotContains(t, ids(result.Products), int64(10))
		// category 5 itself is high too
		require.NotEmpty(t, result.Categories)
		assert.Equal(t, core.TierHigh, result.Categories[0].Tier)
	})

	t.Run("lowest priority sinks", func(t *testing.T) {
		store := newTestStore(t, config.Settings{Lowest: "product:10"})
		e, err := NewExecutor(widgetCatalog(), store)
		require.NoError(t, err)

		result, err := e.Query(context.Background(), "widget", ModeLive)
		require.NoError(t, err)
		require.Len(t, result.Products, 3)
		assert.Equal(t, int64(10), result.Products[2].ID)
		assert.Equal(t, core.TierLow, result.Products[2].Tier)
	})
}

func TestQuery_FilteredLive(t *testing.T) {
	store := newTestStore(t, config.Settings{})
	e, err := NewExecutor(widgetCatalog(), store)
	require.NoError(t, err)

	result, err := e.Query(context.Background(), "widget", ModeFilteredLive)
	require.NoError(t, err)
	// product 12 is out of stock
	assert.Equal(t, []int64{10, 11}, ids(result.Products))
}

func TestQuery_ProviderFailure(t *testing.T) {
	store := newTestStore(t, config.Settings{})
	e, err := NewExecutor(&failingSearchProvider{Provider: widgetCatalog()}, store)
	require.NoError(t, err)

	result, err := e.Query(context.Background(), "widget", ModeLive)
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	// Empty result with an error indicator, not a crash.
	require.NotNil(t, result)
	assert.Equal(t, 0, result.Total())
}

func TestQuery_CategorySearchFailureDegrades(t *testing.T) {
	store := newTestStore(t, config.Settings{})
	e, err := NewExecutor(&failingCategorySearchProvider{Provider: widgetCatalog()}, store)
	require.NoError(t, err)

	result, err := e.Query(context.Background(), "widget", ModeLive)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 11, 12}, ids(result.Products))
	assert.Empty(t, result.Categories)
}

func TestQuery_Snapshot(t *testing.T) {
	dataset := &core.Dataset{
		Products: []core.TaggedItem{
			{CatalogItem: core.CatalogItem{Title: "Blue Widget", ID: 10}, Tier: core.TierLow},
			{CatalogItem: core.CatalogItem{Title: "Red Widget", ID: 11}, Tier: core.TierHigh},
			{CatalogItem: core.CatalogItem{Title: "Green Gadget", ID: 20}, Tier: core.TierNormal},
		},
		Categories: []core.TaggedItem{
			{CatalogItem: core.CatalogItem{Title: "Widget Shop", MemberCount: 2, ID: 5}, Tier: core.TierNormal},
		},
	}

	t.Run("frozen tiers honored", func(t *testing.T) {
		store := newTestStore(t, config.Settings{})
		e, err := NewExecutor(widgetCatalog(), store, WithSnapshots(&stubSnapshots{dataset: dataset}))
		require.NoError(t, err)

		result, err := e.Query(context.Background(), "WIDGET", ModeSnapshot)
		require.NoError(t, err)
		// Frozen high tier ranks product 11 first even though live rules
		// assign nothing.
		assert.Equal(t, []int64{11, 10}, ids(result.Products))
		assert.Equal(t, core.TierHigh, result.Products[0].Tier)
		assert.Equal(t, core.TierLow, result.Products[1].Tier)
		assert.Equal(t, []int64{5}, ids(result.Categories))
	})

	t.Run("exclusion recomputed live against frozen document", func(t *testing.T) {
		store := newTestStore(t, config.Settings{Excluded: "product:11"})
		e, err := NewExecutor(widgetCatalog(), store, WithSnapshots(&stubSnapshots{dataset: dataset}))
		require.NoError(t, err)

		result, err := e.Query(context.Background(), "widget", ModeSnapshot)
		require.NoError(t, err)
		// Product 11 carries a frozen high tier but current rules exclude it.
		assert.Equal(t, []int64{10}, ids(result.Products))
	})

	t.Run("not configured", func(t *testing.T) {
		store := newTestStore(t, config.Settings{})
		e, err := NewExecutor(widgetCatalog(), store)
		require.NoError(t, err)

		_, err = e.Query(context.Background(), "widget", ModeSnapshot)
		assert.ErrorIs(t, err, ErrSnapshotsNotConfigured)
	})

	t.Run("snapshot source failure", func(t *testing.T) {
		store := newTestStore(t, config.Settings{})
		e, err := NewExecutor(widgetCatalog(), store,
			WithSnapshots(&stubSnapshots{err: errors.New("no document")}))
		require.NoError(t, err)

		result, err := e.Query(context.Background(), "widget", ModeSnapshot)
		require.Error(t, err)
		assert.Equal(t, 0, result.Total())
	})
}

// queryMonitor records pipeline callbacks.
type queryMonitor struct {
	started       bool
	excludedCount int
	excludedRefs  []core.ItemRef
	finished      bool
}

func (m *queryMonitor) Start(_ string, _ Mode)           { m.started = true }
func (m *queryMonitor) AfterRuleExpansion(n int)         { m.excludedCount = n }
func (m *queryMonitor) AfterCandidateFetch(_, _ int)     {}
func (m *queryMonitor) ExcludedHit(ref core.ItemRef)     { m.excludedRefs = append(m.excludedRefs, ref) }
func (m *queryMonitor) Finish(_ *core.RankedResult)      { m.finished = true }

func TestQueryWithMonitor(t *testing.T) {
	store := newTestStore(t, config.Settings{Excluded: "product:10"})
	e, err := NewExecutor(widgetCatalog(), store)
	require.NoError(t, err)

	monitor := &queryMonitor{}
	_, err = e.QueryWithMonitor(context.Background(), "widget", ModeLive, monitor)
	require.NoError(t, err)

	assert.True(t, monitor.started)
	assert.Equal(t, 1, monitor.excludedCount)
	assert.Equal(t, []core.ItemRef{core.ProductRef(10)}, monitor.excludedRefs)
	assert.True(t, monitor.finished)
}

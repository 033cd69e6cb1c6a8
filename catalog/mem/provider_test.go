package mem

import (
	"context"
	"testing"

	"github.com/poiesic/searchbox/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededProvider() *Provider {
	p := NewProvider()
	p.AddProduct(Product{ID: 1, Title: "Blue Widget", Published: true, InStock: true, Categories: []int64{5}})
	p.AddProduct(Product{ID: 2, Title: "Red Widget", Published: true, InStock: false, Categories: []int64{5}})
	p.AddProduct(Product{ID: 3, Title: "Widget Unpublished", Published: false, InStock: true})
	p.AddProduct(Product{ID: 4, Title: "Green Gadget", Published: true, InStock: true})
	p.AddCategory(Category{ID: 5, Title: "Widgets"})
	p.AddCategory(Category{ID: 6, Title: "Empty Shelf"})
	return p
}

var productTypes = []string{string(core.KindProduct)}

func TestListItems(t *testing.T) {
	p := seededProvider()
	ctx := context.Background()

	t.Run("publishable only", func(t *testing.T) {
		items, err := p.ListItems(ctx, productTypes, false, 0)
		require.NoError(t, err)
		assert.Len(t, items, 3)
	})

	t.Run("in stock restriction", func(t *testing.T) {
		items, err := p.ListItems(ctx, productTypes, true, 0)
		require.NoError(t, err)
		assert.Len(t, items, 2)
		for _, item := range items {
			assert.NotEqual(t, int64(2), item.ID)
		}
	})

	t.Run("limit", func(t *testing.T) {
		items, err := p.ListItems(ctx, productTypes, false, 1)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("unknown type matches nothing", func(t *testing.T) {
		items, err := p.ListItems(ctx, []string{"recipe"}, false, 0)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestSearchItems(t *testing.T) {
	p := seededProvider()
	ctx := context.Background()

	t.Run("case-insensitive substring match", func(t *testing.T) {
		items, err := p.SearchItems(ctx, productTypes, "widget", false, 20)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("stock filter applies", func(t *testing.T) {
		items, err := p.SearchItems(ctx, productTypes, "widget", true, 20)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, int64(1), items[0].ID)
	})

	t.Run("no match", func(t *testing.T) {
		items, err := p.SearchItems(ctx, productTypes, "zzz", false, 20)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestCategoryMembers(t *testing.T) {
	p := seededProvider()

	ids, err := p.CategoryMembers(context.Background(), 5)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2}, ids)

	ids, err = p.CategoryMembers(context.Background(), 6)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestListCategories(t *testing.T) {
	p := seededProvider()

	// hide_empty semantics: only categories with members
	items, err := p.ListCategories(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Widgets", items[0].Title)
	assert.Equal(t, 2, items[0].MemberCount)
}

func TestSearchCategories(t *testing.T) {
	p := seededProvider()

	t.Run("match with member count", func(t *testing.T) {
		items, err := p.SearchCategories(context.Background(), "widg", 20)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, core.CategoryRef(5), items[0].Ref)
	})

	t.Run("empty categories omitted", func(t *testing.T) {
		items, err := p.SearchCategories(context.Background(), "shelf", 20)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

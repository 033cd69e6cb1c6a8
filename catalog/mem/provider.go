package mem

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/poiesic/searchbox/catalog"
	"github.com/poiesic/searchbox/core"
)

// Product is one product entry held by the in-memory provider.
type Product struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	ImageURL   string  `json:"image_url"`
	Type       string  `json:"type"`
	InStock    bool    `json:"in_stock"`
	Published  bool    `json:"published"`
	Categories []int64 `json:"categories"`
}

// Category is one category entry held by the in-memory provider.
type Category struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Provider is an in-memory catalog.Provider for tests and local development.
// It is safe for concurrent use.
type Provider struct {
	mu         sync.RWMutex
	products   []Product
	categories []Category
}

var _ catalog.Provider = (*Provider)(nil)

// NewProvider creates an empty in-memory provider.
func NewProvider() *Provider {
	return &Provider{}
}

// AddProduct adds or replaces a product by ID.
// Products with an empty Type default to "product".
func (p *Provider) AddProduct(product Product) {
	if product.Type == "" {
		product.Type = string(core.KindProduct)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.products {
		if p.products[i].ID == product.ID {
			p.products[i] = product
			return
		}
	}
	p.products = append(p.products, product)
}

// AddCategory adds or replaces a category by ID.
func (p *Provider) AddCategory(category Category) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.categories {
		if p.categories[i].ID == category.ID {
			p.categories[i] = category
			return
		}
	}
	p.categories = append(p.categories, category)
}

// ListItems returns all published products of the given types in insertion
// order.
func (p *Provider) ListItems(ctx context.Context, types []string, onlyInStock bool, limit int) ([]core.CatalogItem, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var items []core.CatalogItem
	for _, product := range p.products {
		if !product.Published {
			continue
		}
		if !slices.Contains(types, product.Type) {
			continue
		}
		if onlyInStock && !product.InStock {
			continue
		}
		items = append(items, productItem(product))
		if limit > 0 && len(items) >= limit {
			break
		}
	}
	return items, nil
}

// SearchItems returns published products whose title contains the term,
// case-insensitively.
func (p *Provider) SearchItems(ctx context.Context, types []string, term string, onlyInStock bool, limit int) ([]core.CatalogItem, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	needle := strings.ToLower(term)
	var items []core.CatalogItem
	for _, product := range p.products {
		if !product.Published {
			continue
		}
		if !slices.Contains(types, product.Type) {
			continue
		}
		if onlyInStock && !product.InStock {
			continue
		}
		if !strings.Contains(strings.ToLower(product.Title), needle) {
			continue
		}
		items = append(items, productItem(product))
		if limit > 0 && len(items) >= limit {
			break
		}
	}
	return items, nil
}

// CategoryMembers returns the product IDs belonging to the category.
func (p *Provider) CategoryMembers(ctx context.Context, categoryID int64) ([]int64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var ids []int64
	for _, product := range p.products {
		if slices.Contains(product.Categories, categoryID) {
			ids = append(ids, product.ID)
		}
	}
	return ids, nil
}

// ListCategories returns categories with at least minMemberCount members.
func (p *Provider) ListCategories(ctx context.Context, minMemberCount int) ([]core.CatalogItem, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var items []core.CatalogItem
	for _, category := range p.categories {
		count := p.memberCountLocked(category.ID)
		if count < minMemberCount {
			continue
		}
		items = append(items, categoryItem(category, count))
	}
	return items, nil
}

// SearchCategories returns non-empty categories whose title contains the
// term, case-insensitively.
func (p *Provider) SearchCategories(ctx context.Context, term string, limit int) ([]core.CatalogItem, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	needle := strings.ToLower(term)
	var items []core.CatalogItem
	for _, category := range p.categories {
		if !strings.Contains(strings.ToLower(category.Title), needle) {
			continue
		}
		count := p.memberCountLocked(category.ID)
		if count == 0 {
			continue
		}
		items = append(items, categoryItem(category, count))
		if limit > 0 && len(items) >= limit {
			break
		}
	}
	return items, nil
}

func (p *Provider) memberCountLocked(categoryID int64) int {
	count := 0
	for _, product := range p.products {
		if slices.Contains(product.Categories, categoryID) {
			count++
		}
	}
	return count
}

func productItem(product Product) core.CatalogItem {
	return core.CatalogItem{
		Ref:      core.ProductRef(product.ID),
		Title:    product.Title,
		URL:      product.URL,
		ImageURL: product.ImageURL,
		ID:       product.ID,
	}
}

func categoryItem(category Category, count int) core.CatalogItem {
	return core.CatalogItem{
		Ref:         core.CategoryRef(category.ID),
		Title:       category.Title,
		URL:         category.URL,
		MemberCount: count,
		ID:          category.ID,
	}
}

package catalog

import (
	"context"

	"github.com/poiesic/searchbox/core"
)

// Provider is the external source of truth for catalog items, stock state,
// and category membership. Implementations must be safe for concurrent use
// and should bound every call with their own timeout; a slow or failing
// lookup degrades the caller, it must not hang it.
type Provider interface {
	// ListItems returns all publishable items of the given types.
	// When onlyInStock is true, products currently out of stock are omitted.
	// A limit of 0 means no limit.
	ListItems(ctx context.Context, types []string, onlyInStock bool, limit int) ([]core.CatalogItem, error)

	// SearchItems returns publishable items of the given types whose title
	// matches the search term, up to limit results.
	SearchItems(ctx context.Context, types []string, term string, onlyInStock bool, limit int) ([]core.CatalogItem, error)

	// CategoryMembers returns the product IDs currently belonging to the
	// category.
	CategoryMembers(ctx context.Context, categoryID int64) ([]int64, error)

	// ListCategories returns all categories with at least minMemberCount
	// member products.
	ListCategories(ctx context.Context, minMemberCount int) ([]core.CatalogItem, error)

	// SearchCategories returns categories whose title matches the search
	// term, up to limit results. Empty categories are omitted.
	SearchCategories(ctx context.Context, term string, limit int) ([]core.CatalogItem, error)
}

package search

import (
	"sort"

	"github.com/poiesic/searchbox/core"
)

// rankedEntry carries a candidate's originating kind through the merge so
// the result can be split back into buckets.
type rankedEntry struct {
	item core.TaggedItem
	kind core.Kind
}

// Rank merges product and category candidates, orders them by tier, caps
// the combined result, and partitions it back into kind buckets.
//
// The sort is stable: candidates of equal tier keep their relative input
// order, so repeated identical queries produce identical orderings. The cap
// is applied to the merged list, which is why callers over-fetch per kind —
// a high-tier category must be able to displace a normal-tier product.
func Rank(products, categories []core.TaggedItem) *core.RankedResult {
	merged := make([]rankedEntry, 0, len(products)+len(categories))
	for _, item := range products {
		merged = append(merged, rankedEntry{item: item, kind: core.KindProduct})
	}
	for _, item := range categories {
		merged = append(merged, rankedEntry{item: item, kind: core.KindCategory})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].item.Tier.Weight() < merged[j].item.Tier.Weight()
	})

	if len(merged) > core.ResultCap {
		merged = merged[:core.ResultCap]
	}

	result := &core.RankedResult{
		Products:   make([]core.TaggedItem, 0, len(merged)),
		Categories: make([]core.TaggedItem, 0),
	}
	for _, entry := range merged {
		if entry.kind == core.KindProduct {
			result.Products = append(result.Products, entry.item)
		} else {
			result.Categories = append(result.Categories, entry.item)
		}
	}
	return result
}

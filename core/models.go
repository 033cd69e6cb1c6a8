package core

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Kind identifies the catalog entity type a reference points at.
type Kind string

const (
	// KindProduct refers to a single product (or custom item type entry).
	KindProduct Kind = "product"
	// KindCategory refers to a taxonomy category.
	KindCategory Kind = "category"
)

// ItemRef is an immutable reference to one catalog entity.
// Equality and set membership are by the (Kind, ID) pair.
type ItemRef struct {
	Kind Kind
	ID   int64
}

// String returns the canonical "kind:id" form.
func (r ItemRef) String() string {
	return string(r.Kind) + ":" + strconv.FormatInt(r.ID, 10)
}

// ProductRef builds a product reference.
func ProductRef(id int64) ItemRef {
	return ItemRef{Kind: KindProduct, ID: id}
}

// CategoryRef builds a category reference.
func CategoryRef(id int64) ItemRef {
	return ItemRef{Kind: KindCategory, ID: id}
}

// refPattern is the exact grammar for one rule line. Anything that does not
// match is dropped by the parser, never an error.
var refPattern = regexp.MustCompile(`^(product|category):(\d+)$`)

// ParseItemRef parses the canonical "kind:id" form.
// Returns ErrMalformedRef for input outside the grammar.
func ParseItemRef(s string) (ItemRef, error) {
	m := refPattern.FindStringSubmatch(s)
	if m == nil {
		return ItemRef{}, fmt.Errorf("%w: %q", ErrMalformedRef, s)
	}
	id, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return ItemRef{}, fmt.Errorf("%w: %q", ErrMalformedRef, s)
	}
	return ItemRef{Kind: Kind(m[1]), ID: id}, nil
}

// Effect is what a rule does to its target.
type Effect int

const (
	// EffectExclude removes the target from all results.
	EffectExclude Effect = iota + 1
	// EffectHighest pins the target to the top tier.
	EffectHighest
	// EffectLowest pins the target to the bottom tier.
	EffectLowest
)

// Rule is one parsed rule line.
type Rule struct {
	Target ItemRef
	Effect Effect
}

// Tier is the ranking class assigned to an item for one evaluation.
// Lower weight sorts first.
type Tier string

const (
	TierHigh   Tier = "high"
	TierNormal Tier = "normal"
	TierLow    Tier = "low"
)

// Weight returns the sort weight of the tier: High(1) < Normal(2) < Low(3).
// Unknown tiers sort as normal so a corrupt snapshot entry cannot jump the queue.
func (t Tier) Weight() int {
	switch t {
	case TierHigh:
		return 1
	case TierLow:
		return 3
	default:
		return 2
	}
}

// CatalogItem is one searchable entity as returned by the catalog provider.
// ImageURL is populated for products, MemberCount for categories.
type CatalogItem struct {
	Ref         ItemRef `json:"-"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	ImageURL    string  `json:"image_url,omitempty"`
	MemberCount int     `json:"count,omitempty"`
	ID          int64   `json:"id"`
}

// TaggedItem is a catalog item with the tier computed (or frozen) for one
// evaluation.
type TaggedItem struct {
	CatalogItem
	Tier Tier `json:"tier"`
}

// ResultCap is the maximum combined number of products and categories in a
// ranked result.
const ResultCap = 7

// RankedResult is the capped, tier-ordered answer to one query, partitioned
// back into kind buckets with relative rank preserved.
type RankedResult struct {
	Products   []TaggedItem `json:"products"`
	Categories []TaggedItem `json:"categories"`
}

// Total returns the combined number of entries in both buckets.
func (r *RankedResult) Total() int {
	return len(r.Products) + len(r.Categories)
}

// Dataset is a full, uncapped, tier-annotated catalog copy. It backs both
// the client-side full dataset cache and the snapshot document.
type Dataset struct {
	Products   []TaggedItem `json:"products"`
	Categories []TaggedItem `json:"categories"`
}

// SnapshotMeta describes the current Ready snapshot document.
type SnapshotMeta struct {
	GeneratedAt time.Time `json:"generated_at"`
	ContentHash string    `json:"content_hash"`
	DocumentURL string    `json:"document_url,omitempty"`
}

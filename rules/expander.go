package rules

import (
	"context"
	"log/slog"

	"github.com/poiesic/searchbox/catalog"
	"github.com/poiesic/searchbox/core"
)

// RawRules is one consistent read of all rule text fields. Callers must
// snapshot every field once at the start of an evaluation rather than
// re-reading per field, so a concurrent rule save can never produce a mix
// of old and new text within one expansion.
type RawRules struct {
	Excluded string
	Highest  string
	Lowest   string
}

// ExpandedRuleSet holds the exclusion and priority sets after category
// expansion and conflict resolution. It is derived per evaluation and never
// persisted.
type ExpandedRuleSet struct {
	excluded map[core.ItemRef]struct{}
	highest  map[core.ItemRef]struct{}
	lowest   map[core.ItemRef]struct{}
}

// IsExcluded reports whether the ref was excluded by rule.
func (s *ExpandedRuleSet) IsExcluded(ref core.ItemRef) bool {
	_, ok := s.excluded[ref]
	return ok
}

// TierOf returns the tier the priority rules assign to the ref.
func (s *ExpandedRuleSet) TierOf(ref core.ItemRef) core.Tier {
	if _, ok := s.highest[ref]; ok {
		return core.TierHigh
	}
	if _, ok := s.lowest[ref]; ok {
		return core.TierLow
	}
	return core.TierNormal
}

// ExcludedCount returns the number of expanded exclusion entries.
func (s *ExpandedRuleSet) ExcludedCount() int {
	return len(s.excluded)
}

// Expander resolves category rules into their member products via the
// catalog provider.
type Expander struct {
	provider catalog.Provider
	logger   *slog.Logger
}

// ExpanderOption configures an Expander.
type ExpanderOption func(*Expander)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ExpanderOption {
	return func(e *Expander) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// NewExpander creates a new expander.
func NewExpander(provider catalog.Provider, opts ...ExpanderOption) (*Expander, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}

	e := &Expander{
		provider: provider,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Expand parses the three raw rule fields and expands every category rule
// to its current member products.
//
// Invariants on the returned set:
//   - every member product of a ruled category lands in the same set as
//     the category itself
//   - highest and lowest are disjoint; a ref present in both keeps only
//     its highest membership
//   - excluded is expanded the same way but never interacts with priority
//
// A failed member lookup for one category keeps the bare category ref and
// continues; a single unreachable category must not abort the evaluation.
func (e *Expander) Expand(ctx context.Context, raw RawRules) *ExpandedRuleSet {
	set := &ExpandedRuleSet{
		excluded: e.expandRefs(ctx, ParseRefs(raw.Excluded)),
		highest:  e.expandRefs(ctx, ParseRefs(raw.Highest)),
		lowest:   e.expandRefs(ctx, ParseRefs(raw.Lowest)),
	}

	// Highest wins a conflict.
	for ref := range set.highest {
		delete(set.lowest, ref)
	}

	return set
}

// expandRefs unions each category's member products into the set alongside
// the originating refs.
func (e *Expander) expandRefs(ctx context.Context, refs []core.ItemRef) map[core.ItemRef]struct{} {
	set := make(map[core.ItemRef]struct{}, len(refs))
	for _, ref := range refs {
		set[ref] = struct{}{}
		if ref.Kind != core.KindCategory {
			continue
		}

		members, err := e.provider.CategoryMembers(ctx, ref.ID)
		if err != nil {
			// Unexpandable: keep the bare category ref only.
			e.logger.Warn("category member lookup failed, keeping bare category rule",
				"category", ref.ID, "err", err)
			continue
		}
		for _, productID := range members {
			set[core.ProductRef(productID)] = struct{}{}
		}
	}
	return set
}

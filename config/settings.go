package config

import (
	"context"

	"github.com/poiesic/searchbox/core"
	"github.com/poiesic/searchbox/rules"
)

// Store field keys. These are the exact, stable names operators and tooling
// address rule text by.
const (
	KeyCustomTypes = "custom_post_type"
	KeyExcluded    = "exclude_from_search_result"
	KeyHighest     = "highest_priority"
	KeyLowest      = "lowest_priority"
)

// Settings is one consistent read of all four rule configuration fields.
// The raw fields hold operator-entered newline-delimited text; parsing and
// validation happen downstream so stray text round-trips unchanged.
type Settings struct {
	CustomTypes string
	Excluded    string
	Highest     string
	Lowest      string
}

// SearchTypes returns the item types a query should cover: always
// "product", plus any configured custom types.
func (s Settings) SearchTypes() []string {
	types := []string{string(core.KindProduct)}
	return append(types, rules.ParseLines(s.CustomTypes)...)
}

// RawRules returns the three rule fields as one expansion input.
func (s Settings) RawRules() rules.RawRules {
	return rules.RawRules{
		Excluded: s.Excluded,
		Highest:  s.Highest,
		Lowest:   s.Lowest,
	}
}

// Store persists the rule configuration fields.
//
// Load must return all fields from a single consistent read and Save must
// apply all fields as a single logical write: a reader may observe the
// state before or after a save, never a mix.
type Store interface {
	// Load reads all settings fields at once.
	// A store with no saved settings returns zero-value Settings, not an error.
	Load(ctx context.Context) (Settings, error)

	// Save writes all settings fields as one unit.
	Save(ctx context.Context, settings Settings) error

	// Get reads a single field by key.
	Get(ctx context.Context, key string) (string, error)

	// Set writes a single field by key.
	Set(ctx context.Context, key, value string) error
}

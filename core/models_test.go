package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemRefString(t *testing.T) {
	assert.Equal(t, "product:42", ProductRef(42).String())
	assert.Equal(t, "category:5", CategoryRef(5).String())
}

func TestParseItemRef(t *testing.T) {
	t.Run("valid product", func(t *testing.T) {
		ref, err := ParseItemRef("product:10")
		require.NoError(t, err)
		assert.Equal(t, ProductRef(10), ref)
	})

	t.Run("valid category", func(t *testing.T) {
		ref, err := ParseItemRef("category:5")
		require.NoError(t, err)
		assert.Equal(t, CategoryRef(5), ref)
	})

	t.Run("round trip", func(t *testing.T) {
		ref, err := ParseItemRef(ProductRef(987654).String())
		require.NoError(t, err)
		assert.Equal(t, ProductRef(987654), ref)
	})

	t.Run("rejects input outside the grammar", func(t *testing.T) {
		for _, s := range []string{
			"",
			"product",
			"product:",
			"product:abc",
			"product:12abc",
			"Product:12",
			" product:12",
			"product:12 ",
			"post:12",
			"category:-3",
			"product:12:extra",
		} {
			_, err := ParseItemRef(s)
			assert.ErrorIs(t, err, ErrMalformedRef, "input %q", s)
		}
	})
}

func TestItemRefSetMembership(t *testing.T) {
	// ItemRef is a comparable value type; set membership is by (kind, id).
	set := map[ItemRef]struct{}{
		ProductRef(10): {},
	}
	_, ok := set[ProductRef(10)]
	assert.True(t, ok)
	_, ok = set[CategoryRef(10)]
	assert.False(t, ok)
}

func TestTierWeight(t *testing.T) {
	assert.Equal(t, 1, TierHigh.Weight())
	assert.Equal(t, 2, TierNormal.Weight())
	assert.Equal(t, 3, TierLow.Weight())
	assert.Equal(t, 2, Tier("garbage").Weight())
}

func TestRankedResultTotal(t *testing.T) {
	r := &RankedResult{
		Products:   make([]TaggedItem, 4),
		Categories: make([]TaggedItem, 2),
	}
	assert.Equal(t, 6, r.Total())
}

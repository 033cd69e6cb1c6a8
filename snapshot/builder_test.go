package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/searchbox/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource returns a fixed dataset, with optional error and delay.
type stubSource struct {
	dataset *core.Dataset
	err     error
	delay   time.Duration
	calls   atomic.Int32
}

func (s *stubSource) Dataset(ctx context.Context) (*core.Dataset, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.dataset, nil
}

func testDataset() *core.Dataset {
	return &core.Dataset{
		Products: []core.TaggedItem{
			{CatalogItem: core.CatalogItem{Ref: core.ProductRef(1), Title: "Blue Widget", ID: 1}, Tier: core.TierHigh},
			{CatalogItem: core.CatalogItem{Ref: core.ProductRef(2), Title: "Red Widget", ID: 2}, Tier: core.TierNormal},
		},
		Categories: []core.TaggedItem{
			{CatalogItem: core.CatalogItem{Ref: core.CategoryRef(5), Title: "Widgets", MemberCount: 2, ID: 5}, Tier: core.TierNormal},
		},
	}
}

func TestNewBuilder(t *testing.T) {
	store := newTestStore(t)

	t.Run("valid configuration", func(t *testing.T) {
		b, err := NewBuilder(&stubSource{dataset: testDataset()}, store)
		require.NoError(t, err)
		assert.NotNil(t, b)
	})

	t.Run("nil source", func(t *testing.T) {
		_, err := NewBuilder(nil, store)
		assert.Equal(t, ErrSourceRequired, err)
	})

	t.Run("nil store", func(t *testing.T) {
		_, err := NewBuilder(&stubSource{}, nil)
		assert.Equal(t, ErrStoreRequired, err)
	})
}

func TestBuild(t *testing.T) {
	store := newTestStore(t)
	b, err := NewBuilder(&stubSource{dataset: testDataset()}, store, WithDocumentURL("/snap.json"))
	require.NoError(t, err)

	meta, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.False(t, meta.GeneratedAt.IsZero())
	assert.NotEmpty(t, meta.ContentHash)
	assert.Equal(t, "/snap.json", meta.DocumentURL)

	document, stored, err := store.Document(context.Background())
	require.NoError(t, err)
	assert.Equal(t, meta.ContentHash, stored.ContentHash)

	var dataset core.Dataset
	require.NoError(t, json.Unmarshal(document, &dataset))
	assert.Len(t, dataset.Products, 2)
	assert.Len(t, dataset.Categories, 1)
	// Tiers are frozen in the document.
	assert.Equal(t, core.TierHigh, dataset.Products[0].Tier)
}

func TestBuild_Idempotent(t *testing.T) {
	store := newTestStore(t)
	b, err := NewBuilder(&stubSource{dataset: testDataset()}, store)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := b.Build(ctx)
	require.NoError(t, err)
	firstDoc, _, err := store.Document(ctx)
	require.NoError(t, err)

	second, err := b.Build(ctx)
	require.NoError(t, err)
	secondDoc, _, err := store.Document(ctx)
	require.NoError(t, err)

	// Unchanged catalog and rules: byte-identical document, identical hash,
	// only the freshness stamp differs.
	assert.Equal(t, firstDoc, secondDoc)
	assert.Equal(t, first.ContentHash, second.ContentHash)
	assert.False(t, second.GeneratedAt.Before(first.GeneratedAt))
}

func TestBuild_JoinsInFlightBuild(t *testing.T) {
	store := newTestStore(t)
	source := &stubSource{dataset: testDataset(), delay: 50 * time.Millisecond}
	b, err := NewBuilder(source, store)
	require.NoError(t, err)

	var wg sync.WaitGroup
	metas := make([]core.SnapshotMeta, 8)
	for i := range metas {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			meta, err := b.Build(context.Background())
			assert.NoError(t, err)
			metas[i] = meta
		}(i)
	}
	wg.Wait()

	// One in-flight build served every concurrent trigger.
	assert.Equal(t, int32(1), source.calls.Load())
	for _, meta := range metas[1:] {
		assert.True(t, meta.GeneratedAt.Equal(metas[0].GeneratedAt))
	}
}

func TestBuild_SourceFailure(t *testing.T) {
	store := newTestStore(t)
	b, err := NewBuilder(&stubSource{err: errors.New("catalog down")}, store)
	require.NoError(t, err)

	_, err = b.Build(context.Background())
	require.Error(t, err)

	_, _, err = store.Document(context.Background())
	assert.ErrorIs(t, err, ErrSnapshotMissing)
}

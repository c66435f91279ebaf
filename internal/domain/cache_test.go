package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"narrow.dev/pkg/narrow/internal/adapter"
	m "narrow.dev/pkg/narrow/internal/model"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func sampleAnalysis() m.AnalysisResult {
	return m.AnalysisResult{
		Path: "src/a.ts",
		Hash: "abc",
		Occurrences: []m.Occurrence{{
			Line:        1,
			Column:      8,
			Start:       7,
			End:         10,
			Context:     m.ContextFunction,
			Pattern:     m.SurfacePattern{Kind: m.PatternParameter, Name: "data", Text: "data: any"},
			Replacement: typeRecord,
			Source:      m.SourceRule,
			Rule:        "data",
		}},
		Total: 1,
	}
}

func TestResultCache_SetGet(t *testing.T) {
	ctx := context.Background()
	store := adapter.NewMemoryCacheStore()
	cache := NewResultCache[m.AnalysisResult](store, time.Hour)

	_, ok := cache.Get(ctx, "missing")
	assert.False(t, ok)

	want := sampleAnalysis()
	cache.Set(ctx, "src/a.ts\x00abc", want)

	got, ok := cache.Get(ctx, "src/a.ts\x00abc")
	require.True(t, ok)
	assert.Equal(t, want, got)
	assert.Equal(t, 1, store.Len())
}

func TestResultCache_HoldsIndependentCopy(t *testing.T) {
	ctx := context.Background()
	cache := NewResultCache[m.AnalysisResult](adapter.NewMemoryCacheStore(), time.Hour)

	original := sampleAnalysis()
	cache.Set(ctx, "k", original)

	original.Occurrences[0].Replacement = "mutated"

	first, ok := cache.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, typeRecord, first.Occurrences[0].Replacement)

	first.Occurrences[0].Replacement = "mutated again"

	second, ok := cache.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, typeRecord, second.Occurrences[0].Replacement)
}

func TestResultCache_ExpiresLazily(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	store := adapter.NewMemoryCacheStore()
	cache := NewResultCache[m.AnalysisResult](store, time.Minute, WithCacheClock(clock.Now))

	cache.Set(ctx, "k", sampleAnalysis())

	clock.now = clock.now.Add(59 * time.Second)
	_, ok := cache.Get(ctx, "k")
	assert.True(t, ok, "entry within ttl should hit")

	clock.now = clock.now.Add(2 * time.Second)
	_, ok = cache.Get(ctx, "k")
	assert.False(t, ok, "expired entry should miss")
	assert.Equal(t, 0, store.Len(), "expired entry should be evicted on read")
}

func TestResultCache_NoExpiryWithoutTTL(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(0, 0)}
	cache := NewResultCache[m.AnalysisResult](adapter.NewMemoryCacheStore(), 0, WithCacheClock(clock.Now))

	cache.Set(ctx, "k", sampleAnalysis())
	clock.now = clock.now.Add(24 * 365 * time.Hour)

	_, ok := cache.Get(ctx, "k")
	assert.True(t, ok)
}

func TestResultCache_DiscardsUndecodableEntries(t *testing.T) {
	ctx := context.Background()
	store := adapter.NewMemoryCacheStore()
	cache := NewResultCache[m.AnalysisResult](store, time.Hour)

	require.NoError(t, store.Set(ctx, CacheKey("k"), []byte{0xff, 0x00, 0x13}))

	_, ok := cache.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

type failingStore struct {
	err error
}

func (s failingStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, s.err }
func (s failingStore) Set(context.Context, string, []byte) error         { return s.err }
func (s failingStore) Delete(context.Context, string) error              { return s.err }
func (s failingStore) Clear(context.Context) error                       { return s.err }
func (s failingStore) Close() error                                      { return nil }

func TestResultCache_StoreFailuresDegrade(t *testing.T) {
	ctx := context.Background()
	storeErr := errors.New("disk full")
	cache := NewResultCache[m.AnalysisResult](failingStore{err: storeErr}, time.Hour)

	cache.Set(ctx, "k", sampleAnalysis())

	_, ok := cache.Get(ctx, "k")
	assert.False(t, ok)
	assert.ErrorIs(t, cache.Clear(ctx), storeErr)
}

func TestResultCache_NilIsDisabled(t *testing.T) {
	var cache *ResultCache[m.AnalysisResult]

	ctx := context.Background()
	cache.Set(ctx, "k", sampleAnalysis())

	_, ok := cache.Get(ctx, "k")
	assert.False(t, ok)
	assert.NoError(t, cache.Clear(ctx))
}

func TestCacheKey(t *testing.T) {
	a := CacheKey("src/a.ts\x00hash1")
	b := CacheKey("src/a.ts\x00hash2")

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, CacheKey("src/a.ts\x00hash1"))
}

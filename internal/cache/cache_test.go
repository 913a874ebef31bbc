package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSetGet(t *testing.T) {
	c := New(time.Minute)

	key := ProductKey{ID: 42}
	c.Set(key, "value")

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, "value", got)

	_, ok = c.Get(ProductKey{ID: 43})
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	c := New(time.Minute)

	key := ProductKey{ID: 1}
	c.SetTTL(key, "short-lived", 10*time.Millisecond)

	_, ok := c.Get(key)
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)

	_, ok = c.Get(key)
	assert.False(t, ok)
	// expired entry is dropped on read
	assert.Equal(t, 0, c.Len())
}

func TestCacheClear(t *testing.T) {
	c := New(time.Minute)
	c.Set(ProductKey{ID: 1}, "a")
	c.Set(ProductKey{ID: 2}, "b")
	require.Equal(t, 2, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())

	_, ok := c.Get(ProductKey{ID: 1})
	assert.False(t, ok)
}

func TestCacheDelete(t *testing.T) {
	c := New(time.Minute)
	c.Set(ProductKey{ID: 1}, "a")
	c.Delete(ProductKey{ID: 1})

	_, ok := c.Get(ProductKey{ID: 1})
	assert.False(t, ok)
}

func TestProductQueryKeyDistinguishesParams(t *testing.T) {
	base := ProductQuery{Page: 1, PerPage: 20}

	variants := []ProductQuery{
		{Page: 2, PerPage: 20},
		{Page: 1, PerPage: 50},
		{Page: 1, PerPage: 20, CategoryID: 7},
		{Page: 1, PerPage: 20, Search: "ryzen"},
		{Page: 1, PerPage: 20, Component: "gpu"},
		{Page: 1, PerPage: 20, Featured: true},
		{Page: 1, PerPage: 20, MinPrice: 100},
		{Page: 1, PerPage: 20, MaxPrice: 500},
		{Page: 1, PerPage: 20, InStock: true},
		{Page: 1, PerPage: 20, OrderBy: "price", Order: "asc"},
		{Page: 1, PerPage: 20, AdminView: true},
		{Page: 1, PerPage: 20, AdminView: true, Status: "draft"},
	}

	seen := map[string]bool{base.CacheKey(): true}
	for _, q := range variants {
		k := q.CacheKey()
		assert.False(t, seen[k], "duplicate cache key: %s", k)
		seen[k] = true
	}
}

func TestRandomOrderNotCacheable(t *testing.T) {
	c := New(time.Minute)

	q := ProductQuery{Page: 1, PerPage: 20, OrderBy: "rand"}
	assert.False(t, q.Cacheable())

	c.Set(q, "shuffled")
	_, ok := c.Get(q)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())

	assert.False(t, ProductQuery{OrderBy: "random"}.Cacheable())
	assert.True(t, ProductQuery{OrderBy: "price"}.Cacheable())
}

func TestProductQueryFiltered(t *testing.T) {
	assert.False(t, ProductQuery{Page: 3, PerPage: 50, OrderBy: "price"}.Filtered())

	assert.True(t, ProductQuery{CategoryID: 1}.Filtered())
	assert.True(t, ProductQuery{Search: "x"}.Filtered())
	assert.True(t, ProductQuery{Component: "cpu"}.Filtered())
	assert.True(t, ProductQuery{Featured: true}.Filtered())
	assert.True(t, ProductQuery{MinPrice: 1}.Filtered())
	assert.True(t, ProductQuery{MaxPrice: 1}.Filtered())
	assert.True(t, ProductQuery{InStock: true}.Filtered())
}

func TestCategoryQueryKeys(t *testing.T) {
	flat := CategoryQuery{All: true}
	roots := CategoryQuery{}
	children := CategoryQuery{ParentID: 5}
	tree := CategoryQuery{Tree: true}

	keys := map[string]bool{}
	for _, q := range []CategoryQuery{flat, roots, children, tree} {
		keys[q.CacheKey()] = true
	}
	assert.Len(t, keys, 4)
}

package cache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapreviews/models"
)

func testResponse(count int) *models.ReviewsResponse {
	return &models.ReviewsResponse{Success: true, Count: count}
}

func TestCache_HitWithinMaxAge(t *testing.T) {
	c := New(10)
	key := Key("https://maps.example.com/org/1")

	c.Set(key, testResponse(3))

	got, hit := c.Get(key, 60_000)
	require.True(t, hit)
	assert.Equal(t, 3, got.Count)
	assert.True(t, got.Cached, "cache hits are marked")
}

func TestCache_MissWhenDisabled(t *testing.T) {
	c := New(10)
	key := Key("https://maps.example.com/org/1")
	c.Set(key, testResponse(3))

	_, hit := c.Get(key, 0)
	assert.False(t, hit, "maxAge 0 disables lookup")
}

func TestCache_MissForUnknownKey(t *testing.T) {
	c := New(10)
	_, hit := c.Get(Key("https://maps.example.com/org/404"), 60_000)
	assert.False(t, hit)
}

func TestCache_HitDoesNotMutateStoredEntry(t *testing.T) {
	c := New(10)
	key := Key("https://maps.example.com/org/1")
	c.Set(key, testResponse(1))

	_, _ = c.Get(key, 60_000)
	got, hit := c.Get(key, 60_000)
	require.True(t, hit)
	assert.True(t, got.Cached)

	c.mu.RLock()
	defer c.mu.RUnlock()
	assert.False(t, c.store[key].response.Cached, "stored entry stays unmarked")
}

func TestCache_EvictsAtCapacity(t *testing.T) {
	c := New(3)
	for i := 0; i < 5; i++ {
		c.Set(Key(fmt.Sprintf("https://maps.example.com/org/%d", i)), testResponse(i))
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	assert.LessOrEqual(t, len(c.store), 3)
}

func TestKey_Deterministic(t *testing.T) {
	assert.Equal(t, Key("https://a"), Key("https://a"))
	assert.NotEqual(t, Key("https://a"), Key("https://b"))
}

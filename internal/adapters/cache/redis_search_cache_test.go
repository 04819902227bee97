package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arpankumarde/neevtrace/internal/ports"
)

func newTestCache(t *testing.T) (*RedisSearchCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisSearchCache(rdb), mr
}

func TestRedisSearchCache_RoundTripAndExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "wikipedia", "carbon footprint")
	require.NoError(t, err)
	assert.False(t, ok)

	want := []ports.SearchResult{{Title: "Carbon footprint", URL: "https://en.wikipedia.org/wiki/Carbon_footprint"}}
	require.NoError(t, c.Put(ctx, "wikipedia", "carbon footprint", want, time.Minute))

	got, ok, err := c.Get(ctx, "wikipedia", "  Carbon   FOOTPRINT ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	_, ok, err = c.Get(ctx, "arxiv", "carbon footprint")
	require.NoError(t, err)
	assert.False(t, ok, "sources must not share entries")

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.Get(ctx, "wikipedia", "carbon footprint")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDial(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := Dial(context.Background(), mr.Addr())
	require.NoError(t, err)
	rdb.Close()

	mr.Close()
	_, err = Dial(context.Background(), mr.Addr())
	require.Error(t, err)
}

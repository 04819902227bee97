package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/arpankumarde/neevtrace/internal/platform/obs"
	"github.com/arpankumarde/neevtrace/internal/ports"
)

const searchKeyPrefix = "neevtrace:search:"

// RedisSearchCache keeps tool search results in Redis under
// neevtrace:search:<source>:<sha256(query)> with a TTL.
type RedisSearchCache struct {
	rdb *redis.Client
}

func NewRedisSearchCache(rdb *redis.Client) *RedisSearchCache {
	return &RedisSearchCache{rdb: rdb}
}

// Dial connects to addr and checks the connection with PING.
func Dial(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

func searchKey(source, query string) string {
	q := strings.ToLower(strings.Join(strings.Fields(query), " "))
	sum := sha256.Sum256([]byte(q))
	return searchKeyPrefix + source + ":" + hex.EncodeToString(sum[:])
}

func (c *RedisSearchCache) Get(ctx context.Context, source, query string) (_ []ports.SearchResult, _ bool, err error) {
	defer obs.Time(ctx, "search.cache.Get")(&err)

	raw, err := c.rdb.Get(ctx, searchKey(source, query)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("search cache get: %w", err)
	}

	var results []ports.SearchResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, false, fmt.Errorf("search cache decode: %w", err)
	}
	return results, true, nil
}

func (c *RedisSearchCache) Put(ctx context.Context, source, query string, results []ports.SearchResult, ttl time.Duration) (err error) {
	defer obs.Time(ctx, "search.cache.Put")(&err)

	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("search cache encode: %w", err)
	}
	if err := c.rdb.Set(ctx, searchKey(source, query), raw, ttl).Err(); err != nil {
		return fmt.Errorf("search cache set: %w", err)
	}
	return nil
}

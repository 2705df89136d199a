package internal

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Standings stay cached for one freshness window; writers that change scores
// or config tolerate up to this much staleness.
const cacheTTL = 60 * time.Second

// QueryCache memoizes standings computations in Redis. A nil cache, a miss,
// and a Redis failure all look the same to callers: compute again. Concurrent
// refreshes of one key are idempotent - within a window every writer computes
// the same value from the same rows, so last-writer-wins is fine.
type QueryCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewQueryCache(rdb *redis.Client) *QueryCache {
	return &QueryCache{rdb: rdb, ttl: cacheTTL}
}

// cacheKey builds the canonical key for one memoized call. Every effective
// argument must appear as its own part, in an order fixed by the caller.
func cacheKey(fn string, parts ...string) string {
	return "scoreboard:" + fn + ":" + strings.Join(parts, ":")
}

func (qc *QueryCache) get(ctx context.Context, key string, dest any) bool {
	if qc == nil || qc.rdb == nil {
		return false
	}
	b, err := qc.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(b, dest) == nil
}

func (qc *QueryCache) set(ctx context.Context, key string, v any) {
	if qc == nil || qc.rdb == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	qc.rdb.Set(ctx, key, b, qc.ttl)
}

package internal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheKeyCanonical(t *testing.T) {
	a := cacheKey("standings", "admin=false", "category=web", "count=10")
	b := cacheKey("standings", "admin=false", "category=web", "count=10")
	assert.Equal(t, a, b)
	assert.Equal(t, "scoreboard:standings:admin=false:category=web:count=10", a)

	// every effective argument must change the key
	assert.NotEqual(t, a, cacheKey("standings", "admin=true", "category=web", "count=10"))
	assert.NotEqual(t, a, cacheKey("standings", "admin=false", "category=pwn", "count=10"))
	assert.NotEqual(t, a, cacheKey("standings", "admin=false", "category=web", "count=0"))
	assert.NotEqual(t, a, cacheKey("matched_standings", "admin=false", "category=web", "count=10"))
}

func TestNilCacheFallsThrough(t *testing.T) {
	ctx := context.Background()

	var qc *QueryCache
	var out []StandingsEntry
	assert.False(t, qc.get(ctx, "scoreboard:standings:x", &out))
	qc.set(ctx, "scoreboard:standings:x", out) // must not panic

	empty := &QueryCache{}
	assert.False(t, empty.get(ctx, "scoreboard:standings:x", &out))
	empty.set(ctx, "scoreboard:standings:x", out)
}

package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_PerUserBuckets(t *testing.T) {
	rl := NewRateLimiter(1, 2)

	assert.True(t, rl.Allow("alice"))
	assert.True(t, rl.Allow("alice"))
	assert.False(t, rl.Allow("alice"))

	assert.True(t, rl.Allow("bob"), "another user has its own bucket")
}

func TestRateLimiter_PrunesFullBuckets(t *testing.T) {
	rl := NewRateLimiter(60, 1)

	rl.Allow("alice")
	rl.limiter("bob")
	rl.limiter("carol")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Contains(t, rl.limiters, "alice")
	assert.Contains(t, rl.limiters, "carol")
	assert.NotContains(t, rl.limiters, "bob")
}

package redis

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"
)

// voteRateLimitScript implements a token bucket per voter. It refills
// fractional tokens based on elapsed time, consumes one token when available,
// and expires idle buckets after twice the full refill window.
// ARGV: [1]=now_ms, [2]=capacity, [3]=rate per minute
var voteRateLimitScript = goredis.NewScript(`
local tokens = tonumber(redis.call('HGET', KEYS[1], 'tokens'))
local last_refill = tonumber(redis.call('HGET', KEYS[1], 'last_refill'))
local now = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local rate = tonumber(ARGV[3])

if tokens == nil then
	tokens = capacity
	last_refill = now
end

local elapsed = now - last_refill
if elapsed > 0 then
	tokens = math.min(capacity, tokens + elapsed * rate / 60000.0)
end

local allowed = 0
if tokens >= 1 then
	tokens = tokens - 1
	allowed = 1
end

redis.call('HSET', KEYS[1], 'tokens', tostring(tokens), 'last_refill', tostring(now))
redis.call('PEXPIRE', KEYS[1], math.ceil(2 * capacity * 60000 / rate))
return allowed
`)

// VoteRateLimiter implements token bucket rate limiting for votes.
type VoteRateLimiter struct {
	rdb      *goredis.Client
	clock    clockwork.Clock
	capacity int
	rate     int // tokens per minute
}

// NewVoteRateLimiter creates a new vote rate limiter.
// capacity: maximum burst size (tokens)
// rate: sustained rate (tokens per minute)
func NewVoteRateLimiter(client *Client, clock clockwork.Clock, capacity, rate int) *VoteRateLimiter {
	return &VoteRateLimiter{
		rdb:      client.rdb,
		clock:    clock,
		capacity: capacity,
		rate:     rate,
	}
}

// CheckVoteRateLimit checks if a vote is allowed for the user.
// Returns true if allowed (token consumed), false if rate limited.
func (v *VoteRateLimiter) CheckVoteRateLimit(ctx context.Context, userID uuid.UUID) (bool, error) {
	key := fmt.Sprintf("rate_limit:votes:%s", userID)

	result, err := voteRateLimitScript.Run(ctx, v.rdb, []string{key},
		v.clock.Now().UnixMilli(),
		v.capacity,
		v.rate,
	).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}

	return result == 1, nil
}

package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prperemyshlev/connect-service/pkg/database"
	"github.com/redis/go-redis/v9"
)

// slidingWindow prunes expired hits, then records a new one only while the
// window holds fewer than limit. Scores are unix milliseconds.
// Returns {allowed, count, oldest score}.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count >= limit then
	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	return {0, count, oldest[2] or '0'}
end

redis.call('ZADD', key, ARGV[1], ARGV[4])
redis.call('PEXPIRE', key, window + 60000)
return {1, count + 1, '0'}
`)

// RateDecision is the outcome of a rate limit check
type RateDecision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter handles rate limiting using a Redis sliding window log
type RateLimiter struct {
	redis *database.Redis
	now   func() time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(redis *database.Redis) *RateLimiter {
	return &RateLimiter{redis: redis, now: time.Now}
}

// Allow records a hit for key unless limit hits already fall inside window.
// The check and the insert run as one script on the server.
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (RateDecision, error) {
	now := r.now()

	result, err := slidingWindow.Run(ctx, r.redis.Client,
		[]string{"ratelimit:" + key},
		now.UnixMilli(),
		window.Milliseconds(),
		limit,
		uuid.NewString(),
	).Slice()
	if err != nil {
		return RateDecision{}, fmt.Errorf("failed to evaluate rate window: %w", err)
	}

	allowed, count, oldest, err := parseWindowResult(result)
	if err != nil {
		return RateDecision{}, err
	}

	decision := RateDecision{Limit: limit}

	if !allowed {
		if oldest > 0 {
			decision.RetryAfter = window - now.Sub(time.UnixMilli(oldest))
		}
		if decision.RetryAfter <= 0 {
			decision.RetryAfter = window
		}
		return decision, nil
	}

	decision.Allowed = true
	decision.Remaining = max(limit-int(count), 0)
	return decision, nil
}

func parseWindowResult(result []any) (allowed bool, count, oldest int64, err error) {
	if len(result) != 3 {
		return false, 0, 0, fmt.Errorf("unexpected rate window reply: %v", result)
	}

	flag, ok := result[0].(int64)
	if !ok {
		return false, 0, 0, fmt.Errorf("unexpected rate window flag: %v", result[0])
	}
	count, ok = result[1].(int64)
	if !ok {
		return false, 0, 0, fmt.Errorf("unexpected rate window count: %v", result[1])
	}

	score, _ := result[2].(string)
	parsed, err := strconv.ParseFloat(score, 64)
	if err != nil {
		return false, 0, 0, fmt.Errorf("unexpected rate window score %q: %w", score, err)
	}

	return flag == 1, count, int64(parsed), nil
}

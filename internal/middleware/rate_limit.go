package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/damoang/angple-notes/internal/common"
	"github.com/damoang/angple-notes/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const rateLimitWindow = time.Minute

// RateLimitConfig configures the rate limiter
type RateLimitConfig struct {
	RequestsPerMinute int
	KeyPrefix         string
	// KeyFunc picks the bucket for a request; defaults to the client IP
	KeyFunc func(c *gin.Context) string
}

// rateLimitScript is an atomic Lua script for sliding window rate limiting
var rateLimitScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local window_start = now - window

redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
local count = redis.call('ZCARD', key)

if count < limit then
    redis.call('ZADD', key, now, now .. ':' .. math.random(1000000))
    redis.call('EXPIRE', key, math.ceil(window / 1000) + 1)
    return {1, limit - count - 1, 0}
else
    local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
    local reset_at = 0
    if #oldest >= 2 then
        reset_at = tonumber(oldest[2]) + window
    end
    return {0, 0, reset_at}
end
`)

// RateLimit returns a sliding-window limiter backed by redis.
// A nil client or a non-positive limit makes it a no-op; redis errors fail open.
func RateLimit(redisClient *redis.Client, cfg RateLimitConfig) gin.HandlerFunc {
	if redisClient == nil || cfg.RequestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}

	return func(c *gin.Context) {
		key := cfg.KeyPrefix + keyFunc(c)
		now := time.Now().UnixMilli()
		windowMs := rateLimitWindow.Milliseconds()

		result, err := rateLimitScript.Run(c.Request.Context(), redisClient, []string{key},
			cfg.RequestsPerMinute, windowMs, now,
		).Int64Slice()
		if err != nil || len(result) != 3 {
			logger.GetLogger().Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
			c.Next()
			return
		}

		allowed := result[0] == 1
		remaining := result[1]
		resetAt := result[2]

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerMinute))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if !allowed {
			retryAfter := (resetAt - now) / 1000
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Reset", strconv.FormatInt(resetAt/1000, 10))
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			common.ErrorResponse(c, http.StatusTooManyRequests, "Too many requests, try again later", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RateLimitPerUser keys the limiter by authenticated user id, falling back to the client IP.
// Must run after JWTAuth.
func RateLimitPerUser(redisClient *redis.Client, requestsPerMinute int) gin.HandlerFunc {
	return RateLimit(redisClient, RateLimitConfig{
		RequestsPerMinute: requestsPerMinute,
		KeyPrefix:         "notes:ratelimit:user:",
		KeyFunc: func(c *gin.Context) string {
			if id, ok := GetUserID(c); ok {
				return strconv.FormatUint(id, 10)
			}
			return "ip:" + c.ClientIP()
		},
	})
}

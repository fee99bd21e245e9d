package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"

	"github.com/nissyi-gh/prio/internal/logger"
)

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// requestLog logs each request through slog and counts it.
func requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// RateLimiter is a fixed-window limiter keyed by client IP, backed by Redis.
// A nil RateLimiter, or one whose Redis is unreachable, lets every request through.
type RateLimiter struct {
	client      *redis.Client
	maxRequests int
	window      time.Duration
}

// NewRateLimiter connects to Redis at addr. It returns nil when addr is empty
// or the server does not answer a ping.
func NewRateLimiter(addr, password string, db, maxRequests int, window time.Duration) *RateLimiter {
	if addr == "" || maxRequests <= 0 {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, rate limiting disabled", "addr", addr, "error", err)
		client.Close()
		return nil
	}
	return &RateLimiter{client: client, maxRequests: maxRequests, window: window}
}

// Close releases the Redis connection.
func (l *RateLimiter) Close() error {
	if l == nil {
		return nil
	}
	return l.client.Close()
}

// Middleware returns the gin handler enforcing the limit.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}

		key := "prio:rl:" + strconv.FormatInt(int64(l.window.Seconds()), 10) + ":" + c.ClientIP()
		ctx := c.Request.Context()

		val, err := l.client.Incr(ctx, key).Result()
		if err != nil {
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}
		if val == 1 {
			l.client.Expire(ctx, key, l.window)
		}

		if val > int64(l.maxRequests) {
			rateLimited.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

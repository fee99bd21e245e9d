package api

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiter_Disabled(t *testing.T) {
	assert.Nil(t, NewRateLimiter("", "", 0, 10, time.Minute))
	assert.Nil(t, NewRateLimiter("127.0.0.1:6379", "", 0, 0, time.Minute))
	assert.Nil(t, NewRateLimiter("127.0.0.1:1", "", 0, 10, time.Minute))
}

func TestRateLimiter_NilPassesThrough(t *testing.T) {
	var l *RateLimiter
	assert.NoError(t, l.Close())

	s := NewServer(&memRepo{}, Options{RateLimiter: l, Now: func() time.Time { return now }})
	for i := 0; i < 5; i++ {
		w := doRequest(t, s, http.MethodGet, "/api/tasks", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimiter_Redis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	l := NewRateLimiter(addr, os.Getenv("REDIS_PASSWORD"), 0, 2, time.Minute)
	require.NotNil(t, l)
	t.Cleanup(func() { l.Close() })
	require.NoError(t, l.client.Del(context.Background(), "prio:rl:60:192.0.2.1").Err())

	s := NewServer(&memRepo{}, Options{RateLimiter: l, Now: func() time.Time { return now }})
	codes := make([]int, 3)
	for i := range codes {
		codes[i] = doRequest(t, s, http.MethodGet, "/api/tasks", nil).Code
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	w := doRequest(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

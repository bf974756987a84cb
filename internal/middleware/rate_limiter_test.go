package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func limiterTestRouter(t *testing.T, conf LimiterConfig, key KeySelector) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	rl := NewRateLimiter(conf)
	t.Cleanup(rl.Close)
	r.GET("/ping", rl.Middleware(key), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRateLimiterThrottlesAfterBurst(t *testing.T) {
	r := limiterTestRouter(t, LimiterConfig{RPS: 1, Burst: 3, IdleTTL: time.Minute}, func(c *gin.Context) string {
		return "fixed"
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code, "request %d within burst", i)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	r := limiterTestRouter(t, LimiterConfig{RPS: 1, Burst: 1, IdleTTL: time.Minute}, func(c *gin.Context) string {
		return c.GetHeader("X-Caller")
	})

	send := func(caller string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Caller", caller)
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("alice"))
	assert.Equal(t, http.StatusTooManyRequests, send("alice"))
	assert.Equal(t, http.StatusOK, send("bob"))
}

// Close must actually stop the sweeper: it waits for the goroutine to
// exit, so a hang here means the limiter leaked it.
func TestRateLimiterCloseStopsSweeper(t *testing.T) {
	rl := NewRateLimiter(LimiterConfig{RPS: 1, Burst: 1, IdleTTL: 10 * time.Millisecond})
	rl.getLimiter("caller")

	done := make(chan struct{})
	go func() {
		rl.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not stop the sweeper")
	}
}

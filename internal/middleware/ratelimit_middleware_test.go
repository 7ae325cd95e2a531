package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"learnquest-backend/internal/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestRouter(limiter *ratelimit.Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(limiter))
	router.GET("/api/progress", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/blog", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func doRequest(router *gin.Engine, path, forwardedFor string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware_RejectsOverBudget(t *testing.T) {
	limiter := ratelimit.NewLimiter(map[ratelimit.Category]int{
		ratelimit.CategoryAPI: 3,
	}, time.Minute)
	router := newTestRouter(limiter)

	for i := 0; i < 3; i++ {
		w := doRequest(router, "/api/progress", "203.0.113.7")
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := doRequest(router, "/api/progress", "203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error": "Too many requests. Please try again later."}`, w.Body.String())
}

func TestRateLimitMiddleware_UncategorizedPassesThrough(t *testing.T) {
	limiter := ratelimit.NewLimiter(map[ratelimit.Category]int{
		ratelimit.CategoryAPI: 1,
	}, time.Minute)
	router := newTestRouter(limiter)

	for i := 0; i < 10; i++ {
		w := doRequest(router, "/blog", "203.0.113.7")
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitMiddleware_ClientsIsolated(t *testing.T) {
	limiter := ratelimit.NewLimiter(map[ratelimit.Category]int{
		ratelimit.CategoryAPI: 1,
	}, time.Minute)
	router := newTestRouter(limiter)

	assert.Equal(t, http.StatusOK, doRequest(router, "/api/progress", "203.0.113.7").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(router, "/api/progress", "203.0.113.7").Code)
	assert.Equal(t, http.StatusOK, doRequest(router, "/api/progress", "198.51.100.1").Code)
}

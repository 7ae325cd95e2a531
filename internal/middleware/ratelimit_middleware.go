package middleware

import (
	"net/http"

	"learnquest-backend/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware runs before any handler. It classifies the request path
// into a rate-limit category and rejects over-budget clients with 429 before
// the handler or any storage access happens. Uncategorized paths pass through.
func RateLimitMiddleware(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, limited := ratelimit.Classify(c.Request.URL.Path)
		if !limited {
			c.Next()
			return
		}

		clientID := ratelimit.ClientIdentifier(c.Request)
		if !limiter.Admit(clientID, category) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

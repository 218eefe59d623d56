package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recovery/pkg/memcache"
	"recovery/pkg/utils"
)

// RateLimit throttles by client IP and route so a burst on one form does not
// lock a visitor out of the others.
func RateLimit(store memcache.LimiterStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !store.Allow(c.ClientIP() + " " + c.FullPath()) {
			c.Header("Retry-After", "1")
			utils.RespondError(c, http.StatusTooManyRequests, "Too many requests, please slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}

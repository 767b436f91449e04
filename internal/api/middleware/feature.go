package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/riftrewind/rewind-server/internal/pkg/response"
)

// RequireFeature rejects the request with 403 when the flag is off.
func RequireFeature(enabled bool, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			response.Forbidden(c, name+" is currently disabled")
			c.Abort()
			return
		}
		c.Next()
	}
}

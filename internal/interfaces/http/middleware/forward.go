package middleware

import (
	"github.com/finsuite/backend/internal/infrastructure/peer"
	"github.com/gin-gonic/gin"
)

// ForwardAuthorization makes the caller's Authorization header available to
// outbound peer calls made while serving the request
func ForwardAuthorization() gin.HandlerFunc {
	return func(c *gin.Context) {
		if authHeader := c.GetHeader(AuthHeaderKey); authHeader != "" {
			c.Request = c.Request.WithContext(peer.WithAuthorization(c.Request.Context(), authHeader))
		}
		c.Next()
	}
}

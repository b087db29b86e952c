package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CallerIdentityHeader carries the already-authenticated caller identity.
// Authentication itself is an upstream collaborator concern.
const CallerIdentityHeader = "X-User-ID"

// CallerIdentityMiddleware extracts the caller identity header and places it
// in the request context. Requests without an identity are rejected.
func CallerIdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(CallerIdentityHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing caller identity"})
			return
		}

		c.Set(string(userIDCtxKey), userID)
		ctx := context.WithValue(c.Request.Context(), userIDCtxKey, userID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

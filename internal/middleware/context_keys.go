package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// contextKey is a private type for context keys to prevent collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	userIDCtxKey = contextKey("userID")
)

// GetUserIDFromContext retrieves the caller identity from the Gin context.
// It returns the user ID and a boolean indicating whether it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(userIDCtxKey)); exists {
		if userID, ok := v.(string); ok {
			return userID, true
		}
		return "", false
	}
	// Check the request context as well
	if v := c.Request.Context().Value(userIDCtxKey); v != nil {
		if userID, ok := v.(string); ok {
			return userID, true
		}
	}
	return "", false
}

// WithUserID returns a context carrying the caller identity. Used by tests
// and non-HTTP callers.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

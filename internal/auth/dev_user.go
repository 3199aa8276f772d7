package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// DevUser sets a firebase uid in context from the X-User-Id header without
// verifying a token. Requests without the header stay unauthenticated.
// Use this ONLY for development/testing.
func DevUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if uid != "" {
			c.Set(CtxFirebaseUID, uid)
		}

		c.Next()
	}
}

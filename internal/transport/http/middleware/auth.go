package middleware

import (
	"net/http"
	"strings"

	"github.com/almasbek/pinpoint/internal/token"
	"github.com/gin-gonic/gin"
)

const errUnauthorized = "Unauthorized"

// UserIDKey is the gin context key the authenticated user ID is stored
// under.
const UserIDKey = "userID"

// Auth validates a Bearer session token and sets UserIDKey in the gin
// context. Verification/reset tokens do not pass: the gate only accepts
// purpose=session.
func Auth(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		raw := strings.TrimPrefix(header, "Bearer ")

		userID, err := tokens.Verify(raw, token.PurposeSession)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

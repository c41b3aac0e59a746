package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const claimsContextKey = "authClaims"

// RequireAuth gates protected routes. A missing bearer token aborts with
// 401, a token that fails verification with 403. On success the verified
// claims are placed in the request context; handlers must scope queries
// by those claims and never by a client-supplied user id.
func (a *AuthModule) RequireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if header == "" || len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
		return
	}

	claims, err := a.tokens.Verify(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid token"})
		return
	}

	c.Set(claimsContextKey, claims)
	c.Next()
}

// ClaimsFrom returns the verified claims placed by RequireAuth, or nil
// on an unguarded route.
func ClaimsFrom(c *gin.Context) *Claims {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}

package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// CookieName is the cookie carrying the admin session token
	CookieName = "admin_session"
	// ContextKeyClaims is the key for session claims in gin context
	ContextKeyClaims = "session_claims"
)

// sessionToken returns the token from the session cookie or, failing that,
// from an "Authorization: Bearer" header.
func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
		return cookie
	}

	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// SessionClaims returns the claims RequireAdmin stored for this request.
func SessionClaims(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(ContextKeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}

// RequireAdmin rejects requests without a valid admin session
func RequireAdmin(tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		claims, err := tokens.Validate(token)
		if err != nil {
			if err == ErrExpiredToken {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session has expired"})
			} else {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			}
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/platefront/platefront/backend/admin-console/internal/sessions"
	"github.com/platefront/platefront/backend/admin-console/internal/tokens"
)

// SessionValidator is the slice of the sessions service the guard needs.
type SessionValidator interface {
	ValidateRefresh(ctx context.Context, refresh string) (*sessions.Session, error)
}

// TokenBlacklist reports whether a cookie token has been revoked.
type TokenBlacklist interface {
	Contains(ctx context.Context, token string) (bool, error)
}

// SessionKey is the gin context key the guard stores the active session under.
const SessionKey = "adminSession"

// SessionGuard protects console routes with the admin session cookie.
// The cookie's JWT must verify, must not be blacklisted, and must
// reference a live server-side session. Browsers get redirected to the
// login screen on failure; API/stream clients get 401.
func SessionGuard(secret []byte, cookieName string, validator SessionValidator, bl TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(cookieName)
		if err != nil || raw == "" {
			reject(c)
			return
		}
		claims, err := tokens.ParseSessionToken(secret, raw)
		if err != nil {
			reject(c)
			return
		}
		if bl != nil {
			if revoked, err := bl.Contains(c.Request.Context(), raw); err == nil && revoked {
				reject(c)
				return
			}
		}
		sess, err := validator.ValidateRefresh(c.Request.Context(), claims.SessionID)
		if err != nil || sess == nil {
			reject(c)
			return
		}
		c.Set(SessionKey, sess)
		c.Next()
	}
}

// ActiveSession returns the session the guard attached, or nil.
func ActiveSession(c *gin.Context) *sessions.Session {
	if v, ok := c.Get(SessionKey); ok {
		if s, ok := v.(*sessions.Session); ok {
			return s
		}
	}
	return nil
}

func reject(c *gin.Context) {
	if wantsHTML(c) {
		c.Redirect(http.StatusSeeOther, "/")
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
}

// wantsHTML distinguishes page navigations from fetch/EventSource calls.
func wantsHTML(c *gin.Context) bool {
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "text/html")
}

package middleware

import (
	"net/http" // HTTP status codes
	"time"     // Token expiry

	"dorm_booking/internal/domain" // Role enumeration
	"dorm_booking/internal/flash"  // Redirect messages
	"dorm_booking/internal/utils"  // JWT utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Structured logging
)

// SessionCookie holds the signed session token
const SessionCookie = "session"

const identityKey = "identity"

// Identity is the verified caller of one request
type Identity struct {
	UserID    int64       // University ID
	Role      domain.Role // Role carried by the token
	TokenID   string      // Token ID, used to revoke on logout
	ExpiresAt time.Time   // Token expiry
}

// CurrentIdentity returns the caller's identity, if the request is authenticated
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// SessionMiddleware validates the session cookie and stores the caller's Identity.
// Anonymous requests pass through; RequireLogin rejects them where needed.
func SessionMiddleware(secret string, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(SessionCookie) // Get session cookie
		if err != nil || tokenStr == "" {
			c.Next()
			return
		}
		claims, err := utils.ParseJWT(tokenStr, secret) // Parse the JWT token
		if err != nil {
			c.SetCookie(SessionCookie, "", -1, "/", "", false, true) // Drop the stale cookie
			c.Next()
			return
		}
		revoked, err := utils.IsRevoked(c.Request.Context(), rdb, claims.ID)
		if err != nil {
			logrus.WithError(err).Warn("Session revocation lookup failed")
		}
		if revoked {
			c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
			c.Next()
			return
		}
		identity := Identity{UserID: claims.UserID, Role: claims.Role, TokenID: claims.ID}
		if claims.ExpiresAt != nil {
			identity.ExpiresAt = claims.ExpiresAt.Time
		}
		c.Set(identityKey, identity) // Store identity in context
		c.Next()                     // Proceed to the next handler
	}
}

// RequireLogin redirects anonymous callers to the login page
func RequireLogin(fl *flash.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentIdentity(c); !ok {
			fl.Add(c, flash.Danger, "Please log in to view your dashboard")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

package middleware

import (
	"net/http" // HTTP status codes

	"dorm_booking/internal/domain" // Importing domain models
	"dorm_booking/internal/flash"  // Redirect messages

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

const userKey = "user"

// CurrentUser returns the user loaded by RequireRole
func CurrentUser(c *gin.Context) (domain.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return domain.User{}, false
	}
	u, ok := v.(domain.User)
	return u, ok
}

// RequireRole checks the user's role from the database on each request, so a
// role change applies without waiting for the session token to expire.
func RequireRole(db *gorm.DB, fl *flash.Store, roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, exists := CurrentIdentity(c) // Get identity from context
		// Check if identity exists in context
		if !exists {
			fl.Add(c, flash.Danger, "Please log in to view your dashboard")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		var user domain.User // Fetch user from database
		if err := db.WithContext(c.Request.Context()).Where("user_id = ?", identity.UserID).First(&user).Error; err != nil {
			fl.Add(c, flash.Danger, "Unauthorized access")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		// Check if user role is allowed
		for _, role := range roles {
			if user.Role == role {
				c.Set(userKey, user) // Handlers read names from here
				c.Next()
				return
			}
		}
		fl.Add(c, flash.Danger, "Unauthorized access")
		c.Redirect(http.StatusFound, "/dashboard")
		c.Abort()
	}
}

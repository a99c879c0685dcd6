package middleware

import (
	"Courtside/models"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const rolekey = "role"

// AdminRequired lets a request through when its session or its bearer token
// carries the admin role.
func AdminRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsAdmin(c, secret) {
			c.Set(rolekey, RoleAdmin)
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrUnauthorized)
	}
}

func IsAdmin(c *gin.Context, secret string) bool {
	session := sessions.Default(c)
	if role, ok := session.Get(rolekey).(string); ok && role == RoleAdmin {
		return true
	}
	if header := c.GetHeader("Authorization"); header != "" {
		claims, err := ParseToken(secret, header)
		return err == nil && claims.Role == RoleAdmin
	}
	return false
}

// StartAdminSession marks the caller's session as admin.
func StartAdminSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Set(rolekey, RoleAdmin)
	return session.Save()
}

func EndSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	return session.Save()
}

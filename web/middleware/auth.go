package middleware

import (
	"github.com/leadmap/leadmap/logger"
	"github.com/leadmap/leadmap/web/entity"
	"github.com/leadmap/leadmap/web/service"
	"github.com/leadmap/leadmap/web/session"

	"github.com/gin-gonic/gin"
)

const loginUserKey = "login_user"

// LoadUser resolves the session's user id to an account and stores it in the
// gin context. Sessions that point at a deleted account are cleared.
func LoadUser() gin.HandlerFunc {
	userService := service.UserService{}

	return func(c *gin.Context) {
		id, ok := session.GetLoginUserId(c)
		if !ok {
			c.Next()
			return
		}

		user, err := userService.GetUser(c.Request.Context(), id)
		if err != nil {
			logger.Warning("load session user failed:", err)
		} else if user == nil {
			if err := session.ClearSession(c); err != nil {
				logger.Warning("clear stale session failed:", err)
			}
		} else {
			c.Set(loginUserKey, user)
		}
		c.Next()
	}
}

// GetLoginUser returns the account loaded by LoadUser, or nil.
func GetLoginUser(c *gin.Context) *entity.UserInfo {
	if v, ok := c.Get(loginUserKey); ok {
		if user, ok := v.(*entity.UserInfo); ok {
			return user
		}
	}
	return nil
}

// Package controller provides the HTTP handlers of the leadmap JSON API and
// the routes serving the single-page client.
package controller

import (
	"net/http"

	"github.com/leadmap/leadmap/web/entity"
	"github.com/leadmap/leadmap/web/middleware"

	"github.com/gin-gonic/gin"
)

// BaseController provides common functionality for all controllers, including authentication checks.
type BaseController struct{}

// checkLogin aborts with 401 unless the request carries a valid session.
func (a *BaseController) checkLogin(c *gin.Context) {
	if middleware.GetLoginUser(c) == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	c.Next()
}

// loginUser returns the signed-in user. Only valid behind checkLogin.
func (a *BaseController) loginUser(c *gin.Context) *entity.UserInfo {
	return middleware.GetLoginUser(c)
}

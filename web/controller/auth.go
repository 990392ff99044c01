package controller

import (
	"net/http"

	"github.com/leadmap/leadmap/logger"
	"github.com/leadmap/leadmap/util/common"
	"github.com/leadmap/leadmap/web/entity"
	"github.com/leadmap/leadmap/web/service"
	"github.com/leadmap/leadmap/web/session"

	"github.com/gin-gonic/gin"
)

// AuthController handles registration, login, logout and the current user.
type AuthController struct {
	BaseController

	authService service.AuthService
}

// NewAuthController registers the /auth routes. The limiter guards register
// and login.
func NewAuthController(g *gin.RouterGroup, limiter gin.HandlerFunc) *AuthController {
	a := &AuthController{}
	a.initRouter(g, limiter)
	return a
}

func (a *AuthController) initRouter(g *gin.RouterGroup, limiter gin.HandlerFunc) {
	g = g.Group("/auth")

	g.POST("/register", limiter, a.register)
	g.POST("/login", limiter, a.login)
	g.POST("/logout", a.checkLogin, a.logout)
	g.GET("/current", a.current)
}

func (a *AuthController) register(c *gin.Context) {
	var form entity.CredentialsForm
	if !bindJSON(c, &form) {
		return
	}

	user, err := a.authService.Register(c.Request.Context(), form)
	if err != nil {
		jsonError(c, err)
		return
	}
	// a new account is signed in right away
	if err := session.SetLoginUser(c, user.Id); err != nil {
		jsonError(c, err)
		return
	}
	logger.Infof("user %q registered from %s", user.Username, c.ClientIP())
	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful", "user": user})
}

func (a *AuthController) login(c *gin.Context) {
	var form entity.CredentialsForm
	if !bindJSON(c, &form) {
		return
	}

	user, err := a.authService.Login(c.Request.Context(), form)
	if err != nil {
		if common.KindOf(err) == common.KindAuth {
			logger.Warningf("failed login for %q from %s", form.Username, c.ClientIP())
		}
		jsonError(c, err)
		return
	}

	if err := session.SetLoginUser(c, user.Id); err != nil {
		jsonError(c, err)
		return
	}
	logger.Infof("user %q logged in from %s", user.Username, c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "user": user})
}

func (a *AuthController) logout(c *gin.Context) {
	user := a.loginUser(c)
	if err := session.ClearSession(c); err != nil {
		jsonError(c, err)
		return
	}
	logger.Infof("user %q logged out", user.Username)
	jsonMsg(c, http.StatusOK, "Logout successful")
}

// current never fails: anonymous callers get {"user": null}.
func (a *AuthController) current(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": a.loginUser(c)})
}

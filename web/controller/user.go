package controller

import (
	"net/http"

	"github.com/leadmap/leadmap/logger"
	"github.com/leadmap/leadmap/web/service"

	"github.com/gin-gonic/gin"
)

// UserController lists accounts and deletes them with everything they own.
type UserController struct {
	BaseController

	userService service.UserService
}

func NewUserController(g *gin.RouterGroup) *UserController {
	a := &UserController{}
	a.initRouter(g)
	return a
}

func (a *UserController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/users")

	g.GET("", a.list)
	g.DELETE("/:id", a.checkLogin, a.del)
}

func (a *UserController) list(c *gin.Context) {
	users, err := a.userService.ListUsers(c.Request.Context())
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (a *UserController) del(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	actor := a.loginUser(c)
	if err := a.userService.DeleteUser(c.Request.Context(), actor.Id, id); err != nil {
		jsonError(c, err)
		return
	}
	logger.Infof("user %d deleted by %q", id, actor.Username)
	jsonMsg(c, http.StatusOK, "User and all data deleted successfully")
}

package controller

import (
	"net/http"
	"strconv"

	"github.com/leadmap/leadmap/logger"

	"github.com/gin-gonic/gin"
)

const maxLogCount = 500

// ServerController exposes operational data about the running process to
// signed-in users.
type ServerController struct {
	BaseController
}

func NewServerController(g *gin.RouterGroup) *ServerController {
	a := &ServerController{}
	a.initRouter(g)
	return a
}

func (a *ServerController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/server", a.checkLogin)

	g.GET("/logs/:count", a.getLogs)
}

// getLogs returns the newest buffered log entries, newest first, filtered by
// the optional level query parameter.
func (a *ServerController) getLogs(c *gin.Context) {
	count, err := strconv.Atoi(c.Param("count"))
	if err != nil || count <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid count"})
		return
	}
	count = min(count, maxLogCount)

	level := c.DefaultQuery("level", "INFO")
	logs := logger.GetLogs(count, level)
	if logs == nil {
		logs = []string{}
	}
	c.JSON(http.StatusOK, logs)
}

package controller

import (
	"io/fs"
	"net/http"

	"github.com/leadmap/leadmap/config"
	"github.com/leadmap/leadmap/database"
	"github.com/leadmap/leadmap/logger"

	"github.com/gin-gonic/gin"
)

// IndexController serves the single-page client and the health check.
type IndexController struct {
	assets fs.FS
}

// NewIndexController registers the non-API routes. assets must contain
// index.html, manifest.json, sw.js and a static directory.
func NewIndexController(g *gin.RouterGroup, assets fs.FS) *IndexController {
	a := &IndexController{assets: assets}
	a.initRouter(g)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup) {
	g.GET("/", a.file("index.html", "text/html; charset=utf-8"))
	g.GET("/manifest.json", a.file("manifest.json", "application/manifest+json"))
	g.GET("/sw.js", a.file("sw.js", "application/javascript"))
	if static, err := fs.Sub(a.assets, "static"); err == nil {
		g.StaticFS("/static", http.FS(static))
	}
	g.GET("/healthz", a.healthz)
}

func (a *IndexController) file(name string, contentType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := fs.ReadFile(a.assets, name)
		if err != nil {
			logger.Error("read asset", name, "failed:", err)
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, contentType, data)
	}
}

func (a *IndexController) healthz(c *gin.Context) {
	if err := database.Ping(); err != nil {
		logger.Warning("health check failed:", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "version": config.GetVersion()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": config.GetVersion()})
}

package controller

import (
	"net/http"

	"github.com/leadmap/leadmap/web/entity"
	"github.com/leadmap/leadmap/web/service"

	"github.com/gin-gonic/gin"
)

// LocationController manages map locations.
type LocationController struct {
	BaseController

	locationService service.LocationService
}

func NewLocationController(g *gin.RouterGroup) *LocationController {
	a := &LocationController{}
	a.initRouter(g)
	return a
}

func (a *LocationController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/locations")

	g.GET("", a.list)
	g.POST("", a.checkLogin, a.add)
	g.DELETE("/:id", a.checkLogin, a.del)
}

func (a *LocationController) list(c *gin.Context) {
	locations, err := a.locationService.ListLocations(c.Request.Context())
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, locations)
}

func (a *LocationController) add(c *gin.Context) {
	var form entity.LocationForm
	if !bindJSON(c, &form) {
		return
	}

	id, err := a.locationService.AddLocation(c.Request.Context(), a.loginUser(c).Id, form)
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "Location added successfully"})
}

// del removes the location together with its lead data.
func (a *LocationController) del(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	if err := a.locationService.DeleteLocation(c.Request.Context(), id); err != nil {
		jsonError(c, err)
		return
	}
	jsonMsg(c, http.StatusOK, "Location deleted successfully")
}

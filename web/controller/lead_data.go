package controller

import (
	"net/http"
	"strconv"

	"github.com/leadmap/leadmap/util/common"
	"github.com/leadmap/leadmap/web/entity"
	"github.com/leadmap/leadmap/web/service"

	"github.com/gin-gonic/gin"
)

// LeadDataController manages the daily lead counts per location.
type LeadDataController struct {
	BaseController

	leadDataService service.LeadDataService
}

func NewLeadDataController(g *gin.RouterGroup) *LeadDataController {
	a := &LeadDataController{}
	a.initRouter(g)
	return a
}

func (a *LeadDataController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/lead-data")

	g.GET("", a.list)
	g.POST("", a.checkLogin, a.save)
	g.DELETE("/:id", a.checkLogin, a.del)
}

// list optionally filters by the location_id query parameter.
func (a *LeadDataController) list(c *gin.Context) {
	var locationId *int
	if raw, ok := c.GetQuery("location_id"); ok && raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			jsonError(c, common.NewValidationError("Invalid location_id"))
			return
		}
		locationId = &id
	}

	entries, err := a.leadDataService.ListLeadData(c.Request.Context(), locationId)
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// save creates the entry for (location_id, date) or overwrites the existing one.
func (a *LeadDataController) save(c *gin.Context) {
	var form entity.LeadDataForm
	if !bindJSON(c, &form) {
		return
	}

	if err := a.leadDataService.SaveLeadData(c.Request.Context(), a.loginUser(c).Id, form); err != nil {
		jsonError(c, err)
		return
	}
	jsonMsg(c, http.StatusCreated, "Lead data saved successfully")
}

func (a *LeadDataController) del(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	if err := a.leadDataService.DeleteLeadData(c.Request.Context(), id); err != nil {
		jsonError(c, err)
		return
	}
	jsonMsg(c, http.StatusOK, "Lead data deleted successfully")
}

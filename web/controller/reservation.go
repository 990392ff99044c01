package controller

import (
	"net/http"

	"github.com/leadmap/leadmap/web/entity"
	"github.com/leadmap/leadmap/web/service"

	"github.com/gin-gonic/gin"
)

// ReservationController manages area reservations.
type ReservationController struct {
	BaseController

	reservationService service.ReservationService
}

func NewReservationController(g *gin.RouterGroup) *ReservationController {
	a := &ReservationController{}
	a.initRouter(g)
	return a
}

func (a *ReservationController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/reservations")

	g.GET("", a.list)
	g.POST("", a.checkLogin, a.add)
	g.DELETE("/:id", a.checkLogin, a.del)
}

func (a *ReservationController) list(c *gin.Context) {
	reservations, err := a.reservationService.ListReservations(c.Request.Context(), c.Query("date"))
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservations)
}

func (a *ReservationController) add(c *gin.Context) {
	var form entity.ReservationForm
	if !bindJSON(c, &form) {
		return
	}

	id, err := a.reservationService.AddReservation(c.Request.Context(), a.loginUser(c).Id, form)
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "Reservation created successfully"})
}

func (a *ReservationController) del(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	if err := a.reservationService.DeleteReservation(c.Request.Context(), id); err != nil {
		jsonError(c, err)
		return
	}
	jsonMsg(c, http.StatusOK, "Reservation deleted successfully")
}

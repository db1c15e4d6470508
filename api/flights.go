package api

import (
	"net/http"

	"github.com/deeptimaan-k/radiantgo-sub000/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

type routesQuery struct {
	Origin      string `form:"origin" binding:"required,iata"`
	Destination string `form:"destination" binding:"required,iata"`
	Date        string `form:"date" binding:"required"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/routes", h.routes)
	router.GET("/flights/:id", h.get)
}

// routes godoc
// @Summary  Find direct and one-transit routes
// @Tags     routes
// @Produce  json
// @Param    origin      query  string  true  "Origin IATA code"
// @Param    destination query  string  true  "Destination IATA code"
// @Param    date        query  string  true  "Departure day, YYYY-MM-DD"
// @Success  200  {array}   domain.RouteOption
// @Failure  400  {object}  ErrorResponse
// @Router   /routes [get]
func (h *FlightHandler) routes(c *gin.Context) {
	var q routesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		RespondDomainError(c, bindingError(err))
		return
	}

	options, err := h.service.FindRoutes(c.Request.Context(), q.Origin, q.Destination, q.Date)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, options)
}

// get godoc
// @Summary  Get a flight
// @Tags     flights
// @Produce  json
// @Param    id   path      string  true  "Flight id"
// @Success  200  {object}  domain.Flight
// @Failure  404  {object}  ErrorResponse
// @Router   /flights/{id} [get]
func (h *FlightHandler) get(c *gin.Context) {
	flight, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

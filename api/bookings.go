package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/deeptimaan-k/radiantgo-sub000/internal/domain"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/service/booking"
	"github.com/gin-gonic/gin"
)

const (
	idempotencyHeader = "Idempotency-Key"
	replayedHeader    = "Idempotent-Replayed"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type updateFunc func(booking.BookingUseCase, context.Context, string, booking.UpdateInput) (*domain.Booking, error)

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

// Register mounts the booking routes. mutating runs before every route that
// changes state.
func (h *BookingHandler) Register(router *gin.RouterGroup, mutating ...gin.HandlerFunc) {
	router.GET("/bookings/:ref", h.get)

	write := router.Group("/bookings", mutating...)
	write.POST("", h.create)
	write.POST("/:ref/depart", h.update(booking.BookingUseCase.Depart))
	write.POST("/:ref/arrive", h.update(booking.BookingUseCase.Arrive))
	write.POST("/:ref/deliver", h.update(booking.BookingUseCase.Deliver))
	write.POST("/:ref/cancel", h.update(booking.BookingUseCase.Cancel))
}

// create godoc
// @Summary  Book cargo on a route
// @Tags     bookings
// @Accept   json
// @Produce  json
// @Param    Idempotency-Key  header  string                      false  "Replay protection key"
// @Param    request          body    booking.CreateBookingInput  true   "Booking request"
// @Success  201  {object}  domain.Booking
// @Success  200  {object}  domain.Booking  "Idempotent replay"
// @Failure  400  {object}  ErrorResponse
// @Router   /bookings [post]
func (h *BookingHandler) create(c *gin.Context) {
	var req booking.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondDomainError(c, bindingError(err))
		return
	}

	key := strings.TrimSpace(c.GetHeader(idempotencyHeader))
	created, replayed, err := h.service.CreateBooking(c.Request.Context(), req, key)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	if replayed {
		c.Header(replayedHeader, "true")
		c.JSON(http.StatusOK, created)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// get godoc
// @Summary  Get a booking with its timeline
// @Tags     bookings
// @Produce  json
// @Param    ref  path      string  true  "Booking reference"
// @Success  200  {object}  domain.Booking
// @Failure  404  {object}  ErrorResponse
// @Router   /bookings/{ref} [get]
func (h *BookingHandler) get(c *gin.Context) {
	found, err := h.service.GetBooking(c.Request.Context(), c.Param("ref"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

// update godoc
// @Summary  Move a booking along its lifecycle
// @Tags     bookings
// @Accept   json
// @Produce  json
// @Param    ref      path  string               true   "Booking reference"
// @Param    action   path  string               true   "depart, arrive, deliver or cancel"
// @Param    request  body  booking.UpdateInput  false  "Event details"
// @Success  200  {object}  domain.Booking
// @Failure  400  {object}  ErrorResponse
// @Failure  404  {object}  ErrorResponse
// @Failure  409  {object}  ErrorResponse
// @Router   /bookings/{ref}/{action} [post]
func (h *BookingHandler) update(apply updateFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in booking.UpdateInput
		if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
			RespondDomainError(c, bindingError(err))
			return
		}

		updated, err := apply(h.service, c.Request.Context(), c.Param("ref"), in)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

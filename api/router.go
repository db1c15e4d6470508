package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	_ "github.com/deeptimaan-k/radiantgo-sub000/docs"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/service/booking"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/service/flights"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"
)

// HealthCheck checks one dependency.
type HealthCheck func(ctx context.Context) error

type RouterConfig struct {
	Flights        flights.FlightUseCase
	Bookings       booking.BookingUseCase
	Log            logrus.FieldLogger
	AllowedOrigins []string
	// JWTSecret enables bearer auth on mutating booking routes when set.
	JWTSecret    string
	HealthChecks map[string]HealthCheck
}

// @title        Cargo Booking API
// @version      1.0
// @description  Route discovery and booking lifecycle for air cargo.
// @BasePath     /api/v1
func NewRouter(cfg RouterConfig) *gin.Engine {
	RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), Logger(cfg.Log))
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	v1 := router.Group("/api/v1")
	v1.GET("/health", health(cfg.HealthChecks))

	NewFlightHandler(cfg.Flights).Register(v1)

	var mutating []gin.HandlerFunc
	if cfg.JWTSecret != "" {
		mutating = append(mutating, BearerAuth(cfg.JWTSecret))
	}
	NewBookingHandler(cfg.Bookings).Register(v1, mutating...)

	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))))
	return router
}

func corsConfig(origins []string) cors.Config {
	cc := cors.DefaultConfig()
	cc.AllowHeaders = append(cc.AllowHeaders, "Authorization", idempotencyHeader, requestIDHeader)
	cc.ExposeHeaders = []string{requestIDHeader, replayedHeader}
	if len(origins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	return cc
}

// health godoc
// @Summary  Liveness and dependency status
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]any
// @Failure  503  {object}  map[string]any
// @Router   /health [get]
func health(checks map[string]HealthCheck) gin.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(names))
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		c.JSON(status, gin.H{"status": overall, "checks": results})
	}
}

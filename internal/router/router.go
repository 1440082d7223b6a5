// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/jmarinero/travel-reservation-api/internal/config"
	"github.com/jmarinero/travel-reservation-api/internal/handler"
	"github.com/jmarinero/travel-reservation-api/internal/middleware"
)

// Handlers groups every HTTP handler the API exposes.
type Handlers struct {
	Auth           *handler.AuthHandler
	Reservations   *handler.ReservationHandler
	Hotels         *handler.HotelHandler
	Flights        *handler.FlightHandler
	Cruises        *handler.CruiseHandler
	Transfers      *handler.TransferHandler
	Excursions     *handler.ExcursionHandler
	MedicalAssists *handler.MedicalAssistHandler
	CarRentals     *handler.CarRentalHandler
	Pax            *handler.PaxHandler
}

// Register wires every route.  Unauthenticated routes live under /v1/auth
// and /healthz; everything else requires a valid access token with an ADMIN
// or AGENT role.
func Register(e *echo.Echo, cfg config.Config, h Handlers, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/refresh-access", h.Auth.RefreshAccess)
	auth.POST("/logout", h.Auth.Logout)
	auth.POST("/forgot-password", h.Auth.ForgotPassword)

	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(cfg.JWTSecret))
	v1.Use(middleware.RequireRole("ADMIN", "AGENT"))
	v1.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	// Read endpoints carry a short-lived Redis cache.
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	v1.GET("/me", h.Auth.Me)

	v1.POST("/reservations", h.Reservations.Create)
	v1.GET("/reservations", h.Reservations.List, cache)
	v1.GET("/reservations/:id", h.Reservations.Get, cache)
	v1.PATCH("/reservations/:id", h.Reservations.Update)
	v1.DELETE("/reservations/:id", h.Reservations.Delete)
	v1.GET("/reservations/:id/currency-totals", h.Reservations.CurrencyTotals, cache)

	v1.POST("/reservations/:id/hotels", h.Hotels.Create)
	v1.GET("/reservations/:id/hotels", h.Hotels.List, cache)
	v1.GET("/hotels/:id", h.Hotels.Get, cache)
	v1.PATCH("/hotels/:id", h.Hotels.Update)
	v1.DELETE("/hotels/:id", h.Hotels.Delete)

	v1.POST("/reservations/:id/flights", h.Flights.Create)
	v1.GET("/reservations/:id/flights", h.Flights.List, cache)
	v1.GET("/flights/:id", h.Flights.Get, cache)
	v1.PATCH("/flights/:id", h.Flights.Update)
	v1.DELETE("/flights/:id", h.Flights.Delete)

	v1.POST("/reservations/:id/cruises", h.Cruises.Create)
	v1.GET("/reservations/:id/cruises", h.Cruises.List, cache)
	v1.GET("/cruises/:id", h.Cruises.Get, cache)
	v1.PATCH("/cruises/:id", h.Cruises.Update)
	v1.DELETE("/cruises/:id", h.Cruises.Delete)

	v1.POST("/reservations/:id/transfers", h.Transfers.Create)
	v1.GET("/reservations/:id/transfers", h.Transfers.List, cache)
	v1.GET("/transfers/:id", h.Transfers.Get, cache)
	v1.PATCH("/transfers/:id", h.Transfers.Update)
	v1.DELETE("/transfers/:id", h.Transfers.Delete)

	v1.POST("/reservations/:id/excursions", h.Excursions.Create)
	v1.GET("/reservations/:id/excursions", h.Excursions.List, cache)
	v1.GET("/excursions/:id", h.Excursions.Get, cache)
	v1.PATCH("/excursions/:id", h.Excursions.Update)
	v1.DELETE("/excursions/:id", h.Excursions.Delete)

	v1.POST("/reservations/:id/medical-assists", h.MedicalAssists.Create)
	v1.GET("/reservations/:id/medical-assists", h.MedicalAssists.List, cache)
	v1.GET("/medical-assists/:id", h.MedicalAssists.Get, cache)
	v1.PATCH("/medical-assists/:id", h.MedicalAssists.Update)
	v1.DELETE("/medical-assists/:id", h.MedicalAssists.Delete)

	v1.POST("/reservations/:id/car-rentals", h.CarRentals.Create)
	v1.GET("/reservations/:id/car-rentals", h.CarRentals.List, cache)
	v1.GET("/car-rentals/:id", h.CarRentals.Get, cache)
	v1.PATCH("/car-rentals/:id", h.CarRentals.Update)
	v1.DELETE("/car-rentals/:id", h.CarRentals.Delete)

	v1.POST("/reservations/:id/pax", h.Pax.Create)
	v1.GET("/reservations/:id/pax", h.Pax.List, cache)
	v1.GET("/pax/:id", h.Pax.Get, cache)
	v1.PATCH("/pax/:id", h.Pax.Update)
	v1.DELETE("/pax/:id", h.Pax.Delete)
}

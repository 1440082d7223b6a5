package main

import (
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/jmarinero/travel-reservation-api/internal/config"
	"github.com/jmarinero/travel-reservation-api/internal/database"
	"github.com/jmarinero/travel-reservation-api/internal/handler"
	"github.com/jmarinero/travel-reservation-api/internal/jobs"
	"github.com/jmarinero/travel-reservation-api/internal/logger"
	"github.com/jmarinero/travel-reservation-api/internal/repository"
	"github.com/jmarinero/travel-reservation-api/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional outside local development

	cfg := config.Load()
	lg := logger.New(cfg.LogLevel, cfg.LogPretty)
	log.Logger = lg

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		lg.Fatal().Err(err).Msg("database open failed")
	}
	defer func() { _ = db.Close() }()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; cache and limiter degrade

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	reservations := repository.NewReservationRepo(db)

	h := router.Handlers{
		Auth:           handler.NewAuthHandler(cfg, users, tokens),
		Reservations:   handler.NewReservationHandler(cfg, reservations),
		Hotels:         handler.NewHotelHandler(cfg, reservations, repository.NewHotelRepo(db)),
		Flights:        handler.NewFlightHandler(cfg, reservations, repository.NewFlightRepo(db)),
		Cruises:        handler.NewCruiseHandler(cfg, reservations, repository.NewCruiseRepo(db)),
		Transfers:      handler.NewTransferHandler(cfg, reservations, repository.NewTransferRepo(db)),
		Excursions:     handler.NewExcursionHandler(cfg, reservations, repository.NewExcursionRepo(db)),
		MedicalAssists: handler.NewMedicalAssistHandler(cfg, reservations, repository.NewMedicalAssistRepo(db)),
		CarRentals:     handler.NewCarRentalHandler(cfg, reservations, repository.NewCarRentalRepo(db)),
		Pax:            handler.NewPaxHandler(cfg, reservations, repository.NewPaxRepo(db)),
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, h, rdb)

	if cfg.ReconcileCron != "" {
		runner := cron.New()
		reconciler := &jobs.Reconciler{Reservations: reservations, Log: lg}
		if _, err := reconciler.Schedule(runner, cfg.ReconcileCron); err != nil {
			lg.Fatal().Err(err).Str("spec", cfg.ReconcileCron).Msg("invalid reconcile cron spec")
		}
		runner.Start()
		defer runner.Stop()
	}

	addr := ":" + cfg.Port
	lg.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		lg.Fatal().Err(err).Msg("server stopped")
	}
}

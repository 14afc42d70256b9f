package main // admin-API entry point

import (
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/warranty-migration/internal/config"
	"github.com/iliyamo/warranty-migration/internal/database"
	"github.com/iliyamo/warranty-migration/internal/router"
	"github.com/iliyamo/warranty-migration/internal/service"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("component", "server").Logger().
		Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg := config.LoadServer()
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not open target database")
	}
	defer db.Close()

	svc := &service.Migration{
		DB:    db,
		Redis: config.NewRedisClient(),
		Log:   logger,
	}

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e, cfg, svc)

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("admin API listening")
	if err := e.Start(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

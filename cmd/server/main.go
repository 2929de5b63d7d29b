package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/sabacc/internal/cache"
	"github.com/jason-s-yu/sabacc/internal/config"
	"github.com/jason-s-yu/sabacc/internal/database"
	"github.com/jason-s-yu/sabacc/internal/game"
	"github.com/jason-s-yu/sabacc/internal/handlers"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	if err := cfg.ConfigureLogging(); err != nil {
		logrus.WithError(err).Fatal("configure logging")
	}

	if len(os.Args) > 1 && os.Args[1] == "simulation" {
		StartSimulation(cfg.HouseRules, os.Args[2:])
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.RedisAddr != "" {
		if err := cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword); err != nil {
			logrus.WithError(err).Warn("action historian disabled")
		}
	}
	if cfg.DatabaseURL != "" {
		if err := database.ConnectDB(ctx, cfg.DatabaseURL); err != nil {
			logrus.WithError(err).Warn("audit store disabled")
		} else {
			defer database.DB.Close()
		}
	}

	h := handlers.NewHandler(game.NewGameStore(), []byte(cfg.JWTSecret), cfg.TokenTTL, cfg.HouseRules)
	h.CheckConservation = cfg.CheckConservation

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	h.Register(e)

	go func() {
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("http server")
		}
	}()
	logrus.WithField("addr", cfg.HTTPAddr).Info("sabacc server listening")

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("shutdown")
	}
	if cache.Rdb != nil {
		_ = cache.Rdb.Close()
	}
}

package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/artlurun/api/config"
	"github.com/artlurun/api/db"
	"github.com/artlurun/api/handlers"
	applog "github.com/artlurun/api/logger"
	mw "github.com/artlurun/api/middleware"
)

func main() {
	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	bdb := db.Setup(cfg)
	defer bdb.Close()

	if err := db.CreateTables(context.Background(), bdb); err != nil {
		logger.Fatal("create tables failed", zap.Error(err))
	}

	h := handlers.New(bdb, cfg, logger)

	e := echo.New()
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			switch {
			case v.Status >= 500:
				logger.Error("http request", fields...)
			case v.Status >= 400:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"*", "Authorization", "X-API-Key", "X-Payment-Signature"},
		AllowCredentials: true,
	}))

	// Public
	e.POST("/checkout", h.Checkout)
	e.POST("/webhook/payment", h.PaymentWebhook)
	e.POST("/dashboard/login", h.Login)
	e.POST("/request-race", h.RequestRace)
	e.GET("/races", h.Races)
	e.GET("/races/:slug", h.RacePage, mw.OptionalSession(cfg.JWTKey()))
	e.GET("/api/my-premium/:slug", h.MyPremium, mw.OptionalSession(cfg.JWTKey()))

	// Customer – require a valid session token in Authorization header
	dash := e.Group("/dashboard", mw.Session(cfg.JWTKey()))
	dash.GET("/purchases", h.Purchases)
	dash.GET("/report/:id", h.Report)

	// Content generator – authorized by shared API key
	gen := e.Group("/api", mw.APIKey(cfg.GeneratorAPIKey))
	gen.POST("/premium-data/:id", h.AttachPremiumData)
	gen.POST("/race-content/:slug", h.UpsertRaceContent)
	gen.POST("/race-gpx/:slug", h.UpsertElevationProfile)
	gen.POST("/race", h.UpsertRace)
	gen.GET("/races", h.ListRacesForGenerator)

	if cfg.Debug {
		logger.Info("starting server", zap.String("mode", "debug"), zap.String("addr", cfg.Port))
		if err := e.Start(cfg.Port); err != nil {
			logger.Fatal("server exited", zap.Error(err))
		}
		return
	}

	autoTLS := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(".cache"),
		HostPolicy: autocert.HostWhitelist(cfg.TLSDomains...),
	}

	s := &http.Server{
		Addr:         ":443",
		Handler:      e,
		TLSConfig:    autoTLS.TLSConfig(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	if err := s.ListenAndServeTLS("", ""); err != http.ErrServerClosed {
		logger.Error("tls server exited", zap.Error(err))
		os.Exit(1)
	}
}

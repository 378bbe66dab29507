package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/api"
	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/app"
	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/cache"
	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/config"
	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/notify"
	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/repository/postgres"
	"github.com/AdilAzhari/POS-SuperMarket-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	logger.Configure(os.Stdout, cfg.Server.Mode == "debug")
	logger.SetLevel(cfg.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	cacheLayer, err := cache.NewCacheLayer(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Redis unavailable, reorder cache disabled")
		cacheLayer = cache.NewNoopCache()
	}
	defer func() {
		if err := cacheLayer.Close(); err != nil {
			logger.Log.Warn().Err(err).Msg("Failed to close cache")
		}
	}()

	notifier := notify.New(cfg.Notify)
	defer func() {
		if err := notifier.Close(); err != nil {
			logger.Log.Warn().Err(err).Msg("Failed to close notifier")
		}
	}()

	engine := app.NewEngine(cfg, db, cacheLayer, notifier)
	router := api.NewRouter(&api.Services{
		Reorder:        engine.Reorder,
		PurchaseOrders: engine.PurchaseOrders,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// 5 seconds to finish in-flight requests
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

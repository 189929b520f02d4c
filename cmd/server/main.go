// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/vendor-otif/backend-go/internal/api"
	"github.com/andresuchdata/vendor-otif/backend-go/internal/cache"
	"github.com/andresuchdata/vendor-otif/backend-go/internal/config"
	"github.com/andresuchdata/vendor-otif/backend-go/internal/refdata"
	"github.com/andresuchdata/vendor-otif/backend-go/internal/service"
	"github.com/andresuchdata/vendor-otif/backend-go/internal/storage"
	"github.com/andresuchdata/vendor-otif/backend-go/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Reference data for category enrichment
	lookup, err := refdata.Load(cfg.App.RefDataPath)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load reference data")
	}
	logger.Log.Info().Int("codes", lookup.Len()).Msg("Reference data loaded")

	// Result cache (noop when disabled)
	resultCache, err := cache.NewResultCache(cfg.Cache)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize result cache")
	}

	// Optional object storage for report artifacts
	var store storage.ObjectStorage
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3Client(storage.S3Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize object storage")
		}
		store = s3
	}

	otifService := service.NewOTIFService(cfg, resultCache, lookup, store)

	// Initialize HTTP server
	router := api.NewRouter(otifService, cfg)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"datalens/adapters/storage"
	"datalens/internal"
	"datalens/internal/charts"
	"datalens/internal/config"
	"datalens/internal/ops"
	"datalens/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))
	gin.SetMode(appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closer, err := storage.Open(ctx, appConfig.Storage)
	if err != nil {
		log.Fatalf("Failed to open %s storage: %v", appConfig.Storage.Backend, err)
	}
	defer closer.Close()

	renderer := charts.NewRenderer(charts.Options{
		OutputPath: appConfig.Charts.OutputPath,
		Width:      appConfig.Charts.Width,
		Height:     appConfig.Charts.Height,
	}, logger)

	server, err := ui.NewServer(ui.Settings{
		Bucket:           appConfig.Storage.Bucket,
		DefaultObjectKey: appConfig.Storage.DatasetKey,
		Store:            store,
	}, renderer, logger)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	opsOptions := ops.Options{
		Profiling: appConfig.Profiling.Enabled,
		Backend:   appConfig.Storage.Backend,
	}
	if pinger, ok := closer.(ops.Pinger); ok {
		opsOptions.Pinger = pinger
	}

	servers := []*http.Server{
		{Addr: ":" + appConfig.Server.Port, Handler: server.Handler(), ReadHeaderTimeout: 10 * time.Second},
		{Addr: ":" + appConfig.Profiling.Port, Handler: ops.NewRouter(opsOptions, logger), ReadHeaderTimeout: 10 * time.Second},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			logger.Info("🚀 listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("shutdown of %s: %v", srv.Addr, err)
			}
		}
		return nil
	})

	logger.Info("serving %s/%s from %s storage", appConfig.Storage.Bucket, appConfig.Storage.DatasetKey, appConfig.Storage.Backend)
	if err := g.Wait(); err != nil {
		log.Fatalf("❌ server failed: %v", err)
	}
}

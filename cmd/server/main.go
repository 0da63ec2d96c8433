package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hchen1203/hotel-doc-ingest/api/handlers"
	"github.com/hchen1203/hotel-doc-ingest/api/routes"
	"github.com/hchen1203/hotel-doc-ingest/config"
	"github.com/hchen1203/hotel-doc-ingest/internal/ingest"
	"github.com/hchen1203/hotel-doc-ingest/internal/reconcile"
	"github.com/hchen1203/hotel-doc-ingest/internal/view"
	"github.com/hchen1203/hotel-doc-ingest/pkg/logger"
)

func main() {
	log, err := logger.NewLogger(
		logger.WithLevel("info"),
		logger.WithEncoding("json"),
		logger.WithOutputPaths("stdout", "logs/app.log"),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	app, err := ingest.GetApp(log)
	if err != nil {
		log.Fatal("Failed to assemble pipeline", logger.Error(err))
	}

	pipeCfg := config.GetPipelineConfig()

	reconciler := reconcile.New(app.Ledger, app.Store, log, pipeCfg.StuckThreshold)
	if err := reconciler.Start(pipeCfg.SweepInterval); err != nil {
		log.Fatal("Failed to start reconciliation sweeps", logger.Error(err))
	}
	defer reconciler.Stop()

	fileView := view.New(app.Ledger, log)

	h := handlers.NewHandlers(app.Service, fileView, log)
	r := gin.New()
	r.Use(gin.Recovery())
	routes.SetupRoutes(r, h)

	srv := &http.Server{
		Addr:    ":" + os.Getenv("PORT"),
		Handler: r,
	}
	if srv.Addr == ":" {
		srv.Addr = ":8080"
	}

	go func() {
		log.Info("Server starting", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", logger.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", logger.Error(err))
	}
}

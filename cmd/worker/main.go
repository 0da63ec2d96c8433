package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hchen1203/hotel-doc-ingest/config"
	"github.com/hchen1203/hotel-doc-ingest/internal/ingest"
	"github.com/hchen1203/hotel-doc-ingest/pkg/logger"
	"github.com/hchen1203/hotel-doc-ingest/pkg/worker"
)

func main() {
	log, err := logger.NewLogger(
		logger.WithLevel("info"),
		logger.WithEncoding("json"),
		logger.WithOutputPaths("stdout", "logs/worker.log"),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	app, err := ingest.GetApp(log)
	if err != nil {
		log.Error("Failed to assemble pipeline", logger.Error(err))
		os.Exit(1)
	}

	redisCfg := config.GetRedisConfig()
	workerCfg := &worker.Config{
		RedisAddr:   redisCfg.Addr,
		RedisDB:     redisCfg.DB,
		Concurrency: 10,
		Queues: map[string]int{
			"critical": 6,
			"default":  3,
			"low":      1,
		},
	}

	extractionWorker, err := worker.NewExtractionWorker(workerCfg, app.Service, log)
	if err != nil {
		log.Error("Failed to create extraction worker", logger.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := extractionWorker.Start(ctx); err != nil {
		log.Error("Failed to start worker", logger.Error(err))
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down worker...")
	extractionWorker.Stop()
	log.Info("Worker stopped")
}

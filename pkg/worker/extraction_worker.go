package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/hchen1203/hotel-doc-ingest/internal/ingest"
	"github.com/hchen1203/hotel-doc-ingest/pkg/logger"
	"github.com/hchen1203/hotel-doc-ingest/pkg/queue"
)

type ExtractionWorker struct {
	BaseWorker
	ingestService ingest.Service
}

func NewExtractionWorker(cfg *Config, svc ingest.Service, log logger.Logger) (*ExtractionWorker, error) {
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr, DB: cfg.RedisDB},
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues:      cfg.Queues,
		},
	)

	w := &ExtractionWorker{
		BaseWorker: BaseWorker{
			server:   server,
			mux:      asynq.NewServeMux(),
			logger:   log,
			stopChan: make(chan struct{}),
		},
		ingestService: svc,
	}

	w.registerHandlers()
	return w, nil
}

func (w *ExtractionWorker) registerHandlers() {
	w.mux.HandleFunc(queue.TaskTypeExtraction, w.handleExtraction)
}

func (w *ExtractionWorker) handleExtraction(ctx context.Context, t *asynq.Task) error {
	w.logger.Info("Received task",
		logger.String("payload", string(t.Payload())),
	)

	var task queue.ExtractionTask
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		w.logger.Error("Failed to unmarshal task",
			logger.Error(err),
			logger.String("payload", string(t.Payload())),
		)
		return fmt.Errorf("failed to unmarshal task: %w", err)
	}

	if task.FileID == "" || task.RequestID == "" || task.StoragePath == "" {
		w.logger.Error("Invalid task data",
			logger.String("fileId", task.FileID),
			logger.String("requestId", task.RequestID),
			logger.String("storagePath", task.StoragePath),
		)
		return fmt.Errorf("invalid task data: missing required fields")
	}

	w.logger.Info("Processing extraction task",
		logger.String("fileId", task.FileID),
		logger.String("requestId", task.RequestID),
		logger.String("documentType", task.DocumentType),
	)

	// Extraction failures are recorded on the file record and surfaced to
	// the caller through status polling; they never bounce the task back
	// to the queue for an automatic retry.
	return w.ingestService.HandleExtraction(ctx, &task)
}

func (w *ExtractionWorker) Start(ctx context.Context) error {
	go func() {
		if err := w.server.Run(w.mux); err != nil {
			w.logger.Error("Worker server stopped", logger.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		w.Stop()
	}()

	return nil
}

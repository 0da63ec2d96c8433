package ingest

import (
	"fmt"
	"sync"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/hchen1203/hotel-doc-ingest/config"
	"github.com/hchen1203/hotel-doc-ingest/internal/classifier"
	"github.com/hchen1203/hotel-doc-ingest/internal/doctype"
	"github.com/hchen1203/hotel-doc-ingest/internal/extraction"
	"github.com/hchen1203/hotel-doc-ingest/internal/ledger"
	"github.com/hchen1203/hotel-doc-ingest/internal/tracker"
	"github.com/hchen1203/hotel-doc-ingest/pkg/logger"
	"github.com/hchen1203/hotel-doc-ingest/pkg/queue"
	"github.com/hchen1203/hotel-doc-ingest/pkg/storage"
)

// App bundles the assembled pipeline so the server and worker binaries wire
// the exact same dependency graph.
type App struct {
	Service Service
	Ledger  ledger.Ledger
	Store   storage.ObjectStore
	Tracker *tracker.Tracker
}

var (
	appOnce sync.Once
	app     *App
	appErr  error
)

// GetApp assembles (once) the database, object store, queue and extraction
// pipeline from environment configuration.
func GetApp(log logger.Logger) (*App, error) {
	appOnce.Do(func() {
		app, appErr = buildApp(log)
	})
	return app, appErr
}

func buildApp(log logger.Logger) (*App, error) {
	db, err := gorm.Open(postgres.Open(config.GetDatabaseConfig().DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	ldg := ledger.NewGormLedger(db, log)
	if err := ldg.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	pipeCfg := config.GetPipelineConfig()

	store, err := storage.New(storage.Backend(pipeCfg.StorageBackend), log)
	if err != nil {
		return nil, fmt.Errorf("failed to init object store: %w", err)
	}

	q, err := queue.GetQueue()
	if err != nil {
		return nil, fmt.Errorf("failed to init queue: %w", err)
	}

	capCfg := config.GetCapabilityConfig()
	capability := extraction.NewClient(extraction.ClientConfig{
		BaseURL:     capCfg.BaseURL,
		APIKey:      capCfg.APIKey,
		TextModel:   capCfg.TextModel,
		VisionModel: capCfg.VisionModel,
	})

	dispatcher := extraction.NewDispatcher(classifier.New(log), capability, ldg, log)
	router := doctype.NewRouter(ldg, log)
	trk := tracker.New(ldg, log, pipeCfg.StuckThreshold)

	svc := NewOrchestrator(store, ldg, q, dispatcher, router, trk, log, Config{
		MaxFileSize: pipeCfg.MaxFileSize,
	})

	return &App{
		Service: svc,
		Ledger:  ldg,
		Store:   store,
		Tracker: trk,
	}, nil
}

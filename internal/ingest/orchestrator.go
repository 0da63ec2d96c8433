package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hchen1203/hotel-doc-ingest/internal/doctype"
	"github.com/hchen1203/hotel-doc-ingest/internal/extraction"
	"github.com/hchen1203/hotel-doc-ingest/internal/ledger"
	"github.com/hchen1203/hotel-doc-ingest/internal/models"
	"github.com/hchen1203/hotel-doc-ingest/internal/tracker"
	"github.com/hchen1203/hotel-doc-ingest/pkg/logger"
	"github.com/hchen1203/hotel-doc-ingest/pkg/queue"
	"github.com/hchen1203/hotel-doc-ingest/pkg/storage"
)

// Config carries orchestrator tunables.
type Config struct {
	MaxFileSize int64
	// LeaseTTL bounds how long one extraction attempt may hold the
	// processing lease before another attempt may take over.
	LeaseTTL time.Duration
}

// Extractor runs the classify-dispatch-normalize sequence for one document.
// *extraction.Dispatcher is the production implementation.
type Extractor interface {
	Extract(ctx context.Context, fileID, requestID, documentType string, data []byte) (*extraction.Result, error)
}

type Orchestrator struct {
	store      storage.ObjectStore
	ledger     ledger.Ledger
	queue      queue.Queue
	dispatcher Extractor
	router     *doctype.Router
	tracker    *tracker.Tracker
	logger     logger.Logger
	cfg        Config
}

func NewOrchestrator(
	store storage.ObjectStore,
	ldg ledger.Ledger,
	q queue.Queue,
	dispatcher Extractor,
	router *doctype.Router,
	trk *tracker.Tracker,
	log logger.Logger,
	cfg Config,
) *Orchestrator {
	if cfg.MaxFileSize == 0 {
		cfg.MaxFileSize = 50 * 1024 * 1024
	}
	if cfg.LeaseTTL == 0 {
		cfg.LeaseTTL = 30 * time.Minute
	}
	return &Orchestrator{
		store:      store,
		ledger:     ldg,
		queue:      q,
		dispatcher: dispatcher,
		router:     router,
		tracker:    trk,
		logger:     log,
		cfg:        cfg,
	}
}

func (o *Orchestrator) UploadBatch(ctx context.Context, files []*multipart.FileHeader) ([]*models.FileRecord, []error) {
	// Validate everything up front in parallel; the ingest itself stays
	// strictly sequential so one file's full upload-extract-route cycle
	// starts before the next begins.
	g, gctx := errgroup.WithContext(ctx)
	for _, header := range files {
		header := header
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
				return o.validate(header)
			}
		})
	}
	if err := g.Wait(); err != nil {
		o.logger.Warn("Batch contains invalid files", logger.Error(err))
	}

	// Results stay aligned with the input: records[i] and errs[i] describe
	// files[i], exactly one of them set.
	records := make([]*models.FileRecord, len(files))
	errs := make([]error, len(files))
	for i, header := range files {
		rec, err := o.uploadOne(ctx, header)
		if err != nil {
			// An upload failure aborts this batch item only.
			o.logger.Error("Failed to ingest file",
				logger.String("filename", header.Filename),
				logger.Error(err),
			)
			errs[i] = fmt.Errorf("%s: %w", header.Filename, err)
			continue
		}
		records[i] = rec
	}
	return records, errs
}

func (o *Orchestrator) uploadOne(ctx context.Context, header *multipart.FileHeader) (*models.FileRecord, error) {
	if err := o.validate(header); err != nil {
		return nil, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	key := storage.UploadKey(header.Filename, time.Now())
	if err := o.store.Put(ctx, key, bytes.NewReader(data), int64(len(data))); err != nil {
		return nil, fmt.Errorf("storage write rejected: %w", err)
	}

	inferred := doctype.Infer(header.Filename)
	rec := &models.FileRecord{
		ID:            uuid.New().String(),
		Filename:      header.Filename,
		StoragePath:   key,
		FileType:      strings.TrimPrefix(filepath.Ext(header.Filename), "."),
		FileSizeBytes: header.Size,
		DocumentType:  inferred.String(),
		HotelID:       models.HotelIDUnknown,
	}
	if err := o.ledger.Insert(ctx, rec); err != nil {
		// Keep ledger and storage consistent: the orphan sweep would catch
		// this object eventually, but there is no reason to wait.
		if delErr := o.store.Delete(ctx, key); delErr != nil {
			o.logger.Error("Failed to clean up object after ledger insert failure",
				logger.String("key", key),
				logger.Error(delErr),
			)
		}
		return nil, fmt.Errorf("ledger insert rejected: %w", err)
	}

	o.logger.Info("File ingested",
		logger.String("fileId", rec.ID),
		logger.String("filename", rec.Filename),
		logger.String("documentType", rec.DocumentType),
	)

	if _, err := o.startExtraction(ctx, rec); err != nil {
		o.logger.Error("Failed to start extraction after upload",
			logger.String("fileId", rec.ID),
			logger.Error(err),
		)
	}
	return rec, nil
}

func (o *Orchestrator) validate(header *multipart.FileHeader) error {
	if header.Size > o.cfg.MaxFileSize {
		return fmt.Errorf("file size %d exceeds maximum of %d bytes", header.Size, o.cfg.MaxFileSize)
	}
	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".pdf" {
		return fmt.Errorf("unsupported file type: %s", ext)
	}
	return nil
}

// startExtraction acquires the processing lease and enqueues the attempt.
func (o *Orchestrator) startExtraction(ctx context.Context, rec *models.FileRecord) (string, error) {
	requestID := uuid.New().String()
	if err := o.ledger.AcquireLease(ctx, rec.ID, requestID, o.cfg.LeaseTTL); err != nil {
		return "", err
	}

	task := &queue.ExtractionTask{
		FileID:       rec.ID,
		RequestID:    requestID,
		StoragePath:  rec.StoragePath,
		DocumentType: rec.DocumentType,
		EnqueuedAt:   time.Now(),
	}
	if err := o.queue.Enqueue(ctx, task); err != nil {
		// Undo the lease so the file does not read as in-flight forever.
		if clearErr := o.ledger.ClearProcessing(ctx, []string{rec.ID}); clearErr != nil {
			o.logger.Error("Failed to clear lease after enqueue failure",
				logger.String("fileId", rec.ID),
				logger.Error(clearErr),
			)
		}
		return "", fmt.Errorf("failed to enqueue extraction: %w", err)
	}

	o.appendLog(ctx, requestID, rec.ID, models.LogLevelInfo, "extraction attempt queued",
		models.JSONMap{"documentType": rec.DocumentType, "storagePath": rec.StoragePath})
	return requestID, nil
}

func (o *Orchestrator) Process(ctx context.Context, fileID, documentType string) (string, error) {
	rec, err := o.ledger.Get(ctx, fileID)
	if err != nil {
		return "", err
	}
	if documentType != "" && documentType != rec.DocumentType {
		if err := o.ledger.SetDocumentType(ctx, fileID, documentType); err != nil {
			return "", err
		}
		rec.DocumentType = documentType
	}
	return o.startExtraction(ctx, rec)
}

func (o *Orchestrator) Retry(ctx context.Context, fileID string) (string, error) {
	rec, err := o.ledger.Get(ctx, fileID)
	if err != nil {
		return "", err
	}
	if rec.Processing {
		if !rec.StuckSince(o.tracker.Threshold(), time.Now()) {
			return "", ledger.ErrAlreadyProcessing
		}
		// The previous attempt is stuck past the threshold but may still hold
		// an unexpired lease. Drop it so the new attempt can take over.
		if err := o.ledger.ClearProcessing(ctx, []string{fileID}); err != nil {
			return "", err
		}
	}
	return o.startExtraction(ctx, rec)
}

// HandleExtraction runs one queued extraction attempt end to end: fetch
// bytes, dispatch, route, and settle the terminal state. Capability and parse
// failures are terminal for the attempt; a routing failure still counts as a
// successful extraction but leaves the inserted flag unset.
func (o *Orchestrator) HandleExtraction(ctx context.Context, task *queue.ExtractionTask) error {
	if task == nil || task.FileID == "" || task.RequestID == "" {
		return errors.New("invalid extraction task: missing required fields")
	}

	log := o.logger.With(
		logger.String("fileId", task.FileID),
		logger.String("requestId", task.RequestID),
	)
	log.Info("Processing extraction attempt")
	_ = o.queue.SaveStatus(ctx, task.FileID, "processing")

	reader, err := o.store.Get(ctx, task.StoragePath)
	if err != nil {
		return o.failAttempt(ctx, task, fmt.Sprintf("failed to download document: %v", err))
	}
	data, err := io.ReadAll(reader)
	reader.Close()
	if err != nil {
		return o.failAttempt(ctx, task, fmt.Sprintf("failed to read document: %v", err))
	}

	result, err := o.dispatcher.Extract(ctx, task.FileID, task.RequestID, task.DocumentType, data)
	if err != nil {
		return o.failAttempt(ctx, task, err.Error())
	}

	if err := o.ledger.MarkSuccess(ctx, task.FileID, task.RequestID, result.Data); err != nil {
		log.Error("Failed to record extraction success", logger.Error(err))
		return err
	}
	_ = o.queue.SaveStatus(ctx, task.FileID, "completed")

	if err := o.router.Route(ctx, task.FileID, task.RequestID, task.DocumentType, result.Data); err != nil {
		// Extracted but not committed to the target schema; the record keeps
		// its payload without the inserted flag so the UI can tell the
		// difference.
		log.Error("Routing failed after successful extraction", logger.Error(err))
		return nil
	}

	log.Info("Extraction attempt completed",
		logger.String("strategy", result.ProcessedBy),
		logger.String("pdfType", string(result.PDFType)),
	)
	return nil
}

func (o *Orchestrator) failAttempt(ctx context.Context, task *queue.ExtractionTask, message string) error {
	o.appendLog(ctx, task.RequestID, task.FileID, models.LogLevelError, message, nil)
	if err := o.ledger.MarkError(ctx, task.FileID, task.RequestID, message); err != nil {
		o.logger.Error("Failed to record extraction error",
			logger.String("fileId", task.FileID),
			logger.Error(err),
		)
	}
	_ = o.queue.SaveStatus(ctx, task.FileID, "failed")
	// The terminal state is recorded; do not ask asynq to retry.
	return nil
}

func (o *Orchestrator) InsertDocument(ctx context.Context, fileID, documentType string, data models.JSONMap) error {
	rec, err := o.ledger.Get(ctx, fileID)
	if err != nil {
		return err
	}
	if documentType == "" {
		documentType = rec.DocumentType
	} else if documentType != rec.DocumentType {
		if err := o.ledger.SetDocumentType(ctx, fileID, documentType); err != nil {
			return err
		}
	}
	if data == nil {
		data = rec.ExtractedData
	}
	if data == nil {
		return fmt.Errorf("no extracted data available for file %s", fileID)
	}
	return o.router.Route(ctx, fileID, uuid.New().String(), documentType, data)
}

func (o *Orchestrator) CheckStatus(ctx context.Context, fileID string) (*tracker.StatusReport, error) {
	return o.tracker.CheckStatus(ctx, fileID)
}

func (o *Orchestrator) Delete(ctx context.Context, fileID string) error {
	rec, err := o.ledger.Get(ctx, fileID)
	if err != nil {
		return err
	}
	if err := o.store.Delete(ctx, rec.StoragePath); err != nil {
		o.logger.Warn("Failed to delete backing object, record will tombstone anyway",
			logger.String("fileId", fileID),
			logger.String("key", rec.StoragePath),
			logger.Error(err),
		)
	}
	return o.ledger.Delete(ctx, fileID)
}

func (o *Orchestrator) ForceDelete(ctx context.Context, fileID string) error {
	rec, err := o.ledger.Get(ctx, fileID)
	if err == nil && rec.StoragePath != "" {
		if delErr := o.store.Delete(ctx, rec.StoragePath); delErr != nil {
			o.logger.Warn("Failed to delete backing object during force delete",
				logger.String("fileId", fileID),
				logger.Error(delErr),
			)
		}
	}
	return o.ledger.ForceDelete(ctx, fileID)
}

func (o *Orchestrator) Logs(ctx context.Context, fileID string) ([]models.ProcessingLog, error) {
	return o.ledger.LogsForFile(ctx, fileID)
}

func (o *Orchestrator) appendLog(ctx context.Context, requestID, fileID string, level models.LogLevel, msg string, details models.JSONMap) {
	_ = o.ledger.AppendLog(ctx, &models.ProcessingLog{
		RequestID: requestID,
		FileID:    fileID,
		LogLevel:  level,
		Message:   msg,
		Details:   details,
	})
}

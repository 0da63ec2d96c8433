package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hchen1203/hotel-doc-ingest/internal/models"
	"github.com/hchen1203/hotel-doc-ingest/internal/tracker"
	"github.com/hchen1203/hotel-doc-ingest/pkg/logger"
	"github.com/hchen1203/hotel-doc-ingest/pkg/queue"
)

// stubService accepts .pdf uploads and rejects everything else, keeping the
// returned slices aligned with the input batch.
type stubService struct{}

func (s *stubService) UploadBatch(ctx context.Context, files []*multipart.FileHeader) ([]*models.FileRecord, []error) {
	records := make([]*models.FileRecord, len(files))
	errs := make([]error, len(files))
	for i, f := range files {
		if !strings.HasSuffix(f.Filename, ".pdf") {
			errs[i] = fmt.Errorf("%s: only PDF files are supported", f.Filename)
			continue
		}
		records[i] = &models.FileRecord{
			ID:            fmt.Sprintf("file-%d", i),
			Filename:      f.Filename,
			FileSizeBytes: f.Size,
			DocumentType:  "occupancy report",
		}
	}
	return records, errs
}

func (s *stubService) Process(ctx context.Context, fileID, documentType string) (string, error) {
	return "", nil
}

func (s *stubService) Retry(ctx context.Context, fileID string) (string, error) { return "", nil }

func (s *stubService) HandleExtraction(ctx context.Context, task *queue.ExtractionTask) error {
	return nil
}

func (s *stubService) InsertDocument(ctx context.Context, fileID, documentType string, data models.JSONMap) error {
	return nil
}

func (s *stubService) CheckStatus(ctx context.Context, fileID string) (*tracker.StatusReport, error) {
	return nil, nil
}

func (s *stubService) Delete(ctx context.Context, fileID string) error      { return nil }
func (s *stubService) ForceDelete(ctx context.Context, fileID string) error { return nil }

func (s *stubService) Logs(ctx context.Context, fileID string) ([]models.ProcessingLog, error) {
	return nil, nil
}

func uploadRequest(t *testing.T, filenames ...string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range filenames {
		fw, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("%PDF-1.4 fake"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadReportsMixedBatchPerFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewFileHandler(&stubService{}, nil, logger.NewTestLogger())
	r := gin.New()
	r.POST("/api/files/upload", h.Upload)

	// One accepted and one rejected file in the same batch; the response
	// must pair each result with its own file.
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "occupancy.pdf", "notes.txt"))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Files []UploadResponse `json:"files"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Files, 2)

	assert.Equal(t, "accepted", body.Files[0].Status)
	assert.Equal(t, "occupancy.pdf", body.Files[0].Filename)
	assert.Equal(t, "file-0", body.Files[0].FileID)
	assert.Empty(t, body.Files[0].Error)

	assert.Equal(t, "failed", body.Files[1].Status)
	assert.Equal(t, "notes.txt", body.Files[1].Filename)
	assert.Contains(t, body.Files[1].Error, "notes.txt")
	assert.Empty(t, body.Files[1].FileID)
}

func TestUploadRejectsEmptyForm(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewFileHandler(&stubService{}, nil, logger.NewTestLogger())
	r := gin.New()
	r.POST("/api/files/upload", h.Upload)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

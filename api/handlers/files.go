package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hchen1203/hotel-doc-ingest/internal/ingest"
	"github.com/hchen1203/hotel-doc-ingest/internal/ledger"
	"github.com/hchen1203/hotel-doc-ingest/internal/models"
	"github.com/hchen1203/hotel-doc-ingest/internal/view"
	"github.com/hchen1203/hotel-doc-ingest/pkg/logger"
)

type FileHandler struct {
	service ingest.Service
	view    *view.View
	logger  logger.Logger
}

// UploadResponse describes one file of an upload batch.
type UploadResponse struct {
	FileID       string `json:"fileId,omitempty"`
	Filename     string `json:"filename"`
	FileSize     int64  `json:"fileSize"`
	DocumentType string `json:"documentType,omitempty"`
	Status       string `json:"status"`
	Error        string `json:"error,omitempty"`
}

// FileResponse is the listing shape of a file record.
type FileResponse struct {
	FileID       string         `json:"fileId"`
	Filename     string         `json:"filename"`
	FileType     string         `json:"fileType"`
	FileSize     int64          `json:"fileSize"`
	DocumentType string         `json:"documentType"`
	HotelID      string         `json:"hotelId"`
	Processing   bool           `json:"processing"`
	Processed    bool           `json:"processed"`
	Data         models.JSONMap `json:"data,omitempty"`
	CreatedAt    string         `json:"createdAt"`
	UpdatedAt    string         `json:"updatedAt"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func NewFileHandler(service ingest.Service, fileView *view.View, logger logger.Logger) *FileHandler {
	return &FileHandler{
		service: service,
		view:    fileView,
		logger:  logger,
	}
}

// Upload ingests a batch of PDFs from a multipart form. Per-file failures
// are reported in place; the batch itself always answers 200 once the form
// parses.
func (h *FileHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		h.handleError(c, http.StatusBadRequest, "No files provided", nil)
		return
	}

	records, uploadErrs := h.service.UploadBatch(c.Request.Context(), files)

	responses := make([]UploadResponse, len(files))
	for i := range files {
		responses[i] = UploadResponse{
			Filename: files[i].Filename,
			FileSize: files[i].Size,
		}
		if uploadErrs[i] != nil {
			responses[i].Status = "failed"
			responses[i].Error = uploadErrs[i].Error()
			continue
		}
		responses[i].Status = "accepted"
		responses[i].FileID = records[i].ID
		responses[i].DocumentType = records[i].DocumentType
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Uploaded %d files", len(files)),
		"files":   responses,
	})
}

// List returns the client-visible file list.
func (h *FileHandler) List(c *gin.Context) {
	records, err := h.view.Files(c.Request.Context())
	if err != nil && len(records) == 0 {
		h.handleError(c, http.StatusInternalServerError, "Failed to list files", err)
		return
	}

	responses := make([]FileResponse, len(records))
	for i, rec := range records {
		responses[i] = toFileResponse(&rec)
	}

	c.JSON(http.StatusOK, gin.H{"files": responses})
}

// GetStatus answers a live status check for one file.
func (h *FileHandler) GetStatus(c *gin.Context) {
	fileID := c.Param("fileId")

	report, err := h.service.CheckStatus(c.Request.Context(), fileID)
	if err != nil {
		h.notFoundOr(c, "Failed to get status", err)
		return
	}

	c.JSON(http.StatusOK, report)
}

type processRequest struct {
	DocumentType string `json:"documentType"`
}

// Process starts (or restarts) extraction for a file, optionally with a
// corrected document type.
func (h *FileHandler) Process(c *gin.Context) {
	fileID := c.Param("fileId")

	var req processRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.handleError(c, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	requestID, err := h.service.Process(c.Request.Context(), fileID, req.DocumentType)
	if err != nil {
		if errors.Is(err, ledger.ErrAlreadyProcessing) {
			h.handleError(c, http.StatusConflict, "File is already processing", err)
			return
		}
		h.notFoundOr(c, "Failed to start processing", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fileId":    fileID,
		"requestId": requestID,
		"status":    "processing",
	})
}

// Retry forces a new extraction attempt for a failed or completed file.
func (h *FileHandler) Retry(c *gin.Context) {
	fileID := c.Param("fileId")

	requestID, err := h.service.Retry(c.Request.Context(), fileID)
	if err != nil {
		if errors.Is(err, ledger.ErrAlreadyProcessing) {
			h.handleError(c, http.StatusConflict, "File is already processing", err)
			return
		}
		h.notFoundOr(c, "Failed to retry", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fileId":    fileID,
		"requestId": requestID,
		"status":    "processing",
	})
}

type insertRequest struct {
	DocumentType string         `json:"documentType" binding:"required"`
	Data         models.JSONMap `json:"data" binding:"required"`
}

// Insert routes an already-extracted payload into its target schema.
func (h *FileHandler) Insert(c *gin.Context) {
	fileID := c.Param("fileId")

	var req insertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.service.InsertDocument(c.Request.Context(), fileID, req.DocumentType, req.Data); err != nil {
		h.notFoundOr(c, "Failed to insert document", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fileId":  fileID,
		"message": "Document inserted successfully",
	})
}

// Delete removes a file and its stored object. The id stays suppressed from
// listings even if a stale notification arrives afterwards.
func (h *FileHandler) Delete(c *gin.Context) {
	fileID := c.Param("fileId")

	if err := h.service.Delete(c.Request.Context(), fileID); err != nil {
		h.notFoundOr(c, "Failed to delete file", err)
		return
	}
	h.view.MarkDeleted(fileID)

	c.JSON(http.StatusOK, gin.H{
		"fileId":  fileID,
		"message": "File deleted successfully",
	})
}

// ForceDelete removes a file regardless of its processing state.
func (h *FileHandler) ForceDelete(c *gin.Context) {
	fileID := c.Param("fileId")

	if err := h.service.ForceDelete(c.Request.Context(), fileID); err != nil {
		h.notFoundOr(c, "Failed to force delete file", err)
		return
	}
	h.view.MarkDeleted(fileID)

	c.JSON(http.StatusOK, gin.H{
		"fileId":  fileID,
		"message": "File force deleted",
	})
}

// Logs returns the append-only processing history for a file.
func (h *FileHandler) Logs(c *gin.Context) {
	fileID := c.Param("fileId")

	logs, err := h.service.Logs(c.Request.Context(), fileID)
	if err != nil {
		h.notFoundOr(c, "Failed to get logs", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fileId": fileID,
		"logs":   logs,
	})
}

func toFileResponse(rec *models.FileRecord) FileResponse {
	return FileResponse{
		FileID:       rec.ID,
		Filename:     rec.Filename,
		FileType:     rec.FileType,
		FileSize:     rec.FileSizeBytes,
		DocumentType: rec.DocumentType,
		HotelID:      rec.HotelID,
		Processing:   rec.Processing,
		Processed:    rec.Processed,
		Data:         rec.ExtractedData,
		CreatedAt:    rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    rec.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *FileHandler) notFoundOr(c *gin.Context, message string, err error) {
	if errors.Is(err, ledger.ErrNotFound) {
		h.handleError(c, http.StatusNotFound, "File not found", err)
		return
	}
	h.handleError(c, http.StatusInternalServerError, message, err)
}

func (h *FileHandler) handleError(c *gin.Context, status int, message string, err error) {
	h.logger.Error(message,
		logger.String("path", c.Request.URL.Path),
		logger.Error(err),
	)

	response := ErrorResponse{
		Message: message,
	}
	if err != nil {
		response.Error = err.Error()
	}

	c.JSON(status, response)
}

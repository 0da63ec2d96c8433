package handlers

import (
	"github.com/hchen1203/hotel-doc-ingest/internal/ingest"
	"github.com/hchen1203/hotel-doc-ingest/internal/view"
	"github.com/hchen1203/hotel-doc-ingest/pkg/logger"
)

type Handlers struct {
	Files *FileHandler
}

func NewHandlers(
	ingestService ingest.Service,
	fileView *view.View,
	logger logger.Logger,
) *Handlers {
	return &Handlers{
		Files: NewFileHandler(ingestService, fileView, logger),
	}
}

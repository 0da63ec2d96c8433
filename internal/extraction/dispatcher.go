package extraction

import (
	"context"
	"fmt"
	"time"

	"github.com/hchen1203/hotel-doc-ingest/internal/classifier"
	"github.com/hchen1203/hotel-doc-ingest/internal/ledger"
	"github.com/hchen1203/hotel-doc-ingest/internal/models"
	"github.com/hchen1203/hotel-doc-ingest/pkg/logger"
)

// Result is a completed extraction attempt.
type Result struct {
	PDFType     classifier.PDFType
	ProcessedBy string
	Data        models.JSONMap
}

// Dispatcher classifies the document and drives the matching extraction
// strategy against the capability. Every phase writes a ProcessingLog entry
// under the attempt's request id so one attempt can be replayed end to end
// from the audit trail.
type Dispatcher struct {
	classifier *classifier.Classifier
	capability Capability
	ledger     ledger.Ledger
	logger     logger.Logger
}

func NewDispatcher(cls *classifier.Classifier, cap Capability, ldg ledger.Ledger, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		classifier: cls,
		capability: cap,
		ledger:     ldg,
		logger:     log,
	}
}

// Extract runs the full classify-dispatch-normalize sequence for one file.
// Any capability or parse failure is fatal for the attempt; partial data is
// never returned.
func (d *Dispatcher) Extract(ctx context.Context, fileID, requestID, documentType string, data []byte) (*Result, error) {
	d.log(ctx, requestID, fileID, models.LogLevelInfo, "document download complete",
		models.JSONMap{"sizeBytes": len(data)})

	pdfType := d.classifier.Classify(data)
	d.log(ctx, requestID, fileID, models.LogLevelInfo,
		fmt.Sprintf("pdf type detected: %s", pdfType),
		models.JSONMap{"pdfType": string(pdfType)})

	var (
		response string
		strategy string
		err      error
	)
	switch pdfType {
	case classifier.TextBased:
		strategy = StrategyText
		response, err = d.extractFromText(ctx, fileID, requestID, documentType, data)
	default:
		strategy = StrategyVision
		response, err = d.extractFromImages(ctx, fileID, requestID, documentType, data)
	}
	if err != nil {
		d.log(ctx, requestID, fileID, models.LogLevelError, err.Error(), nil)
		return nil, err
	}

	d.log(ctx, requestID, fileID, models.LogLevelInfo, "capability response received",
		models.JSONMap{"responseLength": len(response), "strategy": strategy})

	payload, err := Normalize(response, strategy, documentType, time.Now())
	if err != nil {
		d.log(ctx, requestID, fileID, models.LogLevelError,
			fmt.Sprintf("capability response not parseable: %v", err), nil)
		return nil, fmt.Errorf("normalize response: %w", err)
	}

	d.log(ctx, requestID, fileID, models.LogLevelSuccess, "extraction completed",
		models.JSONMap{"strategy": strategy})

	return &Result{PDFType: pdfType, ProcessedBy: strategy, Data: payload}, nil
}

func (d *Dispatcher) extractFromText(ctx context.Context, fileID, requestID, documentType string, data []byte) (string, error) {
	text, err := d.classifier.ExtractText(data)
	if err != nil {
		return "", fmt.Errorf("extract text layer: %w", err)
	}

	d.log(ctx, requestID, fileID, models.LogLevelInfo, "extraction request sent",
		models.JSONMap{"strategy": StrategyText, "textLength": len(text)})

	response, err := d.capability.CompleteText(ctx, systemPrompt(documentType), text)
	if err != nil {
		return "", fmt.Errorf("text capability call: %w", err)
	}
	return response, nil
}

func (d *Dispatcher) extractFromImages(ctx context.Context, fileID, requestID, documentType string, data []byte) (string, error) {
	pages, err := SplitPages(data)
	if err != nil {
		return "", fmt.Errorf("split pages for vision: %w", err)
	}
	for i := range pages {
		d.log(ctx, requestID, fileID, models.LogLevelInfo,
			fmt.Sprintf("page %d converted for vision request", i+1), nil)
	}

	d.log(ctx, requestID, fileID, models.LogLevelInfo, "extraction request sent",
		models.JSONMap{"strategy": StrategyVision, "pages": len(pages)})

	response, err := d.capability.CompleteVision(ctx, systemPrompt(documentType),
		"Extract the structured data from the attached document pages.", pages)
	if err != nil {
		return "", fmt.Errorf("vision capability call: %w", err)
	}
	return response, nil
}

func (d *Dispatcher) log(ctx context.Context, requestID, fileID string, level models.LogLevel, msg string, details models.JSONMap) {
	_ = d.ledger.AppendLog(ctx, &models.ProcessingLog{
		RequestID: requestID,
		FileID:    fileID,
		LogLevel:  level,
		Message:   msg,
		Details:   details,
	})
}

func systemPrompt(documentType string) string {
	return "You are a hotel financial document parser. The document is a " + documentType + ". " +
		"Return ONLY a well-formed JSON object describing the document's data. " +
		"Use lowerCamelCase field names. Format dates as YYYY-MM-DD and numbers without currency symbols or thousands separators. " +
		"Include the fields processedBy, processedAt and documentType. " +
		"Never return partial data: if a value is unreadable, omit the field."
}

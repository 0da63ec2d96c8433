package classifier

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/hchen1203/hotel-doc-ingest/pkg/logger"
)

// PDFType is the classification of an uploaded document.
type PDFType string

const (
	TextBased  PDFType = "text-based"
	ImageBased PDFType = "image-based"
)

const (
	// sampledPages bounds how much of the document is inspected.
	sampledPages = 3
	// textThreshold is the minimum characters on any sampled page for the
	// document to count as having a selectable text layer.
	textThreshold = 50
)

// Classifier decides whether a PDF carries a selectable text layer or must be
// treated as a scanned image.
type Classifier struct {
	logger logger.Logger
}

func New(log logger.Logger) *Classifier {
	return &Classifier{logger: log}
}

// Classify samples up to the first three pages for text content. A document
// that cannot be parsed at all classifies as image-based: the vision path is
// the tolerant fallback and still attempts best-effort analysis.
func (c *Classifier) Classify(data []byte) PDFType {
	pages, err := samplePageText(data, sampledPages)
	if err != nil {
		c.logger.Warn("PDF unparseable, falling back to image-based classification",
			logger.Error(err),
		)
		return ImageBased
	}
	return Decide(pages)
}

// Decide applies the classification rule to sampled page texts.
func Decide(pages []string) PDFType {
	for _, text := range pages {
		if len(strings.TrimSpace(text)) > textThreshold {
			return TextBased
		}
	}
	return ImageBased
}

// ExtractText concatenates the text content of every page, for the text
// extraction path.
func (c *Classifier) ExtractText(data []byte) (string, error) {
	reader, numPages, err := open(data)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to get text from page %d: %w", i, err)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func samplePageText(data []byte, limit int) (pages []string, err error) {
	reader, numPages, err := open(data)
	if err != nil {
		return nil, err
	}
	if numPages < limit {
		limit = numPages
	}

	for i := 1; i <= limit; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

func open(data []byte) (reader *pdf.Reader, numPages int, err error) {
	// The pdf library panics on some malformed documents; treat a panic the
	// same as a parse error so corrupt uploads degrade to the vision path.
	defer func() {
		if r := recover(); r != nil {
			reader, numPages = nil, 0
			err = fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	br := bytes.NewReader(data)
	reader, err = pdf.NewReader(br, br.Size())
	if err != nil {
		return nil, 0, err
	}
	return reader, reader.NumPage(), nil
}

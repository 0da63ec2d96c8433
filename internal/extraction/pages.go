package extraction

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// maxVisionPages caps how many pages are sent to the vision capability, to
// bound request size and cost.
const maxVisionPages = 5

// SplitPages renders up to maxVisionPages of the document as standalone
// single-page PDFs and base64-encodes each one for the vision request.
func SplitPages(data []byte) ([]string, error) {
	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}
	if count > maxVisionPages {
		count = maxVisionPages
	}

	pages := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		var buf bytes.Buffer
		if err := api.Trim(bytes.NewReader(data), &buf, []string{strconv.Itoa(i)}, nil); err != nil {
			return nil, fmt.Errorf("failed to split page %d: %w", i, err)
		}
		pages = append(pages, base64.StdEncoding.EncodeToString(buf.Bytes()))
	}
	return pages, nil
}

package extraction

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hchen1203/hotel-doc-ingest/internal/models"
)

// Normalize parses a raw capability response into a payload and guarantees
// the processing metadata contract: processedBy, processedAt and documentType
// are always present, injected when the model omitted them. Downstream
// consumers can then always tell the extraction strategy and staleness apart
// without re-deriving either.
func Normalize(response, strategy, documentType string, now time.Time) (models.JSONMap, error) {
	raw, err := ExtractJSON(response)
	if err != nil {
		return nil, err
	}

	var data models.JSONMap
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("failed to parse extracted JSON: %w", err)
	}

	if _, ok := data["processedBy"]; !ok {
		data["processedBy"] = strategy
	}
	if _, ok := data["processedAt"]; !ok {
		data["processedAt"] = now.Format(time.RFC3339)
	}
	if _, ok := data["documentType"]; !ok {
		data["documentType"] = documentType
	}
	return data, nil
}

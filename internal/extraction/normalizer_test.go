package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeInjectsMetadata(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	response := "```json\n{\"occupancyRate\": 85.5}\n```"

	data, err := Normalize(response, StrategyText, "occupancy report", now)
	require.NoError(t, err)

	assert.Equal(t, StrategyText, data["processedBy"])
	assert.Equal(t, "2024-03-15T10:30:00Z", data["processedAt"])
	assert.Equal(t, "occupancy report", data["documentType"])
	assert.InDelta(t, 85.5, data["occupancyRate"].(float64), 1e-9)
}

func TestNormalizeKeepsModelProvidedMetadata(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	response := `{"documentType": "night audit", "processedBy": "upstream", "processedAt": "2024-01-01T00:00:00Z"}`

	data, err := Normalize(response, StrategyVision, "occupancy report", now)
	require.NoError(t, err)

	// Already-present fields are never overwritten.
	assert.Equal(t, "night audit", data["documentType"])
	assert.Equal(t, "upstream", data["processedBy"])
	assert.Equal(t, "2024-01-01T00:00:00Z", data["processedAt"])
}

func TestNormalizeRejectsNonObjectResponse(t *testing.T) {
	_, err := Normalize("no json here", StrategyText, "x", time.Now())
	require.Error(t, err)
}

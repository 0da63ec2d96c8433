package worker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hchen1203/hotel-doc-ingest/pkg/logger"
)

func TestStopIsIdempotent(t *testing.T) {
	w, err := NewExtractionWorker(&Config{
		RedisAddr:   "localhost:6379",
		Concurrency: 1,
		Queues:      map[string]int{"default": 1},
	}, nil, logger.NewTestLogger())
	require.NoError(t, err)

	// Signal handling and context cancellation can race to Stop; a second
	// call must not close stopChan again.
	require.NoError(t, w.Stop())
	require.NotPanics(t, func() { _ = w.Stop() })
}

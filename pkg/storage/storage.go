package storage

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/hchen1203/hotel-doc-ingest/pkg/logger"
	"github.com/hchen1203/hotel-doc-ingest/pkg/storage/minio"
	"github.com/hchen1203/hotel-doc-ingest/pkg/storage/s3"
)

// Backend selects the object store implementation.
type Backend string

const (
	BackendMinio Backend = "minio"
	BackendS3    Backend = "s3"
)

// New builds an object store for the configured backend.
func New(backend Backend, log logger.Logger) (ObjectStore, error) {
	switch backend {
	case BackendMinio, "":
		return minio.GetClient(log)
	case BackendS3:
		return s3.GetClient(log)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", backend)
	}
}

// UploadPrefix is where original document bytes live in the bucket.
const UploadPrefix = "uploads/"

// ObjectStore is the blob store holding uploaded PDF bytes. ListKeys exists
// for the orphan sweep and must return every key under the uploads prefix.
type ObjectStore interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	ListKeys(ctx context.Context) ([]string, error)
}

// UploadKey builds the object key for a new upload. The millisecond prefix
// avoids collisions between same-named files; sanitization strips non-ASCII
// characters that break object-key encoding on some backends.
func UploadKey(filename string, now time.Time) string {
	return UploadPrefix + strconv.FormatInt(now.UnixMilli(), 10) + "_" + SanitizeFilename(filename)
}

// SanitizeFilename keeps ASCII letters, digits, dots, underscores and
// hyphens; spaces become underscores and everything else is dropped.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "document.pdf"
	}
	return b.String()
}

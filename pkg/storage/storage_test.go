package storage

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"march report 2024.pdf", "march_report_2024.pdf"},
		{"façade–draft.pdf", "faadedraft.pdf"},
		{"../../etc/passwd", "....etcpasswd"},
		{"???", "document.pdf"},
		{"", "document.pdf"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SanitizeFilename(tc.in), "input %q", tc.in)
	}
}

func TestUploadKey(t *testing.T) {
	now := time.UnixMilli(1710500000000)
	key := UploadKey("night audit.pdf", now)
	assert.Equal(t, UploadPrefix+strconv.FormatInt(now.UnixMilli(), 10)+"_night_audit.pdf", key)
}

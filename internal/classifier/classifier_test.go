package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hchen1203/hotel-doc-ingest/pkg/logger"
)

func TestDecideTextBased(t *testing.T) {
	pages := []string{strings.Repeat("Occupancy Report for March ", 5)}
	assert.Equal(t, TextBased, Decide(pages))
}

func TestDecideLaterPageCounts(t *testing.T) {
	// A cover page with no text layer must not force the vision path when a
	// later sampled page carries enough.
	pages := []string{"", "  ", strings.Repeat("Night audit summary ", 10)}
	assert.Equal(t, TextBased, Decide(pages))
}

func TestDecideImageBased(t *testing.T) {
	assert.Equal(t, ImageBased, Decide([]string{"", "", ""}))
	assert.Equal(t, ImageBased, Decide(nil))
	// At or under the threshold still counts as scanned.
	assert.Equal(t, ImageBased, Decide([]string{strings.Repeat("x", 50)}))
}

func TestClassifyCorruptPDF(t *testing.T) {
	c := New(logger.NewTestLogger())
	// Garbage bytes parse as nothing; the tolerant fallback is the vision path.
	assert.Equal(t, ImageBased, c.Classify([]byte("not a pdf at all")))
	assert.Equal(t, ImageBased, c.Classify(nil))
}

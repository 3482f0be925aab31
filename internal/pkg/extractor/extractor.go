// Package extractor abstracts the out-of-process step that turns a study
// plan document into the structured payload consumed by the ingestion
// pipeline. The ingestion core only sees the Extractor interface; the
// process-spawning adapter lives in python.go and is swappable.
package extractor

import (
	"context"

	"github.com/acadmx/curricula/internal/app/models/dto"
)

// Options are pass-through flags for the extraction run.
type Options struct {
	// Debug enables verbose tracing in the extractor.
	Debug bool
	// OCR forces OCR mode for scanned documents.
	OCR bool
}

// Extractor extracts a structured plan payload from a document on disk.
type Extractor interface {
	Extract(ctx context.Context, documentPath string, opts Options) (*dto.PlanPayload, error)
}

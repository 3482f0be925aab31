package services

import (
	"context"

	"github.com/acadmx/curricula/internal/app/models/dto"
)

// Ingestor is the ingestion entry point consumed by the HTTP layer.
type Ingestor interface {
	// Ingest reconciles one extracted payload. fileID references the
	// originating document and may be nil.
	Ingest(ctx context.Context, payload *dto.PlanPayload, fileID *int64) (*dto.IngestResult, error)
}

package repositories

import (
	"context"
	"fmt"

	"github.com/acadmx/curricula/internal/app/models"
)

// AuditRepository handles the append-only ingestion audit trail.
type AuditRepository struct{}

// NewAuditRepository creates a new audit repository
func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

// Insert appends one audit entry. Runs as the last statement of the
// ingestion transaction so the entry commits together with the writes it
// describes.
func (r *AuditRepository) Insert(ctx context.Context, q Querier, audit *models.IngestAudit) error {
	query := `
		INSERT INTO ingest_audits (file_id, stage, status, detail)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		audit.FileID,
		audit.Stage,
		audit.Status,
		audit.Detail,
	).Scan(&audit.ID, &audit.CreatedAt)

	if err != nil {
		return fmt.Errorf("error creating audit entry: %w", err)
	}

	return nil
}

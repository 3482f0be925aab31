package models

import "time"

// Audit stages and statuses.
const (
	AuditStageIngest  = "INGESTA"
	AuditStatusOK     = "OK"
	AuditStatusFailed = "FAILED"
)

// IngestAudit is one append-only audit entry summarizing an ingestion run.
type IngestAudit struct {
	ID     int64  `json:"id" db:"id"`
	FileID *int64 `json:"fileId,omitempty" db:"file_id"` // nullable: direct payload ingestions carry no document
	Stage  string `json:"stage" db:"stage"`
	Status string `json:"status" db:"status"`
	Detail string `json:"detail" db:"detail"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

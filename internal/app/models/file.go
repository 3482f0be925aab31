package models

import "time"

// File represents an uploaded study-plan document kept on local storage.
// Its ID is the opaque reference carried into the ingestion audit trail.
type File struct {
	ID        int64     `json:"id" db:"id"`
	FileName  string    `json:"fileName" db:"file_name"`
	FileURL   string    `json:"fileUrl" db:"file_url"`
	FileSize  int64     `json:"fileSize" db:"file_size"`
	FileType  string    `json:"fileType" db:"file_type"` // MIME type
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

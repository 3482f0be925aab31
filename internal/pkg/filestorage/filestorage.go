package filestorage

import "mime/multipart"

// StoredFile describes a document persisted to storage.
type StoredFile struct {
	Filename string // original filename from the upload
	URL      string // accessible URL or relative path recorded in the database
	Path     string // physical filesystem path, handed to the extractor
	Size     int64  // size in bytes
	MimeType string // MIME type reported by the upload
}

// Storage defines the interface for plan-document storage operations.
type Storage interface {
	// SaveDocument saves an uploaded document and reports where it landed.
	SaveDocument(fileHeader *multipart.FileHeader) (*StoredFile, error)

	// DeleteDocument removes a stored document. Deleting a missing
	// document is not an error.
	DeleteDocument(fileURL string) error

	// FullPath returns the physical filesystem path for a stored URL.
	FullPath(fileURL string) string
}

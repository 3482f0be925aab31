package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/acadmx/curricula/internal/pkg/logger"
)

// LocalStorage saves uploaded plan documents to the local filesystem under
// a single base directory, renaming each to a uuid to avoid collisions.
type LocalStorage struct {
	basePath string // root directory where documents are stored
	baseURL  string // optional base URL prepended to returned document paths
}

// NewLocalStorage creates a LocalStorage rooted at basePath. baseURL is
// optional; when provided it is prepended to stored document URLs.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  baseURL,
	}, nil
}

// SaveDocument stores the uploaded document under a uuid filename that
// keeps the original extension.
func (ls *LocalStorage) SaveDocument(fileHeader *multipart.FileHeader) (*StoredFile, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	ext := filepath.Ext(fileHeader.Filename)
	uniqueFilename := uuid.New().String() + ext
	dstPath := filepath.Join(ls.basePath, uniqueFilename)

	dst, err := os.Create(dstPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("failed to save file content: %w", err)
	}

	var accessibleURL string
	if ls.baseURL != "" {
		accessibleURL = strings.TrimRight(ls.baseURL, "/") + "/" + uniqueFilename
	} else {
		accessibleURL = filepath.Join("uploads", uniqueFilename)
	}

	logger.Info().
		Str("filename", fileHeader.Filename).
		Str("saved_as", uniqueFilename).
		Str("url", accessibleURL).
		Msg("Document saved")

	return &StoredFile{
		Filename: fileHeader.Filename,
		URL:      accessibleURL,
		Path:     dstPath,
		Size:     size,
		MimeType: fileHeader.Header.Get("Content-Type"),
	}, nil
}

// DeleteDocument removes a stored document by its URL or relative path.
// Returns nil when the document is already gone.
func (ls *LocalStorage) DeleteDocument(fileURL string) error {
	if fileURL == "" {
		return nil
	}

	filename := filepath.Base(fileURL)
	if filename == "" || filename == "." || filename == "/" {
		return fmt.Errorf("invalid file path: %s", fileURL)
	}

	physicalPath := filepath.Join(ls.basePath, filename)
	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("Document to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete document")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// FullPath returns the full filesystem path for a stored document URL.
func (ls *LocalStorage) FullPath(fileURL string) string {
	filename := filepath.Base(fileURL)
	if filename == "" || filename == "." || filename == "/" {
		return ""
	}
	return filepath.Join(ls.basePath, filename)
}

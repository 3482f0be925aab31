package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/acadmx/curricula/internal/app/models"
	"github.com/acadmx/curricula/internal/pkg/apperrors"
)

// FileRepository handles database operations for uploaded plan documents.
// Documents are recorded before extraction starts, outside the ingestion
// transaction, so the repository is bound to the pool.
type FileRepository struct {
	db *pgxpool.Pool
}

// NewFileRepository creates a new FileRepository
func NewFileRepository(db *pgxpool.Pool) *FileRepository {
	return &FileRepository{db: db}
}

// Create creates a new file record and returns its ID
func (r *FileRepository) Create(ctx context.Context, file *models.File) (int64, error) {
	query := `
		INSERT INTO files (file_name, file_url, file_size, file_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		file.FileName,
		file.FileURL,
		file.FileSize,
		file.FileType,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("error creating file record: %w", err)
	}

	file.ID = id
	return id, nil
}

// GetByID retrieves a file record by ID
func (r *FileRepository) GetByID(ctx context.Context, id int64) (*models.File, error) {
	query := `
		SELECT id, file_name, file_url, file_size, file_type, created_at
		FROM files
		WHERE id = $1
	`

	var file models.File
	err := r.db.QueryRow(ctx, query, id).Scan(
		&file.ID,
		&file.FileName,
		&file.FileURL,
		&file.FileSize,
		&file.FileType,
		&file.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFileNotFound
		}
		return nil, fmt.Errorf("error getting file record: %w", err)
	}

	return &file, nil
}

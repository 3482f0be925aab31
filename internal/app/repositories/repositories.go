package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx operations shared by *pgxpool.Pool and
// pgx.Tx. Repositories that participate in the ingestion transaction take
// a Querier per call so one pgx.Tx can span plan, course, link and audit
// writes.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories holds all the repository instances
type Repositories struct {
	StudyPlanRepository *StudyPlanRepository
	CourseRepository    *CourseRepository
	LinkRepository      *LinkRepository
	AuditRepository     *AuditRepository
	FileRepository      *FileRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		StudyPlanRepository: NewStudyPlanRepository(),
		CourseRepository:    NewCourseRepository(),
		LinkRepository:      NewLinkRepository(),
		AuditRepository:     NewAuditRepository(),
		FileRepository:      NewFileRepository(db),
	}
}

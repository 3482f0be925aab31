package repositories

import (
	"context"
	"fmt"

	"github.com/acadmx/curricula/internal/app/models"
	"github.com/acadmx/curricula/internal/pkg/apperrors"
)

// CourseRepository handles database operations for globally unique courses.
type CourseRepository struct{}

// NewCourseRepository creates a new course repository
func NewCourseRepository() *CourseRepository {
	return &CourseRepository{}
}

// GetByCodes batch-loads all courses whose canonical code appears in codes.
// Missing codes simply produce no row.
func (r *CourseRepository) GetByCodes(ctx context.Context, q Querier, codes []string) ([]*models.Course, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, code, name, credits, type, legacy_plan_id, created_at, updated_at
		FROM courses
		WHERE code = ANY($1)
	`

	rows, err := q.Query(ctx, query, codes)
	if err != nil {
		return nil, fmt.Errorf("error retrieving courses by code: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(
			&course.ID,
			&course.Code,
			&course.Name,
			&course.Credits,
			&course.Type,
			&course.LegacyPlanID,
			&course.CreatedAt,
			&course.UpdatedAt,
		); err != nil {
			return nil, err
		}
		courses = append(courses, &course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

// Insert creates a new course row. The legacy plan reference is written
// here and never by Update; course code uniqueness is enforced by the
// courses_code_key constraint.
func (r *CourseRepository) Insert(ctx context.Context, q Querier, course *models.Course) error {
	query := `
		INSERT INTO courses (code, name, credits, type, legacy_plan_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := q.QueryRow(ctx, query,
		course.Code,
		course.Name,
		course.Credits,
		course.Type,
		course.LegacyPlanID,
	).Scan(&course.ID)

	if err != nil {
		return fmt.Errorf("error creating course: %w", err)
	}

	return nil
}

// Update persists the three mutable fields of an existing course. The
// legacy plan reference is deliberately absent from the statement.
func (r *CourseRepository) Update(ctx context.Context, q Querier, course *models.Course) error {
	query := `
		UPDATE courses
		SET name = $1, credits = $2, type = $3, updated_at = NOW()
		WHERE id = $4
	`

	cmdTag, err := q.Exec(ctx, query, course.Name, course.Credits, course.Type, course.ID)
	if err != nil {
		return fmt.Errorf("error updating course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

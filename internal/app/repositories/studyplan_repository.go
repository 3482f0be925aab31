package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/acadmx/curricula/internal/app/models"
	"github.com/acadmx/curricula/internal/pkg/apperrors"
)

// StudyPlanRepository handles database operations for study plans. All
// methods take a Querier so they can run inside the ingestion transaction.
type StudyPlanRepository struct{}

// NewStudyPlanRepository creates a new study plan repository
func NewStudyPlanRepository() *StudyPlanRepository {
	return &StudyPlanRepository{}
}

// GetByNameAndVersion retrieves a plan by its natural key. Returns
// apperrors.ErrPlanNotFound when no plan matches.
func (r *StudyPlanRepository) GetByNameAndVersion(ctx context.Context, q Querier, name, version string) (*models.StudyPlan, error) {
	query := `
		SELECT id, name, version, total_credits, suggested_semesters, created_at, updated_at
		FROM study_plans
		WHERE name = $1 AND version = $2
	`

	var plan models.StudyPlan
	err := q.QueryRow(ctx, query, name, version).Scan(
		&plan.ID,
		&plan.Name,
		&plan.Version,
		&plan.TotalCredits,
		&plan.SuggestedSemesters,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPlanNotFound
		}
		return nil, fmt.Errorf("error retrieving study plan: %w", err)
	}

	return &plan, nil
}

// Insert creates a plan row, tolerating a concurrent insert of the same
// natural key. Returns true and fills plan.ID when this call created the
// row; returns false when another transaction won the race, in which case
// the caller should re-select.
func (r *StudyPlanRepository) Insert(ctx context.Context, q Querier, plan *models.StudyPlan) (bool, error) {
	query := `
		INSERT INTO study_plans (name, version, total_credits, suggested_semesters)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name, version) DO NOTHING
		RETURNING id
	`

	err := q.QueryRow(ctx, query,
		plan.Name,
		plan.Version,
		plan.TotalCredits,
		plan.SuggestedSemesters,
	).Scan(&plan.ID)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error creating study plan: %w", err)
	}

	return true, nil
}

// Update persists the mutable aggregate fields of an existing plan.
func (r *StudyPlanRepository) Update(ctx context.Context, q Querier, plan *models.StudyPlan) error {
	query := `
		UPDATE study_plans
		SET total_credits = $1, suggested_semesters = $2, updated_at = NOW()
		WHERE id = $3
	`

	cmdTag, err := q.Exec(ctx, query, plan.TotalCredits, plan.SuggestedSemesters, plan.ID)
	if err != nil {
		return fmt.Errorf("error updating study plan: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPlanNotFound
	}

	return nil
}

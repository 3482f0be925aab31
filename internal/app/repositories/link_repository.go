package repositories

import (
	"context"
	"fmt"
)

// LinkRepository handles the many-to-many association between courses and
// study plans.
type LinkRepository struct{}

// NewLinkRepository creates a new link repository
func NewLinkRepository() *LinkRepository {
	return &LinkRepository{}
}

// Ensure inserts the (courseID, planID) pair if it is not already present.
// Returns true only when the insert actually added a row; detection is via
// the command tag rather than a pre-check so concurrent ingestions cannot
// race between check and insert.
func (r *LinkRepository) Ensure(ctx context.Context, q Querier, courseID, planID int64) (bool, error) {
	query := `
		INSERT INTO plan_courses (course_id, plan_id)
		VALUES ($1, $2)
		ON CONFLICT (course_id, plan_id) DO NOTHING
	`

	cmdTag, err := q.Exec(ctx, query, courseID, planID)
	if err != nil {
		return false, fmt.Errorf("error ensuring plan-course link: %w", err)
	}

	return cmdTag.RowsAffected() == 1, nil
}

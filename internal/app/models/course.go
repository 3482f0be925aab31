package models

import "time"

// CourseType classifies a course within a plan.
type CourseType string

const (
	CourseMandatory CourseType = "MANDATORY"
	CourseElective  CourseType = "ELECTIVE"
)

// Course represents a single subject, globally unique by canonical code and
// potentially shared across multiple study plans.
type Course struct {
	ID      int64      `json:"id" db:"id"`
	Code    string     `json:"code" db:"code"`
	Name    string     `json:"name" db:"name"`
	Credits int        `json:"credits" db:"credits"`
	Type    CourseType `json:"type" db:"type"`

	// LegacyPlanID is the plan that first created this course. It is set
	// once and never reassigned; actual plan membership lives in the
	// plan_courses link table.
	LegacyPlanID int64 `json:"legacyPlanId" db:"legacy_plan_id"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

package models

// PlanCourseLink records that a course belongs to a study plan. It is an
// existence-only relation keyed by the (CourseID, PlanID) pair.
type PlanCourseLink struct {
	CourseID int64 `json:"courseId" db:"course_id"`
	PlanID   int64 `json:"planId" db:"plan_id"`
}

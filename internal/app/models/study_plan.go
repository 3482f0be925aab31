package models

import "time"

// StudyPlan represents a named, versioned curriculum definition.
// Its natural key is the (Name, Version) pair; the surrogate ID alone
// never identifies a plan across ingestions.
type StudyPlan struct {
	ID                 int64     `json:"id" db:"id"`
	Name               string    `json:"name" db:"name"`
	Version            string    `json:"version" db:"version"`
	TotalCredits       int       `json:"totalCredits" db:"total_credits"`
	SuggestedSemesters int       `json:"suggestedSemesters" db:"suggested_semesters"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time `json:"updatedAt" db:"updated_at"`
}

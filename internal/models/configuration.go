package models

import "time"

// ResultConfiguration bundles a school's per-session result settings:
// grading periods, assessment components and the grade scale.
type ResultConfiguration struct {
	ID        string    `db:"id" json:"id"`
	SchoolID  string    `db:"school_id" json:"schoolId"`
	SessionID string    `db:"session_id" json:"sessionId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	Periods    []ResultPeriod        `json:"periods,omitempty"`
	Components []AssessmentComponent `json:"components,omitempty"`
	Scale      []GradeScaleEntry     `json:"scale,omitempty"`
}

// ResultPeriod is a grading term with a relative weight used in
// cumulative averaging.
type ResultPeriod struct {
	ID       string  `db:"id" json:"id"`
	ConfigID string  `db:"config_id" json:"configId"`
	Name     string  `db:"name" json:"name"`
	Weight   float64 `db:"weight" json:"weight"`
}

// AssessmentComponent is a named sub-score slot (e.g. "CA1", "Exam")
// with a ceiling. Immutable once results reference it.
type AssessmentComponent struct {
	ID       string  `db:"id" json:"id"`
	ConfigID string  `db:"config_id" json:"configId"`
	Name     string  `db:"name" json:"name"`
	Key      string  `db:"key" json:"key"`
	MaxScore float64 `db:"max_score" json:"maxScore"`
}

// GradeScaleEntry maps a score range to a grade label and remark.
// Entries are school-scoped; overlapping ranges are rejected when the
// scale is written.
type GradeScaleEntry struct {
	ID       string  `db:"id" json:"id"`
	SchoolID string  `db:"school_id" json:"schoolId"`
	MinScore float64 `db:"min_score" json:"minScore"`
	MaxScore float64 `db:"max_score" json:"maxScore"`
	Grade    string  `db:"grade" json:"grade"`
	Remark   string  `db:"remark" json:"remark"`
}

// Subject is a taught subject within a school.
type Subject struct {
	ID       string `db:"id" json:"id"`
	SchoolID string `db:"school_id" json:"schoolId"`
	Name     string `db:"name" json:"name"`
}

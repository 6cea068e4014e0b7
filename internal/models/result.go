package models

import "time"

// Result is one student's score record for one subject in one grading period.
type Result struct {
	ID         string    `db:"id" json:"id"`
	SchoolID   string    `db:"school_id" json:"schoolId"`
	StudentID  string    `db:"student_id" json:"studentId"`
	SubjectID  string    `db:"subject_id" json:"subjectId"`
	PeriodID   string    `db:"period_id" json:"periodId"`
	SessionID  string    `db:"session_id" json:"sessionId"`
	Total      float64   `db:"total" json:"total"`
	Grade      string    `db:"grade" json:"grade"`
	Remark     string    `db:"remark" json:"remark"`
	Published  bool      `db:"published" json:"published"`
	IsApproved bool      `db:"is_approved" json:"isApproved"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`

	SubjectName string `db:"subject_name" json:"subjectName,omitempty"`
}

// ComponentScore is one student's score on one assessment component,
// bound to a Result.
type ComponentScore struct {
	ID          string    `db:"id" json:"id"`
	ResultID    string    `db:"result_id" json:"resultId"`
	ComponentID string    `db:"component_id" json:"componentId"`
	Score       float64   `db:"score" json:"score"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`

	ComponentKey string  `db:"component_key" json:"componentKey,omitempty"`
	MaxScore     float64 `db:"max_score" json:"maxScore,omitempty"`
}

// ResultFilter scopes result queries. SchoolID is always required; the
// remaining fields narrow the scope when non-empty.
type ResultFilter struct {
	SchoolID      string
	StudentID     string
	SubjectID     string
	PeriodID      string
	SessionID     string
	PublishedOnly bool
}

// SubjectResultRow is one line of a student's report card.
type SubjectResultRow struct {
	SubjectID   string           `json:"subjectId"`
	SubjectName string           `json:"subjectName"`
	Components  []ComponentScore `json:"components,omitempty"`
	Total       float64          `json:"total"`
	Grade       string           `json:"grade"`
	Remark      string           `json:"remark"`
}

// StudentReport is the per-period report card for one student.
type StudentReport struct {
	StudentID    string             `json:"studentId"`
	PeriodID     string             `json:"periodId"`
	SessionID    string             `json:"sessionId"`
	Subjects     []SubjectResultRow `json:"subjects"`
	TotalScore   float64            `json:"totalScore"`
	Average      float64            `json:"average"`
	OverallGrade string             `json:"overallGrade"`
}

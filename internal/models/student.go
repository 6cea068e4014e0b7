package models

import "time"

// Student represents a learner registered with a school.
type Student struct {
	ID        string    `db:"id" json:"id"`
	SchoolID  string    `db:"school_id" json:"schoolId"`
	FullName  string    `db:"full_name" json:"fullName"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// StudentClassStatus tracks the lifecycle of an enrollment record.
type StudentClassStatus string

const (
	StudentClassActive      StudentClassStatus = "ACTIVE"
	StudentClassTransferred StudentClassStatus = "TRANSFERRED"
	StudentClassWithdrawn   StudentClassStatus = "WITHDRAWN"
)

// StudentClass is an enrollment record scoping which students are
// ranked together for position calculations. Only ACTIVE records count.
type StudentClass struct {
	ID        string             `db:"id" json:"id"`
	SchoolID  string             `db:"school_id" json:"schoolId"`
	StudentID string             `db:"student_id" json:"studentId"`
	ClassID   string             `db:"class_id" json:"classId"`
	SessionID string             `db:"session_id" json:"sessionId"`
	Status    StudentClassStatus `db:"status" json:"status"`
	CreatedAt time.Time          `db:"created_at" json:"createdAt"`
}

package models

import "github.com/golang-jwt/jwt/v5"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleSuperAdmin  UserRole = "SUPER_ADMIN"
	RoleSchoolAdmin UserRole = "SCHOOL_ADMIN"
	RoleTeacher     UserRole = "TEACHER"
	RoleStudent     UserRole = "STUDENT"
	RoleParent      UserRole = "PARENT"
)

// JWTClaims represents the JWT payload for access tokens. Tokens are
// issued by the identity service; this API only verifies them.
type JWTClaims struct {
	UserID    string   `json:"user_id"`
	SchoolID  string   `json:"school_id"`
	Role      UserRole `json:"role"`
	Email     string   `json:"email"`
	StudentID string   `json:"student_id,omitempty"`
	jwt.RegisteredClaims
}

// CanViewStudent reports whether the claims may read records belonging
// to the given student. Staff roles see every student in their school;
// students and parents only see their own linked student record.
func (c *JWTClaims) CanViewStudent(studentID string) bool {
	if c == nil {
		return false
	}
	switch c.Role {
	case RoleSuperAdmin, RoleSchoolAdmin, RoleTeacher:
		return true
	case RoleStudent, RoleParent:
		return c.StudentID != "" && c.StudentID == studentID
	default:
		return false
	}
}

// RequiresPublished reports whether result visibility gating applies to
// the role: students and parents only see published, approved results.
func (c *JWTClaims) RequiresPublished() bool {
	if c == nil {
		return true
	}
	return c.Role == RoleStudent || c.Role == RoleParent
}

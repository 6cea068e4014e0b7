package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/eduit/results-api/internal/models"
)

// StudentRepository reads students and their class enrollments.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository creates a new student repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByID returns one student scoped to a school.
func (r *StudentRepository) FindByID(ctx context.Context, schoolID, id string) (*models.Student, error) {
	const query = `SELECT id, school_id, full_name, email, created_at, updated_at
        FROM students WHERE id = $1 AND school_id = $2`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id, schoolID); err != nil {
		return nil, err
	}
	return &student, nil
}

// ListByIDs returns students for the given IDs within a school.
func (r *StudentRepository) ListByIDs(ctx context.Context, schoolID string, ids []string) ([]models.Student, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids)+1)
	args[0] = schoolID
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args[i+1] = id
	}
	query := fmt.Sprintf(`SELECT id, school_id, full_name, email, created_at, updated_at
        FROM students WHERE school_id = $1 AND id IN (%s)`, strings.Join(placeholders, ","))
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// ListActiveByClass returns students holding an ACTIVE enrollment in
// the class for the session. Transferred and withdrawn students fall
// out of ranking cohorts through this filter.
func (r *StudentRepository) ListActiveByClass(ctx context.Context, schoolID, classID, sessionID string) ([]models.Student, error) {
	const query = `SELECT st.id, st.school_id, st.full_name, st.email, st.created_at, st.updated_at
        FROM students st
        JOIN student_classes sc ON sc.student_id = st.id
        WHERE sc.school_id = $1 AND sc.class_id = $2 AND sc.session_id = $3 AND sc.status = $4
        ORDER BY st.full_name`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, schoolID, classID, sessionID, models.StudentClassActive); err != nil {
		return nil, fmt.Errorf("list active class members: %w", err)
	}
	return students, nil
}

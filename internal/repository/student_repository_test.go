package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/eduit/results-api/internal/models"
)

func studentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "school_id", "full_name", "email", "created_at", "updated_at"})
}

func TestStudentRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewStudentRepository(db)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE id = $1 AND school_id = $2")).
		WithArgs("stu-1", "school-1").
		WillReturnRows(studentRows().AddRow("stu-1", "school-1", "Ada Obi", "ada@example.com", now, now))

	student, err := repo.FindByID(context.Background(), "school-1", "stu-1")
	require.NoError(t, err)
	require.Equal(t, "Ada Obi", student.FullName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListByIDs(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewStudentRepository(db)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("id IN ($2,$3)")).
		WithArgs("school-1", "stu-1", "stu-2").
		WillReturnRows(studentRows().
			AddRow("stu-1", "school-1", "Ada Obi", "ada@example.com", now, now).
			AddRow("stu-2", "school-1", "Bola Sani", "bola@example.com", now, now))

	students, err := repo.ListByIDs(context.Background(), "school-1", []string{"stu-1", "stu-2"})
	require.NoError(t, err)
	require.Len(t, students, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListByIDsEmpty(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewStudentRepository(db)
	students, err := repo.ListByIDs(context.Background(), "school-1", nil)
	require.NoError(t, err)
	require.Nil(t, students)
}

func TestStudentRepositoryListActiveByClass(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewStudentRepository(db)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("JOIN student_classes sc ON sc.student_id = st.id")).
		WithArgs("school-1", "class-1", "sess-1", models.StudentClassActive).
		WillReturnRows(studentRows().AddRow("stu-1", "school-1", "Ada Obi", "ada@example.com", now, now))

	students, err := repo.ListActiveByClass(context.Background(), "school-1", "class-1", "sess-1")
	require.NoError(t, err)
	require.Len(t, students, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

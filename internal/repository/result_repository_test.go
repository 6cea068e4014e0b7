package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/eduit/results-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func resultRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "school_id", "student_id", "subject_id", "period_id", "session_id", "total", "grade", "remark", "published", "is_approved", "created_at", "updated_at", "subject_name"})
}

func TestResultRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewResultRepository(db)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT r.id, r.school_id, r.student_id")).
		WithArgs("res-1", "school-1").
		WillReturnRows(resultRows().
			AddRow("res-1", "school-1", "stu-1", "sub-math", "period-1", "sess-1", 75.0, "B", "Good", false, false, now, now, "Mathematics"))

	result, err := repo.FindByID(context.Background(), "school-1", "res-1")
	require.NoError(t, err)
	require.Equal(t, "res-1", result.ID)
	require.Equal(t, 75.0, result.Total)
	require.Equal(t, "Mathematics", result.SubjectName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryListAppliesFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewResultRepository(db)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("AND r.student_id = $2 AND r.period_id = $3 AND r.session_id = $4 AND r.published = TRUE AND r.is_approved = TRUE ORDER BY r.created_at")).
		WithArgs("school-1", "stu-1", "period-1", "sess-1").
		WillReturnRows(resultRows().
			AddRow("res-1", "school-1", "stu-1", "sub-math", "period-1", "sess-1", 88.0, "A", "Very Good", true, true, now, now, "Mathematics"))

	results, err := repo.List(context.Background(), models.ResultFilter{
		SchoolID:      "school-1",
		StudentID:     "stu-1",
		PeriodID:      "period-1",
		SessionID:     "sess-1",
		PublishedOnly: true,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "res-1", results[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryUpdateNoRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewResultRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE results")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Result{ID: "res-x", SchoolID: "school-1"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "no rows affected")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryComponentScoresByResults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewResultRepository(db)
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "result_id", "component_id", "score", "created_at", "updated_at", "component_key", "max_score"}).
		AddRow("cs-1", "res-1", "comp-ca1", 15.0, now, now, "CA1", 20.0).
		AddRow("cs-2", "res-1", "comp-exam", 60.0, now, now, "EXAM", 70.0).
		AddRow("cs-3", "res-2", "comp-exam", 70.0, now, now, "EXAM", 70.0)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE cs.result_id IN ($1,$2)")).
		WithArgs("res-1", "res-2").
		WillReturnRows(rows)

	scores, err := repo.ComponentScoresByResults(context.Background(), []string{"res-1", "res-2"})
	require.NoError(t, err)
	require.Len(t, scores["res-1"], 2)
	require.Len(t, scores["res-2"], 1)
	require.Equal(t, "CA1", scores["res-1"][0].ComponentKey)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryComponentScoresByResultsEmpty(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewResultRepository(db)
	scores, err := repo.ComponentScoresByResults(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, scores)
}

func TestResultRepositoryUpsertComponentScores(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewResultRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO component_scores")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO component_scores")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE results")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result := &models.Result{ID: "res-1", SchoolID: "school-1", Total: 75, Grade: "B"}
	scores := []models.ComponentScore{
		{ComponentID: "comp-ca1", Score: 15},
		{ComponentID: "comp-exam", Score: 60},
	}
	require.NoError(t, repo.UpsertComponentScores(context.Background(), result, scores))
	require.NotEmpty(t, scores[0].ID)
	require.Equal(t, "res-1", scores[0].ResultID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryUpsertRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewResultRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO component_scores")).
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	result := &models.Result{ID: "res-1", SchoolID: "school-1"}
	err := repo.UpsertComponentScores(context.Background(), result, []models.ComponentScore{{ComponentID: "comp-ca1", Score: 10}})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/eduit/results-api/internal/models"
)

func TestResultConfigRepositoryFindBySession(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewResultConfigRepository(db)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM result_configurations")).
		WithArgs("school-1", "sess-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "school_id", "session_id", "created_at", "updated_at"}).
			AddRow("cfg-1", "school-1", "sess-1", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM result_periods")).
		WithArgs("cfg-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "config_id", "name", "weight"}).
			AddRow("period-1", "cfg-1", "First Term", 1.0).
			AddRow("period-2", "cfg-1", "Second Term", 2.0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM assessment_components")).
		WithArgs("cfg-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "config_id", "name", "key", "max_score"}).
			AddRow("comp-ca1", "cfg-1", "Continuous Assessment 1", "CA1", 20.0).
			AddRow("comp-exam", "cfg-1", "Examination", "EXAM", 70.0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM grade_scale_entries")).
		WithArgs("school-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "school_id", "min_score", "max_score", "grade", "remark"}).
			AddRow("gs-1", "school-1", 70.0, 100.0, "DISTINCTION", "Excellent"))

	config, err := repo.FindBySession(context.Background(), "school-1", "sess-1")
	require.NoError(t, err)
	require.Equal(t, "cfg-1", config.ID)
	require.Len(t, config.Periods, 2)
	require.Len(t, config.Components, 2)
	require.Len(t, config.Scale, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResultConfigRepositoryFindBySessionMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewResultConfigRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("FROM result_configurations")).
		WithArgs("school-1", "sess-x").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindBySession(context.Background(), "school-1", "sess-x")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResultConfigRepositoryGradeScaleOrder(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewResultConfigRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY min_score DESC")).
		WithArgs("school-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "school_id", "min_score", "max_score", "grade", "remark"}).
			AddRow("gs-1", "school-1", 70.0, 100.0, "DISTINCTION", "Excellent").
			AddRow("gs-2", "school-1", 0.0, 70.0, "MERIT", "Good"))

	entries, err := repo.GradeScale(context.Background(), "school-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "DISTINCTION", entries[0].Grade)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResultConfigRepositoryReplaceGradeScale(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewResultConfigRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM grade_scale_entries")).
		WithArgs("school-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO grade_scale_entries")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	entries := []models.GradeScaleEntry{{MinScore: 0, MaxScore: 100, Grade: "PASS"}}
	require.NoError(t, repo.ReplaceGradeScale(context.Background(), "school-1", entries))
	require.NotEmpty(t, entries[0].ID)
	require.Equal(t, "school-1", entries[0].SchoolID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResultConfigRepositoryReplaceGradeScaleRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewResultConfigRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM grade_scale_entries")).
		WithArgs("school-1").
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	err := repo.ReplaceGradeScale(context.Background(), "school-1", []models.GradeScaleEntry{{Grade: "PASS"}})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eduit/results-api/internal/models"
	appErrors "github.com/eduit/results-api/pkg/errors"
)

type stubSnapshotCache struct {
	store    map[string][]byte
	getErr   error
	setErr   error
	deleted  []string
	setCalls int
}

func (s *stubSnapshotCache) Get(_ context.Context, key string, dest interface{}) error {
	if s.getErr != nil {
		return s.getErr
	}
	payload, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *stubSnapshotCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if s.setErr != nil {
		return s.setErr
	}
	if s.store == nil {
		s.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = payload
	s.setCalls++
	return nil
}

func (s *stubSnapshotCache) DeleteByPattern(_ context.Context, pattern string) error {
	s.deleted = append(s.deleted, pattern)
	return nil
}

func cohortResults() []models.Result {
	return []models.Result{
		{ID: "res-1", StudentID: "stu-a", SubjectID: "sub-math", SubjectName: "Mathematics", Total: 92},
		{ID: "res-2", StudentID: "stu-b", SubjectID: "sub-math", SubjectName: "Mathematics", Total: 78},
		{ID: "res-3", StudentID: "stu-c", SubjectID: "sub-math", SubjectName: "Mathematics", Total: 78},
	}
}

func cohortRoster() []models.Student {
	return []models.Student{
		{ID: "stu-a", SchoolID: "school-1", FullName: "Ada Obi"},
		{ID: "stu-b", SchoolID: "school-1", FullName: "Bola Sani"},
		{ID: "stu-c", SchoolID: "school-1", FullName: "Chidi Eze"},
	}
}

func TestPositionServiceRanksCohort(t *testing.T) {
	repo := &mockResultRepo{results: cohortResults()}
	students := &mockStudentRepo{roster: cohortRoster()}
	svc := NewPositionService(repo, students, nil, nil, zap.NewNop(), time.Minute)

	report, err := svc.Positions(context.Background(), teacherClaims(), PositionQuery{PeriodID: "period-1", SessionID: "sess-1"})
	require.NoError(t, err)
	require.Len(t, report.OverallPositions, 3)

	assert.Equal(t, "stu-a", report.OverallPositions[0].StudentID)
	assert.Equal(t, 1, report.OverallPositions[0].Position)
	assert.Equal(t, 92.0, report.OverallPositions[0].Average)

	// Tied averages keep entry order and still get distinct positions.
	assert.Equal(t, "stu-b", report.OverallPositions[1].StudentID)
	assert.Equal(t, 2, report.OverallPositions[1].Position)
	assert.Equal(t, "stu-c", report.OverallPositions[2].StudentID)
	assert.Equal(t, 3, report.OverallPositions[2].Position)

	assert.Equal(t, 92.0, report.ClassStats.HighestAverage)
	assert.Equal(t, 78.0, report.ClassStats.LowestAverage)
	assert.Equal(t, 82.67, report.ClassStats.ClassAverage)
	assert.Equal(t, 3, report.ClassStats.StudentCount)

	math := report.SubjectPositions["sub-math"]
	assert.Equal(t, "Mathematics", math.SubjectName)
	assert.Equal(t, 92.0, math.Stats.Highest)
	assert.Equal(t, 78.0, math.Stats.Lowest)
	assert.Equal(t, 3, math.Stats.Count)
}

func TestPositionServiceAveragesAcrossSubjects(t *testing.T) {
	repo := &mockResultRepo{results: []models.Result{
		{ID: "res-1", StudentID: "stu-a", SubjectID: "sub-math", SubjectName: "Mathematics", Total: 75},
		{ID: "res-2", StudentID: "stu-a", SubjectID: "sub-eng", SubjectName: "English", Total: 88},
		{ID: "res-3", StudentID: "stu-b", SubjectID: "sub-math", SubjectName: "Mathematics", Total: 90},
	}}
	students := &mockStudentRepo{roster: cohortRoster()}
	svc := NewPositionService(repo, students, nil, nil, zap.NewNop(), time.Minute)

	report, err := svc.Positions(context.Background(), teacherClaims(), PositionQuery{PeriodID: "period-1", SessionID: "sess-1"})
	require.NoError(t, err)
	require.Len(t, report.OverallPositions, 2)
	assert.Equal(t, "stu-b", report.OverallPositions[0].StudentID)
	assert.Equal(t, 90.0, report.OverallPositions[0].Average)
	assert.Equal(t, "stu-a", report.OverallPositions[1].StudentID)
	assert.Equal(t, 81.5, report.OverallPositions[1].Average)
}

func TestPositionServiceClassFilterIntersectsActiveMembers(t *testing.T) {
	repo := &mockResultRepo{results: cohortResults()}
	students := &mockStudentRepo{roster: []models.Student{
		{ID: "stu-a", SchoolID: "school-1", FullName: "Ada Obi"},
		{ID: "stu-b", SchoolID: "school-1", FullName: "Bola Sani"},
	}}
	svc := NewPositionService(repo, students, nil, nil, zap.NewNop(), time.Minute)

	report, err := svc.Positions(context.Background(), teacherClaims(), PositionQuery{PeriodID: "period-1", SessionID: "sess-1", ClassID: "class-1"})
	require.NoError(t, err)
	require.Len(t, report.OverallPositions, 2)
	assert.Equal(t, "stu-a", report.OverallPositions[0].StudentID)
	assert.Equal(t, "stu-b", report.OverallPositions[1].StudentID)
	assert.Equal(t, 2, report.ClassStats.StudentCount)
}

func TestPositionServiceRequiresScope(t *testing.T) {
	svc := NewPositionService(&mockResultRepo{}, &mockStudentRepo{}, nil, nil, zap.NewNop(), time.Minute)

	_, err := svc.Positions(context.Background(), teacherClaims(), PositionQuery{SessionID: "sess-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPositionServiceCachesSnapshots(t *testing.T) {
	repo := &mockResultRepo{results: cohortResults()}
	students := &mockStudentRepo{roster: cohortRoster()}
	cache := &stubSnapshotCache{}
	svc := NewPositionService(repo, students, cache, nil, zap.NewNop(), time.Minute)

	q := PositionQuery{PeriodID: "period-1", SessionID: "sess-1"}
	first, err := svc.Positions(context.Background(), teacherClaims(), q)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, 1, cache.setCalls)

	second, err := svc.Positions(context.Background(), teacherClaims(), q)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, first.ClassStats, second.ClassStats)
}

func TestPositionServiceCacheReadFailureFallsBackToCompute(t *testing.T) {
	repo := &mockResultRepo{results: cohortResults()}
	students := &mockStudentRepo{roster: cohortRoster()}
	cache := &stubSnapshotCache{getErr: errors.New("redis: connection refused")}
	svc := NewPositionService(repo, students, cache, nil, zap.NewNop(), time.Minute)

	report, err := svc.Positions(context.Background(), teacherClaims(), PositionQuery{PeriodID: "period-1", SessionID: "sess-1"})
	require.NoError(t, err)
	require.Len(t, report.OverallPositions, 3)
	assert.Equal(t, 1, repo.listCalls)
}

func TestPositionServiceCacheWriteFailureStillReturnsReport(t *testing.T) {
	repo := &mockResultRepo{results: cohortResults()}
	students := &mockStudentRepo{roster: cohortRoster()}
	cache := &stubSnapshotCache{setErr: errors.New("redis: connection refused")}
	svc := NewPositionService(repo, students, cache, nil, zap.NewNop(), time.Minute)

	report, err := svc.Positions(context.Background(), teacherClaims(), PositionQuery{PeriodID: "period-1", SessionID: "sess-1"})
	require.NoError(t, err)
	require.Len(t, report.OverallPositions, 3)
	assert.Equal(t, 0, cache.setCalls)
}

func TestPositionServiceSnapshotKeySeparatesVisibility(t *testing.T) {
	svc := NewPositionService(nil, nil, nil, nil, zap.NewNop(), time.Minute)
	q := PositionQuery{PeriodID: "period-1", SessionID: "sess-1"}

	staffKey := svc.snapshotKey(teacherClaims(), q)
	studentKey := svc.snapshotKey(&models.JWTClaims{SchoolID: "school-1", Role: models.RoleStudent, StudentID: "stu-a"}, q)

	assert.NotEqual(t, staffKey, studentKey)
	assert.Contains(t, staffKey, "staff")
	assert.Contains(t, studentKey, "published")
}

func TestPositionServiceInvalidatePositions(t *testing.T) {
	cache := &stubSnapshotCache{}
	svc := NewPositionService(&mockResultRepo{}, &mockStudentRepo{}, cache, nil, zap.NewNop(), time.Minute)

	require.NoError(t, svc.InvalidatePositions(context.Background(), "school-1", "sess-1"))
	require.Len(t, cache.deleted, 1)
	assert.Equal(t, "positions:school-1:sess-1:*", cache.deleted[0])
}

func TestPositionServiceStudentPositions(t *testing.T) {
	repo := &mockResultRepo{results: cohortResults()}
	students := &mockStudentRepo{roster: cohortRoster()}
	svc := NewPositionService(repo, students, nil, nil, zap.NewNop(), time.Minute)

	claims := &models.JWTClaims{UserID: "user-2", SchoolID: "school-1", Role: models.RoleStudent, StudentID: "stu-b"}
	report, err := svc.StudentPositions(context.Background(), claims, PositionQuery{PeriodID: "period-1", SessionID: "sess-1", StudentID: "stu-b"})
	require.NoError(t, err)
	assert.Equal(t, "stu-b", report.Student.StudentID)
	assert.Equal(t, 2, report.Student.Position)
	require.Len(t, report.SubjectPositions, 1)
	assert.Equal(t, "Mathematics", report.SubjectPositions[0].SubjectName)
	assert.Equal(t, 78.0, report.SubjectPositions[0].Score)
	assert.True(t, repo.lastFilter.PublishedOnly)
}

func TestPositionServiceStudentPositionsNotInScope(t *testing.T) {
	repo := &mockResultRepo{results: cohortResults()}
	students := &mockStudentRepo{roster: cohortRoster()}
	svc := NewPositionService(repo, students, nil, nil, zap.NewNop(), time.Minute)

	_, err := svc.StudentPositions(context.Background(), teacherClaims(), PositionQuery{PeriodID: "period-1", SessionID: "sess-1", StudentID: "stu-x"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPositionServiceBroadsheet(t *testing.T) {
	repo := &mockResultRepo{results: cohortResults()}
	students := &mockStudentRepo{roster: cohortRoster()}
	svc := NewPositionService(repo, students, nil, nil, zap.NewNop(), time.Minute)

	payload, filename, err := svc.Broadsheet(context.Background(), teacherClaims(), PositionQuery{PeriodID: "period-1", SessionID: "sess-1", ClassID: "class-1"})
	require.NoError(t, err)
	assert.Equal(t, "broadsheet_class-1_period-1.csv", filename)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Position,Student,Average,Mathematics", lines[0])
	assert.Equal(t, "1,Ada Obi,92.00,92.00", lines[1])
}

func TestPositionServiceBroadsheetRequiresClass(t *testing.T) {
	svc := NewPositionService(&mockResultRepo{}, &mockStudentRepo{}, nil, nil, zap.NewNop(), time.Minute)

	_, _, err := svc.Broadsheet(context.Background(), teacherClaims(), PositionQuery{PeriodID: "period-1", SessionID: "sess-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/eduit/results-api/internal/grading"
	"github.com/eduit/results-api/internal/models"
	appErrors "github.com/eduit/results-api/pkg/errors"
	"github.com/eduit/results-api/pkg/export"
)

type positionResultReader interface {
	List(ctx context.Context, filter models.ResultFilter) ([]models.Result, error)
}

type cohortReader interface {
	ListByIDs(ctx context.Context, schoolID string, ids []string) ([]models.Student, error)
	ListActiveByClass(ctx context.Context, schoolID, classID, sessionID string) ([]models.Student, error)
}

type snapshotCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// PositionQuery scopes a position computation. PeriodID and SessionID
// are required; ClassID and StudentID narrow the cohort and output.
type PositionQuery struct {
	PeriodID  string
	SessionID string
	ClassID   string
	StudentID string
}

// PositionService computes cohort rankings and class statistics.
// Rankings are recomputed from the underlying results on every request
// and cached briefly; any result write in the session invalidates the
// snapshots.
type PositionService struct {
	results  positionResultReader
	students cohortReader
	cache    snapshotCache
	metrics  *MetricsService
	exporter *export.CSVExporter
	logger   *zap.Logger
	cacheTTL time.Duration
}

// NewPositionService constructs PositionService.
func NewPositionService(results positionResultReader, students cohortReader, cache snapshotCache, metrics *MetricsService, logger *zap.Logger, cacheTTL time.Duration) *PositionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PositionService{
		results:  results,
		students: students,
		cache:    cache,
		metrics:  metrics,
		exporter: export.NewCSVExporter(),
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

// Positions returns the full ranked cohort for the query scope.
func (s *PositionService) Positions(ctx context.Context, claims *models.JWTClaims, q PositionQuery) (*models.PositionReport, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if q.PeriodID == "" || q.SessionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "periodId and sessionId are required")
	}

	key := s.snapshotKey(claims, q)
	if s.cache != nil && key != "" {
		var cached models.PositionReport
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			s.metrics.RecordCacheLookup(true)
			return &cached, nil
		}
		s.metrics.RecordCacheLookup(false)
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("position snapshot cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	report, err := s.compute(ctx, claims, q)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && key != "" {
		if err := s.cache.Set(ctx, key, report, s.cacheTTL); err != nil {
			s.logger.Warn("position snapshot cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return report, nil
}

// StudentPositions returns one student's slice of the cohort report
// together with the class-wide statistics.
func (s *PositionService) StudentPositions(ctx context.Context, claims *models.JWTClaims, q PositionQuery) (*models.StudentPositionReport, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if q.StudentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "studentId is required")
	}
	if !claims.CanViewStudent(q.StudentID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to view this student")
	}
	report, err := s.Positions(ctx, claims, PositionQuery{PeriodID: q.PeriodID, SessionID: q.SessionID, ClassID: q.ClassID})
	if err != nil {
		return nil, err
	}

	var student *models.StudentStanding
	for i := range report.OverallPositions {
		if report.OverallPositions[i].StudentID == q.StudentID {
			student = &report.OverallPositions[i]
			break
		}
	}
	if student == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student has no results in scope")
	}

	out := &models.StudentPositionReport{Student: *student, ClassStats: report.ClassStats}
	subjectIDs := make([]string, 0, len(report.SubjectPositions))
	for id := range report.SubjectPositions {
		subjectIDs = append(subjectIDs, id)
	}
	sort.Strings(subjectIDs)
	for _, subjectID := range subjectIDs {
		standings := report.SubjectPositions[subjectID]
		for _, st := range standings.Standings {
			if st.StudentID != q.StudentID {
				continue
			}
			out.SubjectPositions = append(out.SubjectPositions, models.StudentSubjectPosition{
				SubjectID:   subjectID,
				SubjectName: standings.SubjectName,
				Score:       st.Average,
				Position:    st.Position,
				Stats:       standings.Stats,
			})
		}
	}
	return out, nil
}

// Broadsheet renders the ranked cohort as CSV for download.
func (s *PositionService) Broadsheet(ctx context.Context, claims *models.JWTClaims, q PositionQuery) ([]byte, string, error) {
	if q.ClassID == "" {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "classId is required")
	}
	report, err := s.Positions(ctx, claims, q)
	if err != nil {
		return nil, "", err
	}

	subjectIDs := make([]string, 0, len(report.SubjectPositions))
	for id := range report.SubjectPositions {
		subjectIDs = append(subjectIDs, id)
	}
	sort.Slice(subjectIDs, func(i, j int) bool {
		return report.SubjectPositions[subjectIDs[i]].SubjectName < report.SubjectPositions[subjectIDs[j]].SubjectName
	})

	headers := []string{"Position", "Student", "Average"}
	for _, id := range subjectIDs {
		headers = append(headers, report.SubjectPositions[id].SubjectName)
	}

	subjectScores := make(map[string]map[string]float64, len(subjectIDs))
	for _, id := range subjectIDs {
		byStudent := make(map[string]float64)
		for _, st := range report.SubjectPositions[id].Standings {
			byStudent[st.StudentID] = st.Average
		}
		subjectScores[id] = byStudent
	}

	rows := make([]map[string]string, 0, len(report.OverallPositions))
	for _, standing := range report.OverallPositions {
		row := map[string]string{
			"Position": fmt.Sprintf("%d", standing.Position),
			"Student":  standing.StudentName,
			"Average":  fmt.Sprintf("%.2f", standing.Average),
		}
		for _, id := range subjectIDs {
			name := report.SubjectPositions[id].SubjectName
			if score, ok := subjectScores[id][standing.StudentID]; ok {
				row[name] = fmt.Sprintf("%.2f", score)
			}
		}
		rows = append(rows, row)
	}

	payload, err := s.exporter.Render(export.Dataset{Headers: headers, Rows: rows})
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render broadsheet")
	}
	filename := fmt.Sprintf("broadsheet_%s_%s.csv", q.ClassID, q.PeriodID)
	return payload, filename, nil
}

// InvalidatePositions drops every cached snapshot for a school session.
// Called after any result write in that scope.
func (s *PositionService) InvalidatePositions(ctx context.Context, schoolID, sessionID string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.DeleteByPattern(ctx, fmt.Sprintf("positions:%s:%s:*", schoolID, sessionID))
}

func (s *PositionService) snapshotKey(claims *models.JWTClaims, q PositionQuery) string {
	classPart := q.ClassID
	if classPart == "" {
		classPart = "all"
	}
	// Students and parents see a published-only view; keep their
	// snapshots separate from the staff view.
	visibility := "staff"
	if claims.RequiresPublished() {
		visibility = "published"
	}
	return fmt.Sprintf("positions:%s:%s:%s:%s:%s", claims.SchoolID, q.SessionID, q.PeriodID, classPart, visibility)
}

func (s *PositionService) compute(ctx context.Context, claims *models.JWTClaims, q PositionQuery) (*models.PositionReport, error) {
	start := time.Now()
	results, err := s.results.List(ctx, models.ResultFilter{
		SchoolID:      claims.SchoolID,
		PeriodID:      q.PeriodID,
		SessionID:     q.SessionID,
		PublishedOnly: claims.RequiresPublished(),
	})
	s.metrics.ObserveDBQuery("position_results", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load results")
	}

	// The class filter is an intersection with ACTIVE enrollments,
	// applied after the fetch rather than pushed into the query.
	names := make(map[string]string)
	var member map[string]bool
	if q.ClassID != "" {
		students, err := s.students.ListActiveByClass(ctx, claims.SchoolID, q.ClassID, q.SessionID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class members")
		}
		member = make(map[string]bool, len(students))
		for _, st := range students {
			member[st.ID] = true
			names[st.ID] = st.FullName
		}
	}

	type studentAgg struct {
		id     string
		totals []float64
	}
	byStudent := make(map[string]*studentAgg)
	order := make([]string, 0)
	bySubject := make(map[string][]grading.Entry)
	subjectNames := make(map[string]string)

	for _, r := range results {
		if member != nil && !member[r.StudentID] {
			continue
		}
		agg, ok := byStudent[r.StudentID]
		if !ok {
			agg = &studentAgg{id: r.StudentID}
			byStudent[r.StudentID] = agg
			order = append(order, r.StudentID)
		}
		agg.totals = append(agg.totals, r.Total)
		bySubject[r.SubjectID] = append(bySubject[r.SubjectID], grading.Entry{ID: r.StudentID, Score: r.Total})
		subjectNames[r.SubjectID] = r.SubjectName
	}

	if member == nil && len(order) > 0 {
		students, err := s.students.ListByIDs(ctx, claims.SchoolID, order)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
		}
		for _, st := range students {
			names[st.ID] = st.FullName
		}
	}

	entries := make([]grading.Entry, 0, len(order))
	averages := make([]float64, 0, len(order))
	for _, id := range order {
		avg := grading.Round2(grading.Mean(byStudent[id].totals))
		entries = append(entries, grading.Entry{ID: id, Name: names[id], Score: avg})
		averages = append(averages, avg)
	}

	report := &models.PositionReport{
		SubjectPositions: make(map[string]models.SubjectStandings, len(bySubject)),
	}
	for _, standing := range grading.Rank(entries) {
		report.OverallPositions = append(report.OverallPositions, models.StudentStanding{
			StudentID:   standing.ID,
			StudentName: standing.Name,
			Average:     standing.Score,
			Position:    standing.Position,
		})
	}
	classSummary := grading.Summarize(averages)
	report.ClassStats = models.ClassStatistics{
		HighestAverage: classSummary.Highest,
		LowestAverage:  classSummary.Lowest,
		ClassAverage:   grading.Round2(classSummary.Mean),
		StudentCount:   classSummary.Count,
	}

	for subjectID, subjectEntries := range bySubject {
		scores := make([]float64, 0, len(subjectEntries))
		for i := range subjectEntries {
			subjectEntries[i].Name = names[subjectEntries[i].ID]
			scores = append(scores, subjectEntries[i].Score)
		}
		standings := models.SubjectStandings{
			SubjectID:   subjectID,
			SubjectName: subjectNames[subjectID],
		}
		for _, st := range grading.Rank(subjectEntries) {
			standings.Standings = append(standings.Standings, models.StudentStanding{
				StudentID:   st.ID,
				StudentName: st.Name,
				Average:     st.Score,
				Position:    st.Position,
			})
		}
		summary := grading.Summarize(scores)
		standings.Stats = models.SubjectStatistics{
			Highest: summary.Highest,
			Lowest:  summary.Lowest,
			Average: grading.Round2(summary.Mean),
			Count:   summary.Count,
		}
		report.SubjectPositions[subjectID] = standings
	}
	return report, nil
}

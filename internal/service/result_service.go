package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eduit/results-api/internal/grading"
	"github.com/eduit/results-api/internal/models"
	appErrors "github.com/eduit/results-api/pkg/errors"
)

type resultRepo interface {
	FindByID(ctx context.Context, schoolID, id string) (*models.Result, error)
	List(ctx context.Context, filter models.ResultFilter) ([]models.Result, error)
	Update(ctx context.Context, result *models.Result) error
	ComponentScores(ctx context.Context, resultID string) ([]models.ComponentScore, error)
	ComponentScoresByResults(ctx context.Context, resultIDs []string) (map[string][]models.ComponentScore, error)
	UpsertComponentScores(ctx context.Context, result *models.Result, scores []models.ComponentScore) error
}

type resultConfigReader interface {
	gradeScaleReader
	FindBySession(ctx context.Context, schoolID, sessionID string) (*models.ResultConfiguration, error)
}

type studentReader interface {
	FindByID(ctx context.Context, schoolID, id string) (*models.Student, error)
}

type snapshotInvalidator interface {
	InvalidatePositions(ctx context.Context, schoolID, sessionID string) error
}

// UpdateResultRequest is the mark-update payload. Marks and TotalMarks
// travel together or not at all.
type UpdateResultRequest struct {
	Marks      *float64 `json:"marks"`
	TotalMarks *float64 `json:"totalMarks"`
	Remarks    *string  `json:"remarks"`
	IsApproved *bool    `json:"isApproved"`
}

// ComponentScoreEntry is one component mark within a score submission.
type ComponentScoreEntry struct {
	ComponentKey string  `json:"componentKey" validate:"required"`
	Score        float64 `json:"score"`
}

// EnterScoresRequest records a teacher's component marks for a result.
type EnterScoresRequest struct {
	ResultID string                `json:"resultId" validate:"required"`
	Scores   []ComponentScoreEntry `json:"scores" validate:"required,dive"`
}

// PublishResultRequest gates result visibility.
type PublishResultRequest struct {
	Published  *bool `json:"published"`
	IsApproved *bool `json:"isApproved"`
}

// ResultService orchestrates mark entry, grade recomputation and
// report card assembly.
type ResultService struct {
	results         resultRepo
	configs         resultConfigReader
	students        studentReader
	snapshots       snapshotInvalidator
	validator       *validator.Validate
	logger          *zap.Logger
	defaultPassMark float64
}

// NewResultService constructs ResultService.
func NewResultService(results resultRepo, configs resultConfigReader, students studentReader, snapshots snapshotInvalidator, validate *validator.Validate, logger *zap.Logger, defaultPassMark float64) *ResultService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultService{
		results:         results,
		configs:         configs,
		students:        students,
		snapshots:       snapshots,
		validator:       validate,
		logger:          logger,
		defaultPassMark: defaultPassMark,
	}
}

// Update applies a mark update to a result. Total and grade are always
// recomputed together: the percentage derived from marks/totalMarks
// becomes the stored total, and the grade comes from the school's
// configured scale.
func (s *ResultService) Update(ctx context.Context, claims *models.JWTClaims, id string, req UpdateResultRequest) (*models.Result, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if (req.Marks == nil) != (req.TotalMarks == nil) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "marks and totalMarks must be supplied together")
	}
	result, err := s.results.FindByID(ctx, claims.SchoolID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "result not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load result")
	}
	if req.Marks != nil {
		if *req.TotalMarks <= 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "totalMarks must be positive")
		}
		policy, err := loadPolicy(ctx, s.configs, claims.SchoolID, s.defaultPassMark)
		if err != nil {
			return nil, err
		}
		result.Total = grading.Round2(*req.Marks / *req.TotalMarks * 100)
		s.applyGrade(result, policy)
	}
	if req.Remarks != nil {
		result.Remark = *req.Remarks
	}
	if req.IsApproved != nil {
		result.IsApproved = *req.IsApproved
	}
	if err := s.results.Update(ctx, result); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update result")
	}
	s.invalidate(ctx, result)
	return result, nil
}

// EnterScores upserts a batch of component scores for a result and
// recomputes its total and grade. Scores are validated against each
// component's ceiling before anything is written.
func (s *ResultService) EnterScores(ctx context.Context, claims *models.JWTClaims, req EnterScoresRequest) (*models.Result, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scores payload")
	}
	result, err := s.results.FindByID(ctx, claims.SchoolID, req.ResultID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "result not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load result")
	}
	config, err := s.configs.FindBySession(ctx, claims.SchoolID, result.SessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrConfigMissing
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load result configuration")
	}
	components := make(map[string]models.AssessmentComponent, len(config.Components))
	for _, c := range config.Components {
		components[strings.ToUpper(c.Key)] = c
	}
	incoming := make([]models.ComponentScore, 0, len(req.Scores))
	for _, entry := range req.Scores {
		component, ok := components[strings.ToUpper(strings.TrimSpace(entry.ComponentKey))]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown component %q", entry.ComponentKey))
		}
		if entry.Score > component.MaxScore {
			return nil, appErrors.Clone(appErrors.ErrScoreExceedsMax, fmt.Sprintf("component %s: score %.2f exceeds max %.2f", component.Key, entry.Score, component.MaxScore))
		}
		incoming = append(incoming, models.ComponentScore{
			ResultID:    result.ID,
			ComponentID: component.ID,
			Score:       entry.Score,
		})
	}

	existing, err := s.results.ComponentScores(ctx, result.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load component scores")
	}
	merged := make(map[string]float64, len(existing)+len(incoming))
	for _, score := range existing {
		merged[score.ComponentID] = score.Score
	}
	for _, score := range incoming {
		merged[score.ComponentID] = score.Score
	}
	totals := make([]float64, 0, len(merged))
	for _, v := range merged {
		totals = append(totals, v)
	}

	policy, err := loadPolicy(ctx, s.configs, claims.SchoolID, s.defaultPassMark)
	if err != nil {
		return nil, err
	}
	result.Total = grading.Sum(totals)
	s.applyGrade(result, policy)

	if err := s.results.UpsertComponentScores(ctx, result, incoming); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save component scores")
	}
	s.invalidate(ctx, result)
	return result, nil
}

// Publish toggles result visibility gating. Students and parents only
// see results that are both published and approved.
func (s *ResultService) Publish(ctx context.Context, claims *models.JWTClaims, id string, req PublishResultRequest) (*models.Result, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	result, err := s.results.FindByID(ctx, claims.SchoolID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "result not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load result")
	}
	if req.Published != nil {
		result.Published = *req.Published
	}
	if req.IsApproved != nil {
		result.IsApproved = *req.IsApproved
	}
	if err := s.results.Update(ctx, result); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update result")
	}
	s.invalidate(ctx, result)
	return result, nil
}

// Report assembles a student's report card for one period: per-subject
// component breakdowns plus the overall summary.
func (s *ResultService) Report(ctx context.Context, claims *models.JWTClaims, studentID, periodID, sessionID string) (*models.StudentReport, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if studentID == "" || periodID == "" || sessionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "studentId, periodId and sessionId are required")
	}
	if !claims.CanViewStudent(studentID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to view this student")
	}
	if _, err := s.students.FindByID(ctx, claims.SchoolID, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	results, err := s.results.List(ctx, models.ResultFilter{
		SchoolID:      claims.SchoolID,
		StudentID:     studentID,
		PeriodID:      periodID,
		SessionID:     sessionID,
		PublishedOnly: claims.RequiresPublished(),
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load results")
	}

	resultIDs := make([]string, len(results))
	for i, r := range results {
		resultIDs[i] = r.ID
	}
	componentsByResult, err := s.results.ComponentScoresByResults(ctx, resultIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load component scores")
	}

	report := &models.StudentReport{StudentID: studentID, PeriodID: periodID, SessionID: sessionID}
	totals := make([]float64, 0, len(results))
	for _, r := range results {
		report.Subjects = append(report.Subjects, models.SubjectResultRow{
			SubjectID:   r.SubjectID,
			SubjectName: r.SubjectName,
			Components:  componentsByResult[r.ID],
			Total:       r.Total,
			Grade:       r.Grade,
			Remark:      r.Remark,
		})
		totals = append(totals, r.Total)
	}
	report.TotalScore = grading.Sum(totals)
	report.Average = grading.Round2(grading.Mean(totals))

	policy, err := loadPolicy(ctx, s.configs, claims.SchoolID, s.defaultPassMark)
	if err != nil {
		return nil, err
	}
	if band, ok := policy.Resolve(report.Average); ok {
		report.OverallGrade = band.Grade
	}
	return report, nil
}

func (s *ResultService) applyGrade(result *models.Result, policy grading.Policy) {
	band, ok := policy.Resolve(result.Total)
	if !ok {
		// Gap in the configured scale: the total stands without a grade.
		result.Grade = ""
		result.Remark = ""
		return
	}
	result.Grade = band.Grade
	result.Remark = band.Remark
}

func (s *ResultService) invalidate(ctx context.Context, result *models.Result) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.InvalidatePositions(ctx, result.SchoolID, result.SessionID); err != nil {
		s.logger.Warn("failed to invalidate position snapshots",
			zap.String("school_id", result.SchoolID),
			zap.String("session_id", result.SessionID),
			zap.Error(err))
	}
}

package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/eduit/results-api/internal/grading"
	"github.com/eduit/results-api/internal/models"
	appErrors "github.com/eduit/results-api/pkg/errors"
)

type promotionStudentReader interface {
	ListActiveByClass(ctx context.Context, schoolID, classID, sessionID string) ([]models.Student, error)
}

// PromotionService evaluates end-of-session promotion eligibility for
// a class by comparing each student's weighted annual average against
// the school's pass mark.
type PromotionService struct {
	results         positionResultReader
	students        promotionStudentReader
	configs         resultConfigReader
	logger          *zap.Logger
	defaultPassMark float64
}

// NewPromotionService constructs PromotionService.
func NewPromotionService(results positionResultReader, students promotionStudentReader, configs resultConfigReader, logger *zap.Logger, defaultPassMark float64) *PromotionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PromotionService{
		results:         results,
		students:        students,
		configs:         configs,
		logger:          logger,
		defaultPassMark: defaultPassMark,
	}
}

// Eligibility computes the annual weighted average for every ACTIVE
// student in the class and flags those meeting the pass mark. Fails
// with 404 when the session has no result configuration: without the
// period weights there is no defensible average to report.
func (s *PromotionService) Eligibility(ctx context.Context, claims *models.JWTClaims, schoolID, classID, sessionID string) ([]models.PromotionEligibility, error) {
	if err := checkSchoolScope(claims, schoolID); err != nil {
		return nil, err
	}
	if classID == "" || sessionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "classId and sessionId are required")
	}

	config, err := s.configs.FindBySession(ctx, schoolID, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrConfigMissing
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load result configuration")
	}

	students, err := s.students.ListActiveByClass(ctx, schoolID, classID, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class members")
	}

	results, err := s.results.List(ctx, models.ResultFilter{SchoolID: schoolID, SessionID: sessionID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load results")
	}

	policy, err := loadPolicy(ctx, s.configs, schoolID, s.defaultPassMark)
	if err != nil {
		return nil, err
	}

	// student -> period -> totals
	totals := make(map[string]map[string][]float64)
	counts := make(map[string]int)
	for _, r := range results {
		periods, ok := totals[r.StudentID]
		if !ok {
			periods = make(map[string][]float64)
			totals[r.StudentID] = periods
		}
		periods[r.PeriodID] = append(periods[r.PeriodID], r.Total)
		counts[r.StudentID]++
	}

	rows := make([]models.PromotionEligibility, 0, len(students))
	for _, student := range students {
		periodScores := make([]grading.PeriodScores, 0, len(config.Periods))
		for _, period := range config.Periods {
			periodScores = append(periodScores, grading.PeriodScores{
				PeriodID: period.ID,
				Weight:   period.Weight,
				Totals:   totals[student.ID][period.ID],
			})
		}
		annual := grading.Round2(grading.WeightedAverage(periodScores))
		rows = append(rows, models.PromotionEligibility{
			ID:            student.ID,
			Name:          student.FullName,
			Email:         student.Email,
			AnnualAverage: annual,
			ResultsCount:  counts[student.ID],
			IsEligible:    policy.Eligible(annual),
		})
	}
	return rows, nil
}

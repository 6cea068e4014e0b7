package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eduit/results-api/internal/grading"
	"github.com/eduit/results-api/internal/models"
	appErrors "github.com/eduit/results-api/pkg/errors"
)

type gradeScaleRepo interface {
	gradeScaleReader
	ReplaceGradeScale(ctx context.Context, schoolID string, entries []models.GradeScaleEntry) error
	FindBySession(ctx context.Context, schoolID, sessionID string) (*models.ResultConfiguration, error)
}

// GradeScaleEntryRequest is one band of a scale replacement payload.
type GradeScaleEntryRequest struct {
	MinScore float64 `json:"minScore" validate:"gte=0"`
	MaxScore float64 `json:"maxScore" validate:"gte=0"`
	Grade    string  `json:"grade" validate:"required"`
	Remark   string  `json:"remark"`
}

// ReplaceScaleRequest swaps a school's configured grade scale.
type ReplaceScaleRequest struct {
	Entries []GradeScaleEntryRequest `json:"entries" validate:"required,dive"`
}

// GradeScaleService manages school grading configuration.
type GradeScaleService struct {
	configs   gradeScaleRepo
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradeScaleService constructs GradeScaleService.
func NewGradeScaleService(configs gradeScaleRepo, validate *validator.Validate, logger *zap.Logger) *GradeScaleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeScaleService{configs: configs, validator: validate, logger: logger}
}

// Scale returns a school's configured grade scale.
func (s *GradeScaleService) Scale(ctx context.Context, claims *models.JWTClaims, schoolID string) ([]models.GradeScaleEntry, error) {
	if err := checkSchoolScope(claims, schoolID); err != nil {
		return nil, err
	}
	entries, err := s.configs.GradeScale(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade scale")
	}
	return entries, nil
}

// ReplaceScale validates and stores a new grade scale. Overlapping
// ranges are rejected here, at write time, so resolution never has to
// disambiguate at read time.
func (s *GradeScaleService) ReplaceScale(ctx context.Context, claims *models.JWTClaims, schoolID string, req ReplaceScaleRequest) ([]models.GradeScaleEntry, error) {
	if err := checkSchoolScope(claims, schoolID); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scale payload")
	}
	bands := make([]grading.GradeBand, len(req.Entries))
	entries := make([]models.GradeScaleEntry, len(req.Entries))
	for i, e := range req.Entries {
		bands[i] = grading.GradeBand{MinScore: e.MinScore, MaxScore: e.MaxScore, Grade: e.Grade, Remark: e.Remark}
		entries[i] = models.GradeScaleEntry{SchoolID: schoolID, MinScore: e.MinScore, MaxScore: e.MaxScore, Grade: e.Grade, Remark: e.Remark}
	}
	if err := grading.ValidateBands(bands); err != nil {
		return nil, appErrors.Clone(appErrors.ErrOverlappingScale, err.Error())
	}
	if err := s.configs.ReplaceGradeScale(ctx, schoolID, entries); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store grade scale")
	}
	s.logger.Info("grade scale replaced",
		zap.String("school_id", schoolID),
		zap.Int("bands", len(entries)))
	return entries, nil
}

// Configuration returns the full result configuration bundle for a
// school session: periods, components and the grade scale.
func (s *GradeScaleService) Configuration(ctx context.Context, claims *models.JWTClaims, schoolID, sessionID string) (*models.ResultConfiguration, error) {
	if err := checkSchoolScope(claims, schoolID); err != nil {
		return nil, err
	}
	if sessionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "sessionId is required")
	}
	config, err := s.configs.FindBySession(ctx, schoolID, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrConfigMissing
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load result configuration")
	}
	return config, nil
}

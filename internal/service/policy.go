package service

import (
	"context"

	"github.com/eduit/results-api/internal/grading"
	"github.com/eduit/results-api/internal/models"
	appErrors "github.com/eduit/results-api/pkg/errors"
)

type gradeScaleReader interface {
	GradeScale(ctx context.Context, schoolID string) ([]models.GradeScaleEntry, error)
}

// loadPolicy builds the grading policy for a school. Every grade
// resolution in the API goes through the policy returned here: there
// is a single scale source, with the built-in default applied only
// when a school has not configured one.
func loadPolicy(ctx context.Context, scales gradeScaleReader, schoolID string, passMark float64) (grading.Policy, error) {
	entries, err := scales.GradeScale(ctx, schoolID)
	if err != nil {
		return grading.Policy{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade scale")
	}
	if passMark <= 0 {
		passMark = grading.DefaultPassMark
	}
	if len(entries) == 0 {
		policy := grading.DefaultPolicy()
		policy.PassMark = passMark
		return policy, nil
	}
	bands := make([]grading.GradeBand, len(entries))
	for i, e := range entries {
		bands[i] = grading.GradeBand{MinScore: e.MinScore, MaxScore: e.MaxScore, Grade: e.Grade, Remark: e.Remark}
	}
	return grading.NewPolicy(bands, passMark), nil
}

// checkSchoolScope enforces tenant ownership: a caller may only touch
// its own school unless it holds the super admin role.
func checkSchoolScope(claims *models.JWTClaims, schoolID string) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	if claims.Role == models.RoleSuperAdmin {
		return nil
	}
	if claims.SchoolID != schoolID {
		return appErrors.Clone(appErrors.ErrForbidden, "school scope mismatch")
	}
	return nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/eduit/results-api/internal/models"
)

// ResultConfigRepository manages per-session result configurations:
// grading periods, assessment components and the school grade scale.
type ResultConfigRepository struct {
	db *sqlx.DB
}

// NewResultConfigRepository constructs the repository.
func NewResultConfigRepository(db *sqlx.DB) *ResultConfigRepository {
	return &ResultConfigRepository{db: db}
}

// FindBySession loads the configuration bundle for a school session,
// including its periods and components. Returns sql.ErrNoRows via the
// wrapped error when no configuration exists.
func (r *ResultConfigRepository) FindBySession(ctx context.Context, schoolID, sessionID string) (*models.ResultConfiguration, error) {
	const query = `SELECT id, school_id, session_id, created_at, updated_at
        FROM result_configurations
        WHERE school_id = $1 AND session_id = $2`
	var config models.ResultConfiguration
	if err := r.db.GetContext(ctx, &config, query, schoolID, sessionID); err != nil {
		return nil, err
	}

	const periodQuery = `SELECT id, config_id, name, weight FROM result_periods
        WHERE config_id = $1 ORDER BY name`
	if err := r.db.SelectContext(ctx, &config.Periods, periodQuery, config.ID); err != nil {
		return nil, fmt.Errorf("load periods: %w", err)
	}

	const componentQuery = `SELECT id, config_id, name, key, max_score FROM assessment_components
        WHERE config_id = $1 ORDER BY key`
	if err := r.db.SelectContext(ctx, &config.Components, componentQuery, config.ID); err != nil {
		return nil, fmt.Errorf("load components: %w", err)
	}

	scale, err := r.GradeScale(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	config.Scale = scale
	return &config, nil
}

// GradeScale returns a school's configured grade scale entries sorted
// by descending min score, the order grade resolution iterates in.
func (r *ResultConfigRepository) GradeScale(ctx context.Context, schoolID string) ([]models.GradeScaleEntry, error) {
	const query = `SELECT id, school_id, min_score, max_score, grade, remark
        FROM grade_scale_entries
        WHERE school_id = $1
        ORDER BY min_score DESC`
	var entries []models.GradeScaleEntry
	if err := r.db.SelectContext(ctx, &entries, query, schoolID); err != nil {
		return nil, fmt.Errorf("grade scale: %w", err)
	}
	return entries, nil
}

// ReplaceGradeScale swaps a school's scale for the provided entries in
// one transaction.
func (r *ResultConfigRepository) ReplaceGradeScale(ctx context.Context, schoolID string, entries []models.GradeScaleEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM grade_scale_entries WHERE school_id = $1", schoolID); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("clear grade scale: %w", err)
	}
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = uuid.NewString()
		}
		entries[i].SchoolID = schoolID
		const query = `INSERT INTO grade_scale_entries (id, school_id, min_score, max_score, grade, remark)
            VALUES (:id, :school_id, :min_score, :max_score, :grade, :remark)`
		if _, err := tx.NamedExecContext(ctx, query, entries[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("insert grade scale entry: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit grade scale: %w", err)
	}
	return nil
}

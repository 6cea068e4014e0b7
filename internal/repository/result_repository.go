package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/eduit/results-api/internal/models"
)

// ResultRepository handles result and component score persistence.
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository creates a new result repository.
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// FindByID returns one result scoped to a school.
func (r *ResultRepository) FindByID(ctx context.Context, schoolID, id string) (*models.Result, error) {
	const query = `SELECT r.id, r.school_id, r.student_id, r.subject_id, r.period_id, r.session_id,
        r.total, r.grade, r.remark, r.published, r.is_approved, r.created_at, r.updated_at,
        s.name AS subject_name
        FROM results r
        JOIN subjects s ON s.id = r.subject_id
        WHERE r.id = $1 AND r.school_id = $2`
	var result models.Result
	if err := r.db.GetContext(ctx, &result, query, id, schoolID); err != nil {
		return nil, fmt.Errorf("find result: %w", err)
	}
	return &result, nil
}

// List returns results matching the filter, joined with subject names.
func (r *ResultRepository) List(ctx context.Context, filter models.ResultFilter) ([]models.Result, error) {
	query := `SELECT r.id, r.school_id, r.student_id, r.subject_id, r.period_id, r.session_id,
        r.total, r.grade, r.remark, r.published, r.is_approved, r.created_at, r.updated_at,
        s.name AS subject_name
        FROM results r
        JOIN subjects s ON s.id = r.subject_id
        WHERE r.school_id = $1`
	args := []interface{}{filter.SchoolID}
	if filter.StudentID != "" {
		query += fmt.Sprintf(" AND r.student_id = $%d", len(args)+1)
		args = append(args, filter.StudentID)
	}
	if filter.SubjectID != "" {
		query += fmt.Sprintf(" AND r.subject_id = $%d", len(args)+1)
		args = append(args, filter.SubjectID)
	}
	if filter.PeriodID != "" {
		query += fmt.Sprintf(" AND r.period_id = $%d", len(args)+1)
		args = append(args, filter.PeriodID)
	}
	if filter.SessionID != "" {
		query += fmt.Sprintf(" AND r.session_id = $%d", len(args)+1)
		args = append(args, filter.SessionID)
	}
	if filter.PublishedOnly {
		query += " AND r.published = TRUE AND r.is_approved = TRUE"
	}
	query += " ORDER BY r.created_at"
	var results []models.Result
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return results, nil
}

// Update persists recomputed fields of a result.
func (r *ResultRepository) Update(ctx context.Context, result *models.Result) error {
	result.UpdatedAt = time.Now().UTC()
	const query = `UPDATE results
        SET total = :total, grade = :grade, remark = :remark,
            published = :published, is_approved = :is_approved, updated_at = :updated_at
        WHERE id = :id AND school_id = :school_id`
	res, err := r.db.NamedExecContext(ctx, query, result)
	if err != nil {
		return fmt.Errorf("update result: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update result %s: no rows affected", result.ID)
	}
	return nil
}

// ComponentScores returns the component scores attached to a result,
// joined with the component key and ceiling.
func (r *ResultRepository) ComponentScores(ctx context.Context, resultID string) ([]models.ComponentScore, error) {
	const query = `SELECT cs.id, cs.result_id, cs.component_id, cs.score, cs.created_at, cs.updated_at,
        ac.key AS component_key, ac.max_score
        FROM component_scores cs
        JOIN assessment_components ac ON ac.id = cs.component_id
        WHERE cs.result_id = $1
        ORDER BY ac.key`
	var scores []models.ComponentScore
	if err := r.db.SelectContext(ctx, &scores, query, resultID); err != nil {
		return nil, fmt.Errorf("component scores: %w", err)
	}
	return scores, nil
}

// ComponentScoresByResults returns component scores keyed by result ID.
func (r *ResultRepository) ComponentScoresByResults(ctx context.Context, resultIDs []string) (map[string][]models.ComponentScore, error) {
	result := make(map[string][]models.ComponentScore, len(resultIDs))
	if len(resultIDs) == 0 {
		return result, nil
	}
	placeholders := make([]string, len(resultIDs))
	args := make([]interface{}, len(resultIDs))
	for i, id := range resultIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT cs.id, cs.result_id, cs.component_id, cs.score, cs.created_at, cs.updated_at,
        ac.key AS component_key, ac.max_score
        FROM component_scores cs
        JOIN assessment_components ac ON ac.id = cs.component_id
        WHERE cs.result_id IN (%s)`, strings.Join(placeholders, ","))
	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch component scores: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var score models.ComponentScore
		if err := rows.StructScan(&score); err != nil {
			return nil, fmt.Errorf("scan component score: %w", err)
		}
		result[score.ResultID] = append(result[score.ResultID], score)
	}
	return result, nil
}

// UpsertComponentScores writes a batch of component scores for one
// result and updates the result's derived fields in the same
// transaction, so total and grade never drift from the marks.
func (r *ResultRepository) UpsertComponentScores(ctx context.Context, result *models.Result, scores []models.ComponentScore) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for i := range scores {
		if scores[i].ID == "" {
			scores[i].ID = uuid.NewString()
		}
		if scores[i].CreatedAt.IsZero() {
			scores[i].CreatedAt = now
		}
		scores[i].UpdatedAt = now
		scores[i].ResultID = result.ID
		const query = `INSERT INTO component_scores (id, result_id, component_id, score, created_at, updated_at)
            VALUES (:id, :result_id, :component_id, :score, :created_at, :updated_at)
            ON CONFLICT (result_id, component_id)
            DO UPDATE SET score = EXCLUDED.score, updated_at = EXCLUDED.updated_at`
		if _, err := tx.NamedExecContext(ctx, query, scores[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("upsert component score: %w", err)
		}
	}
	result.UpdatedAt = now
	const update = `UPDATE results
        SET total = :total, grade = :grade, remark = :remark, updated_at = :updated_at
        WHERE id = :id AND school_id = :school_id`
	if _, err := tx.NamedExecContext(ctx, update, result); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("update result total: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit component scores: %w", err)
	}
	return nil
}

package db

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"procurement/models"
)

// CreateEvaluation создаёт оценку для пары (предложение, оценщик).
// Если пара уже есть, e заполняется существующей записью и возвращается false.
func (s *Storage) CreateEvaluation(ctx context.Context, e *models.Evaluation) (bool, error) {
	e.ID = newID(e.ID)
	if e.Status == "" {
		e.Status = models.EvaluationPending
	}
	query := `
        INSERT INTO evaluations (id, proposal_id, evaluator_id, status)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (proposal_id, evaluator_id) DO NOTHING
        RETURNING created_at, updated_at`
	err := s.db.QueryRowContext(ctx, query, e.ID, e.ProposalID, e.EvaluatorID, e.Status).
		Scan(&e.CreatedAt, &e.UpdatedAt)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	existing := `SELECT * FROM evaluations WHERE proposal_id=$1 AND evaluator_id=$2`
	if err := s.db.GetContext(ctx, e, existing, e.ProposalID, e.EvaluatorID); err != nil {
		return false, notFound(err)
	}
	return false, nil
}

func (s *Storage) GetEvaluation(ctx context.Context, id string) (*models.Evaluation, error) {
	e := &models.Evaluation{}
	query := `SELECT * FROM evaluations WHERE id=$1`
	if err := s.db.GetContext(ctx, e, query, id); err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

func (s *Storage) UpdateEvaluation(ctx context.Context, e *models.Evaluation) error {
	query := `
        UPDATE evaluations
        SET functional_score=$1, security_score=$2, business_score=$3, overall_score=$4,
            recommendation=$5, functional_comment=$6, security_comment=$7,
            business_comment=$8, overall_comment=$9, status=$10, submitted_at=$11,
            updated_at=NOW()
        WHERE id=$12
        RETURNING updated_at`
	err := s.db.QueryRowContext(ctx, query,
		e.FunctionalScore, e.SecurityScore, e.BusinessScore, e.OverallScore,
		e.Recommendation, e.FunctionalComment, e.SecurityComment,
		e.BusinessComment, e.OverallComment, e.Status, e.SubmittedAt, e.ID).
		Scan(&e.UpdatedAt)
	return notFound(err)
}

func (s *Storage) ListEvaluations(ctx context.Context, f models.EvaluationFilter) ([]models.Evaluation, error) {
	b := psql.Select("*").From("evaluations").OrderBy("created_at ASC")
	if f.ProposalIDs != nil {
		b = b.Where(sq.Eq{"proposal_id": f.ProposalIDs})
	}
	if f.EvaluatorID != "" {
		b = b.Where(sq.Eq{"evaluator_id": f.EvaluatorID})
	}
	if f.Status != "" {
		b = b.Where(sq.Eq{"status": f.Status})
	}

	evals := []models.Evaluation{}
	if err := s.selectBuilt(ctx, &evals, b); err != nil {
		return nil, err
	}
	return evals, nil
}

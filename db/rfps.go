package db

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"procurement/models"
)

func (s *Storage) CreateRFP(ctx context.Context, r *models.RFP) error {
	r.ID = newID(r.ID)
	query := `
        INSERT INTO rfps
            (id, title, description, content, due_date,
             functional_weight, security_weight, business_weight,
             functional_criteria, security_criteria, business_criteria,
             status, created_by)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING created_at, updated_at`
	return s.db.QueryRowContext(ctx, query,
		r.ID, r.Title, r.Description, r.Content, r.DueDate,
		r.FunctionalWeight, r.SecurityWeight, r.BusinessWeight,
		r.FunctionalCriteria, r.SecurityCriteria, r.BusinessCriteria,
		r.Status, r.CreatedBy).
		Scan(&r.CreatedAt, &r.UpdatedAt)
}

func (s *Storage) GetRFP(ctx context.Context, id string) (*models.RFP, error) {
	r := &models.RFP{}
	query := `SELECT * FROM rfps WHERE id=$1`
	if err := s.db.GetContext(ctx, r, query, id); err != nil {
		return nil, notFound(err)
	}
	return r, nil
}

func (s *Storage) UpdateRFP(ctx context.Context, r *models.RFP) error {
	query := `
        UPDATE rfps
        SET title=$1, description=$2, content=$3, due_date=$4,
            functional_weight=$5, security_weight=$6, business_weight=$7,
            functional_criteria=$8, security_criteria=$9, business_criteria=$10,
            status=$11, approved_by=$12, updated_at=NOW()
        WHERE id=$13
        RETURNING updated_at`
	err := s.db.QueryRowContext(ctx, query,
		r.Title, r.Description, r.Content, r.DueDate,
		r.FunctionalWeight, r.SecurityWeight, r.BusinessWeight,
		r.FunctionalCriteria, r.SecurityCriteria, r.BusinessCriteria,
		r.Status, r.ApprovedBy, r.ID).
		Scan(&r.UpdatedAt)
	return notFound(err)
}

func (s *Storage) ListRFPs(ctx context.Context, f models.RFPFilter) ([]models.RFP, error) {
	b := psql.Select("*").From("rfps").OrderBy("created_at DESC")
	if f.IDs != nil {
		b = b.Where(sq.Eq{"id": f.IDs})
	}
	if f.CreatedBy != "" {
		b = b.Where(sq.Eq{"created_by": f.CreatedBy})
	}
	if f.Statuses != nil {
		b = b.Where(sq.Eq{"status": f.Statuses})
	}
	b = page(b, f.Limit, f.Offset)

	rfps := []models.RFP{}
	if err := s.selectBuilt(ctx, &rfps, b); err != nil {
		return nil, err
	}
	return rfps, nil
}

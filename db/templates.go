package db

import (
	"context"

	"procurement/models"
)

func (s *Storage) CreateTemplate(ctx context.Context, t *models.Template) error {
	t.ID = newID(t.ID)
	query := `
        INSERT INTO rfp_templates (id, name, category, content, is_active, created_by)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at`
	return s.db.QueryRowContext(ctx, query, t.ID, t.Name, t.Category, t.Content, t.IsActive, t.CreatedBy).
		Scan(&t.CreatedAt)
}

func (s *Storage) GetTemplate(ctx context.Context, id string) (*models.Template, error) {
	t := &models.Template{}
	query := `SELECT * FROM rfp_templates WHERE id=$1`
	if err := s.db.GetContext(ctx, t, query, id); err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (s *Storage) ListTemplates(ctx context.Context, activeOnly bool) ([]models.Template, error) {
	query := `SELECT * FROM rfp_templates WHERE ($1 = FALSE OR is_active) ORDER BY name ASC`
	templates := []models.Template{}
	if err := s.db.SelectContext(ctx, &templates, query, activeOnly); err != nil {
		return nil, err
	}
	return templates, nil
}

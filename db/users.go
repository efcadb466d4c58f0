package db

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"procurement/models"
)

func (s *Storage) CreateUser(ctx context.Context, u *models.User) error {
	u.ID = newID(u.ID)
	query := `
        INSERT INTO users (id, email, full_name, role)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at`
	return s.db.QueryRowContext(ctx, query, u.ID, u.Email, u.FullName, u.Role).
		Scan(&u.CreatedAt)
}

func (s *Storage) GetUser(ctx context.Context, id string) (*models.User, error) {
	u := &models.User{}
	query := `SELECT * FROM users WHERE id=$1`
	if err := s.db.GetContext(ctx, u, query, id); err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u := &models.User{}
	query := `SELECT * FROM users WHERE lower(email)=lower($1)`
	if err := s.db.GetContext(ctx, u, query, email); err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *Storage) ListUsers(ctx context.Context, f models.UserFilter) ([]models.User, error) {
	b := psql.Select("*").From("users").OrderBy("full_name ASC")
	if f.IDs != nil {
		b = b.Where(sq.Eq{"id": f.IDs})
	}
	if f.Role != "" {
		b = b.Where(sq.Eq{"role": f.Role})
	}
	users := []models.User{}
	if err := s.selectBuilt(ctx, &users, b); err != nil {
		return nil, err
	}
	return users, nil
}

package db

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"procurement/models"
)

func (s *Storage) CreateVendor(ctx context.Context, v *models.Vendor) error {
	v.ID = newID(v.ID)
	query := `
        INSERT INTO vendors
            (id, name, contact_email, contact_person, phone, website, address, created_by)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING created_at, updated_at`
	return s.db.QueryRowContext(ctx, query,
		v.ID, v.Name, v.ContactEmail, v.ContactPerson, v.Phone, v.Website, v.Address, v.CreatedBy).
		Scan(&v.CreatedAt, &v.UpdatedAt)
}

func (s *Storage) GetVendor(ctx context.Context, id string) (*models.Vendor, error) {
	v := &models.Vendor{}
	query := `SELECT * FROM vendors WHERE id=$1`
	if err := s.db.GetContext(ctx, v, query, id); err != nil {
		return nil, notFound(err)
	}
	return v, nil
}

func (s *Storage) UpdateVendor(ctx context.Context, v *models.Vendor) error {
	query := `
        UPDATE vendors
        SET name=$1, contact_email=$2, contact_person=$3, phone=$4, website=$5, address=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`
	err := s.db.QueryRowContext(ctx, query,
		v.Name, v.ContactEmail, v.ContactPerson, v.Phone, v.Website, v.Address, v.ID).
		Scan(&v.UpdatedAt)
	return notFound(err)
}

func (s *Storage) ListVendors(ctx context.Context, f models.VendorFilter) ([]models.Vendor, error) {
	b := psql.Select("*").From("vendors").OrderBy("name ASC")
	if f.IDs != nil {
		b = b.Where(sq.Eq{"id": f.IDs})
	}
	if f.CreatedBy != "" {
		b = b.Where(sq.Eq{"created_by": f.CreatedBy})
	}
	b = page(b, f.Limit, f.Offset)

	vendors := []models.Vendor{}
	if err := s.selectBuilt(ctx, &vendors, b); err != nil {
		return nil, err
	}
	return vendors, nil
}

package db

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"procurement/models"
)

func (s *Storage) CreateProposal(ctx context.Context, p *models.Proposal) error {
	p.ID = newID(p.ID)
	query := `
        INSERT INTO proposals
            (id, rfp_id, vendor_id, document_ref, summary, status, awaiting_approval, created_by)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING created_at, updated_at`
	return s.db.QueryRowContext(ctx, query,
		p.ID, p.RFPID, p.VendorID, p.DocumentRef, p.Summary, p.Status, p.AwaitingApproval, p.CreatedBy).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (s *Storage) GetProposal(ctx context.Context, id string) (*models.Proposal, error) {
	p := &models.Proposal{}
	query := `SELECT * FROM proposals WHERE id=$1`
	if err := s.db.GetContext(ctx, p, query, id); err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *Storage) UpdateProposal(ctx context.Context, p *models.Proposal) error {
	query := `
        UPDATE proposals
        SET document_ref=$1, summary=$2, status=$3, awaiting_approval=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
	err := s.db.QueryRowContext(ctx, query,
		p.DocumentRef, p.Summary, p.Status, p.AwaitingApproval, p.ID).
		Scan(&p.UpdatedAt)
	return notFound(err)
}

func (s *Storage) ListProposals(ctx context.Context, f models.ProposalFilter) ([]models.Proposal, error) {
	b := psql.Select("*").From("proposals").OrderBy("created_at DESC")
	if f.IDs != nil {
		b = b.Where(sq.Eq{"id": f.IDs})
	}
	if f.RFPIDs != nil {
		b = b.Where(sq.Eq{"rfp_id": f.RFPIDs})
	}
	if f.VendorID != "" {
		b = b.Where(sq.Eq{"vendor_id": f.VendorID})
	}
	if f.Statuses != nil {
		b = b.Where(sq.Eq{"status": f.Statuses})
	}
	if f.AwaitingApproval != nil {
		b = b.Where(sq.Eq{"awaiting_approval": *f.AwaitingApproval})
	}

	proposals := []models.Proposal{}
	if err := s.selectBuilt(ctx, &proposals, b); err != nil {
		return nil, err
	}
	return proposals, nil
}

package db

import (
	"context"

	"procurement/models"
)

// AddTeamMember добавляет участника или меняет его роль, если он уже в команде
func (s *Storage) AddTeamMember(ctx context.Context, m *models.TeamMember) error {
	query := `
        INSERT INTO rfp_team_members (rfp_id, user_id, role, added_by, created_at)
        VALUES ($1, $2, $3, $4, NOW())
        ON CONFLICT (rfp_id, user_id) DO UPDATE SET role = EXCLUDED.role, added_by = EXCLUDED.added_by
        RETURNING created_at`
	return s.db.QueryRowContext(ctx, query, m.RFPID, m.UserID, m.Role, m.AddedBy).
		Scan(&m.CreatedAt)
}

func (s *Storage) RemoveTeamMember(ctx context.Context, rfpID, userID string) error {
	query := `DELETE FROM rfp_team_members WHERE rfp_id=$1 AND user_id=$2`
	return mustAffect(s.db.ExecContext(ctx, query, rfpID, userID))
}

func (s *Storage) ListTeamMembers(ctx context.Context, rfpID string) ([]models.TeamMember, error) {
	query := `SELECT * FROM rfp_team_members WHERE rfp_id=$1 ORDER BY created_at ASC`
	members := []models.TeamMember{}
	if err := s.db.SelectContext(ctx, &members, query, rfpID); err != nil {
		return nil, err
	}
	return members, nil
}

package db

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"procurement/models"
)

func (s *Storage) CreateNotification(ctx context.Context, n *models.Notification) error {
	n.ID = newID(n.ID)
	query := `
        INSERT INTO notifications (id, user_id, title, message, type, is_read)
        VALUES ($1, $2, $3, $4, $5, FALSE)
        RETURNING created_at`
	return s.db.QueryRowContext(ctx, query, n.ID, n.UserID, n.Title, n.Message, n.Type).
		Scan(&n.CreatedAt)
}

func (s *Storage) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	b := psql.Select("*").From("notifications").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC")
	if unreadOnly {
		b = b.Where(sq.Eq{"is_read": false})
	}
	items := []models.Notification{}
	if err := s.selectBuilt(ctx, &items, b); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Storage) MarkNotificationRead(ctx context.Context, id, userID string) error {
	query := `UPDATE notifications SET is_read=TRUE WHERE id=$1 AND user_id=$2`
	return mustAffect(s.db.ExecContext(ctx, query, id, userID))
}

func (s *Storage) CountUnreadNotifications(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(1) FROM notifications WHERE user_id=$1 AND is_read=FALSE`
	if err := s.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, err
	}
	return count, nil
}

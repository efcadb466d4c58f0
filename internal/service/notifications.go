package service

import (
	"context"
	"strings"

	"procurement/models"
)

func (s *Service) ListNotifications(ctx context.Context, actor models.User, unreadOnly bool) ([]models.Notification, error) {
	return s.store.ListNotifications(ctx, actor.ID, unreadOnly)
}

func (s *Service) MarkNotificationRead(ctx context.Context, actor models.User, id string) error {
	if err := s.store.MarkNotificationRead(ctx, id, actor.ID); err != nil {
		return lookup("notification", err)
	}
	return nil
}

func (s *Service) UnreadCount(ctx context.Context, actor models.User) (int, error) {
	return s.store.CountUnreadNotifications(ctx, actor.ID)
}

func (s *Service) ListTemplates(ctx context.Context, activeOnly bool) ([]models.Template, error) {
	return s.store.ListTemplates(ctx, activeOnly)
}

func (s *Service) CreateTemplate(ctx context.Context, actor models.User, in models.Template) (*models.Template, error) {
	if err := requireRole(actor, "manage templates", models.RoleProcurementManager); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validateStruct(in); err != nil {
		return nil, err
	}
	in.ID = ""
	in.IsActive = true
	in.CreatedBy = actor.ID
	if err := s.store.CreateTemplate(ctx, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

// Package service glues storage and the workflow engine together: it
// authorizes the caller, re-reads state, applies transitions and fans
// out notifications.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"procurement/internal/contentgen"
	"procurement/internal/metrics"
	"procurement/internal/scoring"
	"procurement/models"
)

// ContentGenerator never fails: on error it returns placeholder text.
type ContentGenerator interface {
	DraftRFP(ctx context.Context, req contentgen.DraftRequest) string
	AnalyzeProposal(ctx context.Context, text, criteria string) string
	SuggestQuestions(ctx context.Context, content, category string) []string
}

// Notifier доставляет уведомление асинхронно, ошибки не возвращаются вызывающему
type Notifier interface {
	Notify(n models.Notification)
}

type Service struct {
	store    Storage
	gen      ContentGenerator
	notifier Notifier
	validate *validator.Validate
	log      logrus.FieldLogger
	now      func() time.Time
}

type Option func(*Service)

func WithGenerator(g ContentGenerator) Option {
	return func(s *Service) { s.gen = g }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(store Storage, opts ...Option) *Service {
	s := &Service{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      logrus.StandardLogger(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.gen == nil {
		s.gen = contentgen.New(nil, s.log)
	}
	if s.notifier == nil {
		s.notifier = discardNotifier{}
	}
	return s
}

type discardNotifier struct{}

func (discardNotifier) Notify(models.Notification) {}

func (s *Service) validateStruct(v interface{}) error {
	if err := s.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func validateWeights(w models.Weights) error {
	if err := scoring.ValidateWeights(w); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

func requireRole(actor models.User, action string, roles ...string) error {
	for _, r := range roles {
		if actor.Role == r {
			return nil
		}
	}
	return forbidden(action)
}

func (s *Service) send(userID, kind, title, message string) {
	if userID == "" {
		return
	}
	s.notifier.Notify(models.Notification{UserID: userID, Type: kind, Title: title, Message: message})
}

// sendToRole уведомляет всех пользователей роли; ошибка выборки только логируется
func (s *Service) sendToRole(ctx context.Context, role, kind, title, message string) {
	users, err := s.store.ListUsers(ctx, models.UserFilter{Role: role})
	if err != nil {
		s.log.WithError(err).WithField("role", role).Warn("failed to resolve notification recipients")
		return
	}
	for _, u := range users {
		s.send(u.ID, kind, title, message)
	}
}

func transitioned(entity, event string) {
	metrics.Transitions.WithLabelValues(entity, event).Inc()
}

// GetUser нужен сессиям и middleware
func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, lookup("user", err)
	}
	return u, nil
}

func (s *Service) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, lookup("user", err)
	}
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context, role string) ([]models.User, error) {
	if role != "" {
		if err := s.validate.Var(role, "oneof=procurement_manager evaluator dept_head it_admin"); err != nil {
			return nil, validationError("unknown role %q", role)
		}
	}
	return s.store.ListUsers(ctx, models.UserFilter{Role: role})
}

// RegisterUser создаёт учётную запись; используется командой seed-user
func (s *Service) RegisterUser(ctx context.Context, u models.User) (*models.User, error) {
	if err := s.validateStruct(u); err != nil {
		return nil, err
	}
	if _, err := s.store.GetUserByEmail(ctx, u.Email); err == nil {
		return nil, validationError("user %s already exists", u.Email)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if err := s.store.CreateUser(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

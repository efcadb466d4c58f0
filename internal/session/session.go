// Package session keeps per-login state: who is signed in, which role
// variant drives their menu and dashboard, and where they navigated last.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"procurement/models"
)

var (
	ErrNoSession   = errors.New("no active session")
	ErrUnknownRole = errors.New("unknown role")
	ErrUnknownPage = errors.New("page is not available for this role")
)

// Navigation выбранная страница и идентификаторы открытых записей
type Navigation struct {
	Page         string `json:"page"`
	RFPID        string `json:"rfpId,omitempty"`
	ProposalID   string `json:"proposalId,omitempty"`
	EvaluationID string `json:"evaluationId,omitempty"`
}

type Session struct {
	Token     string     `json:"token"`
	UserID    string     `json:"userId"`
	Email     string     `json:"email"`
	FullName  string     `json:"fullName"`
	RoleName  string     `json:"role"`
	Nav       Navigation `json:"navigation"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt time.Time  `json:"expiresAt"`

	role Role
}

// New открывает сессию для пользователя. Роль разрешается здесь один раз.
func New(u models.User, ttl time.Duration, now time.Time) (*Session, error) {
	r, err := RoleFor(u.Role)
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:     uuid.NewString(),
		UserID:    u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		RoleName:  u.Role,
		Nav:       Navigation{Page: PageDashboard},
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		role:      r,
	}, nil
}

func (s *Session) Role() Role {
	return s.role
}

// User восстанавливает участника действий из сессии
func (s *Session) User() models.User {
	return models.User{ID: s.UserID, Email: s.Email, FullName: s.FullName, Role: s.RoleName}
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Navigate меняет текущую страницу. Детальные страницы доступны всем ролям.
func (s *Session) Navigate(nav Navigation) error {
	if nav.Page == "" {
		nav.Page = PageDashboard
	}
	if !s.role.allows(nav.Page) {
		return fmt.Errorf("%w: %s", ErrUnknownPage, nav.Page)
	}
	s.Nav = nav
	return nil
}

// resolve восстанавливает вариант роли после десериализации
func (s *Session) resolve() error {
	r, err := RoleFor(s.RoleName)
	if err != nil {
		return err
	}
	s.role = r
	return nil
}

type ctxKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}

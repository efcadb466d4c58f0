package testutils

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"procurement/internal/session"
	"procurement/models"
)

// WithChiURLParams подставляет параметры пути в контекст chi запроса для тестов.
func WithChiURLParams(req *http.Request, params map[string]string) *http.Request {
	chiCtx := chi.NewRouteContext()
	for k, v := range params {
		chiCtx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))
}

// WithSession кладёт в запрос сессию пользователя, минуя middleware.
func WithSession(t *testing.T, req *http.Request, u models.User) *http.Request {
	t.Helper()
	s, err := session.New(u, time.Hour, time.Now())
	require.NoError(t, err)
	return req.WithContext(session.WithSession(req.Context(), s))
}

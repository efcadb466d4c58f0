package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"procurement/internal/session"
	"procurement/models"
)

// RequestLogger пишет одну запись на запрос через logrus
func RequestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.WithFields(logrus.Fields{
				"request_id": middleware.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start).String(),
			}).Info("request")
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireSession загружает сессию по Bearer-токену и кладёт её в контекст
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			httpError(w, "Missing session token", http.StatusUnauthorized)
			return
		}
		s, err := h.sessions.Get(r.Context(), token)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		if s.Expired(h.now()) {
			h.sessions.Delete(r.Context(), token)
			httpError(w, session.ErrNoSession.Error(), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
	})
}

// actor пользователь текущей сессии; middleware гарантирует её наличие
func actor(r *http.Request) (models.User, *session.Session) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		return models.User{}, nil
	}
	return s.User(), s
}

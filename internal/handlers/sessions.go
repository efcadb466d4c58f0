package handlers

import (
	"errors"
	"net/http"
	"strings"

	"procurement/internal/service"
	"procurement/internal/session"
)

type loginResponse struct {
	Token   string             `json:"token"`
	Session *session.Session   `json:"session"`
	Menu    []session.MenuItem `json:"menu"`
}

// LoginHandler открывает сессию. Email подтверждён шлюзом и приходит в заголовке.
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.Header.Get(h.authHeader))
	if email == "" {
		httpError(w, "Missing authenticated user", http.StatusUnauthorized)
		return
	}
	u, err := h.svc.UserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			httpError(w, "Unknown user", http.StatusUnauthorized)
			return
		}
		h.writeError(w, r, err)
		return
	}
	s, err := session.New(*u, h.sessionTTL, h.now())
	if err != nil {
		httpError(w, err.Error(), http.StatusForbidden)
		return
	}
	if err := h.sessions.Save(r.Context(), s); err != nil {
		h.writeError(w, r, err)
		return
	}
	unread, err := h.svc.UnreadCount(r.Context(), *u)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.log.WithField("user_id", u.ID).Info("session opened")
	writeJSON(w, http.StatusCreated, loginResponse{Token: s.Token, Session: s, Menu: s.Role().Menu(unread)})
}

// LogoutHandler удаляет текущую сессию
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	_, s := actor(r)
	if err := h.sessions.Delete(r.Context(), s.Token); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	_, s := actor(r)
	writeJSON(w, http.StatusOK, s)
}

// NavigateHandler меняет страницу; выбранные записи должны существовать
func (h *Handler) NavigateHandler(w http.ResponseWriter, r *http.Request) {
	u, s := actor(r)
	var nav session.Navigation
	if !decode(w, r, &nav) {
		return
	}
	ctx := r.Context()
	if nav.RFPID != "" {
		if _, err := h.svc.GetRFP(ctx, u, nav.RFPID); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	if nav.ProposalID != "" {
		if _, err := h.svc.GetProposal(ctx, nav.ProposalID); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	if nav.EvaluationID != "" {
		if _, err := h.svc.GetEvaluation(ctx, u, nav.EvaluationID); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	next := *s
	if err := next.Navigate(nav); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.sessions.Save(ctx, &next); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, next.Nav)
}

func (h *Handler) MenuHandler(w http.ResponseWriter, r *http.Request) {
	u, s := actor(r)
	unread, err := h.svc.UnreadCount(r.Context(), u)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Role().Menu(unread))
}

func (h *Handler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	u, s := actor(r)
	d, err := s.Role().Dashboard(r.Context(), h.svc, u)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// ListUsersHandler справочник пользователей для формирования команды
func (h *Handler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context(), r.URL.Query().Get("role"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

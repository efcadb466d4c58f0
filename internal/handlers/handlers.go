package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"procurement/internal/scoring"
	"procurement/internal/service"
	"procurement/internal/session"
	"procurement/internal/workflow"
	"procurement/models"
)

const maxBodyBytes = 1048576

// Handler связывает HTTP с сервисом и хранилищем сессий
type Handler struct {
	svc        *service.Service
	sessions   session.Store
	log        logrus.FieldLogger
	authHeader string
	sessionTTL time.Duration
	now        func() time.Time
}

type Config struct {
	AuthUserHeader string
	SessionTTL     time.Duration
	Logger         logrus.FieldLogger
}

// NewHandler создает новый Handler
func NewHandler(svc *service.Service, sessions session.Store, cfg Config) *Handler {
	h := &Handler{
		svc:        svc,
		sessions:   sessions,
		log:        cfg.Logger,
		authHeader: cfg.AuthUserHeader,
		sessionTTL: cfg.SessionTTL,
		now:        time.Now,
	}
	if h.log == nil {
		h.log = logrus.StandardLogger()
	}
	if h.authHeader == "" {
		h.authHeader = "X-Auth-Email"
	}
	if h.sessionTTL <= 0 {
		h.sessionTTL = 12 * time.Hour
	}
	return h
}

// PingHandler отвечает "ok" для проверки сервера
func (h *Handler) PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

// httpError отвечает {"error": msg}
func httpError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decode ограничивает размер тела и разбирает JSON
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpError(w, "Invalid JSON format", http.StatusBadRequest)
		return false
	}
	return true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, scoring.ErrWeightsSum),
		errors.Is(err, session.ErrUnknownPage):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound), errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrInvalidTransition), errors.Is(err, workflow.ErrNotEditable),
		errors.Is(err, workflow.ErrEvaluationsIncomplete), errors.Is(err, workflow.ErrProposalDecided),
		errors.Is(err, workflow.ErrEvaluationCompleted), errors.Is(err, workflow.ErrAwaitingApproval),
		errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeError переводит доменную ошибку в статус; внутренние ошибки не раскрываются
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("request failed")
		httpError(w, "Internal server error", status)
		return
	}
	httpError(w, err.Error(), status)
}

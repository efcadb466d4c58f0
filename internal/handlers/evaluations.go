package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"procurement/internal/service"
)

// GetMyEvaluationsHandler оценки текущего пользователя, ?status=pending|completed
func (h *Handler) GetMyEvaluationsHandler(w http.ResponseWriter, r *http.Request) {
	u, _ := actor(r)
	evals, err := h.svc.ListMyEvaluations(r.Context(), u, r.URL.Query().Get("status"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, evals)
}

func (h *Handler) GetEvaluationHandler(w http.ResponseWriter, r *http.Request) {
	u, _ := actor(r)
	view, err := h.svc.GetEvaluation(r.Context(), u, chi.URLParam(r, "evaluationId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SaveEvaluationHandler сохраняет черновик или отправляет оценку (submit=true)
func (h *Handler) SaveEvaluationHandler(w http.ResponseWriter, r *http.Request) {
	u, _ := actor(r)
	var in service.EvaluationInput
	if !decode(w, r, &in) {
		return
	}
	e, err := h.svc.SaveEvaluation(r.Context(), u, chi.URLParam(r, "evaluationId"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// GetApprovalsHandler очередь руководителя
func (h *Handler) GetApprovalsHandler(w http.ResponseWriter, r *http.Request) {
	u, _ := actor(r)
	q, err := h.svc.PendingApprovals(r.Context(), u)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

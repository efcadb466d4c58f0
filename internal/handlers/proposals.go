package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"procurement/internal/service"
	"procurement/models"
)

// CreateProposalHandler регистрирует предложение поставщика по RFP
func (h *Handler) CreateProposalHandler(w http.ResponseWriter, r *http.Request) {
	u, _ := actor(r)
	var in service.ProposalInput
	if !decode(w, r, &in) {
		return
	}
	p, err := h.svc.CreateProposal(r.Context(), u, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) GetProposalHandler(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProposal(r.Context(), chi.URLParam(r, "proposalId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetProposalEvaluationsHandler оценки предложения и сводка по ним
func (h *Handler) GetProposalEvaluationsHandler(w http.ResponseWriter, r *http.Request) {
	review, err := h.svc.ReviewProposal(r.Context(), chi.URLParam(r, "proposalId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (h *Handler) AssignEvaluatorHandler(w http.ResponseWriter, r *http.Request) {
	u, _ := actor(r)
	var req struct {
		EvaluatorID string `json:"evaluatorId"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.EvaluatorID == "" {
		httpError(w, "evaluatorId is required", http.StatusBadRequest)
		return
	}
	e, err := h.svc.AssignEvaluator(r.Context(), u, chi.URLParam(r, "proposalId"), req.EvaluatorID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) SendForApprovalHandler(w http.ResponseWriter, r *http.Request) {
	u, _ := actor(r)
	p, err := h.svc.SendForApproval(r.Context(), u, chi.URLParam(r, "proposalId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// SubmitProposalDecisionHandler решение руководителя: approve, reject или send-back
func (h *Handler) SubmitProposalDecisionHandler(decision string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, _ := actor(r)
		id := chi.URLParam(r, "proposalId")
		ctx := r.Context()

		var req reasonRequest
		if decision == "reject" && r.ContentLength != 0 && !decode(w, r, &req) {
			return
		}

		var err error
		var result *models.Proposal
		switch decision {
		case "approve":
			result, err = h.svc.ApproveProposal(ctx, u, id)
		case "reject":
			result, err = h.svc.RejectProposal(ctx, u, id, req.Reason)
		case "send-back":
			result, err = h.svc.SendBackProposal(ctx, u, id)
		default:
			httpError(w, "Unknown decision", http.StatusBadRequest)
			return
		}
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"procurement/internal/service"
	"procurement/models"
)

const (
	defaultPageSize = 50
	maxPageSize     = 50
)

type PaginationParams struct {
	Limit  int
	Offset int
}

// parsePaginationParams парсит limit и offset из query, с дефолтами и ограничениями
func parsePaginationParams(r *http.Request) PaginationParams {
	var params PaginationParams
	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")

	params.Limit = defaultPageSize
	params.Offset = 0

	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= maxPageSize {
			params.Limit = l
		}
	}
	if offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			params.Offset = o
		}
	}
	return params
}

var rfpStatuses = map[string]bool{
	models.RFPDraft: true, models.RFPPendingApproval: true, models.RFPApproved: true,
	models.RFPPublished: true, models.RFPEvaluation: true, models.RFPCompleted: true, models.RFPCancelled: true,
}

// CreateRFPHandler обрабатывает POST /api/rfps
func (h *Handler) CreateRFPHandler(w http.ResponseWriter, r *http.Request) {
	u, _ := actor(r)
	var in service.RFPInput
	if !decode(w, r, &in) {
		return
	}
	rfp, err := h.svc.CreateRFP(r.Context(), u, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rfp)
}

// GetRFPsHandler по умолчанию возвращает RFP текущего пользователя; scope=all снимает фильтр
func (h *Handler) GetRFPsHandler(w http.ResponseWriter, r *http.Request) {
	u, _ := actor(r)
	params := parsePaginationParams(r)

	// Фильтр status - может быть несколько через query param
	var statuses []string
	for _, v := range r.URL.Query()["status"] {
		if rfpStatuses[v] {
			statuses = append(statuses, v)
		}
	}

	rfps, err := h.svc.ListRFPs(r.Context(), u, service.RFPQuery{
		Mine:     r.URL.Query().Get("scope") != "all",
		Statuses: statuses,
		Limit:    params.Limit,
		Offset:   params.Offset,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rfps)
}

func (h *Handler) GetRFPHandler(w http.ResponseWriter, r *http.Request) {
	u, _ := actor(r)
	rfp, err := h.svc.GetRFP(r.Context(), u, chi.URLParam(r, "rfpId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rfp)
}

// EditRFPHandler правит черновик; только автор, только переданные поля
func (h *Handler) EditRFPHandler(w http.ResponseWriter, r *http.Request) {
	u, _ := actor(r)
	var in service.RFPPatch
	if !decode(w, r, &in) {
		return
	}
	rfp, err := h.svc.UpdateRFP(r.Context(), u, chi.URLParam(r, "rfpId"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rfp)
}

type rfpAction func(ctx context.Context, actor models.User, id string) (*models.RFP, error)

// RFPTransitionHandler общий обработчик для submit/approve/publish/complete/cancel
func (h *Handler) RFPTransitionHandler(action rfpAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, _ := actor(r)
		rfp, err := action(r.Context(), u, chi.URLParam(r, "rfpId"))
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, rfp)
	}
}

func (h *Handler) SubmitRFPHandler() http.HandlerFunc { return h.RFPTransitionHandler(h.svc.SubmitRFP) }
func (h *Handler) ApproveRFPHandler() http.HandlerFunc { return h.RFPTransitionHandler(h.svc.ApproveRFP) }
func (h *Handler) PublishRFPHandler() http.HandlerFunc { return h.RFPTransitionHandler(h.svc.PublishRFP) }
func (h *Handler) CompleteRFPHandler() http.HandlerFunc { return h.RFPTransitionHandler(h.svc.CompleteRFP) }
func (h *Handler) CancelRFPHandler() http.HandlerFunc { return h.RFPTransitionHandler(h.svc.CancelRFP) }

type reasonRequest struct {
	Reason string `json:"reason"`
}

// RejectRFPHandler возвращает RFP в черновик; причина необязательна
func (h *Handler) RejectRFPHandler(w http.ResponseWriter, r *http.Request) {
	u, _ := actor(r)
	var req reasonRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	rfp, err := h.svc.RejectRFP(r.Context(), u, chi.URLParam(r, "rfpId"), req.Reason)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rfp)
}

func (h *Handler) GetTeamHandler(w http.ResponseWriter, r *http.Request) {
	u, _ := actor(r)
	team, err := h.svc.ListTeam(r.Context(), u, chi.URLParam(r, "rfpId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

func (h *Handler) AddTeamMemberHandler(w http.ResponseWriter, r *http.Request) {
	u, _ := actor(r)
	var req struct {
		UserID string `json:"userId"`
		Role   string `json:"role"`
	}
	if !decode(w, r, &req) {
		return
	}
	m, err := h.svc.AddTeamMember(r.Context(), u, chi.URLParam(r, "rfpId"), req.UserID, req.Role)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handler) RemoveTeamMemberHandler(w http.ResponseWriter, r *http.Request) {
	u, _ := actor(r)
	if err := h.svc.RemoveTeamMember(r.Context(), u, chi.URLParam(r, "rfpId"), chi.URLParam(r, "userId")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetProposalsForRFPHandler(w http.ResponseWriter, r *http.Request) {
	proposals, err := h.svc.ListProposalsForRFP(r.Context(), chi.URLParam(r, "rfpId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, proposals)
}

// GetScorecardsHandler рейтинг предложений RFP по средней итоговой оценке
func (h *Handler) GetScorecardsHandler(w http.ResponseWriter, r *http.Request) {
	u, _ := actor(r)
	cards, err := h.svc.Scorecards(r.Context(), u, chi.URLParam(r, "rfpId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *Handler) SuggestQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	u, _ := actor(r)
	questions, err := h.svc.SuggestQuestions(r.Context(), u, chi.URLParam(r, "rfpId"), r.URL.Query().Get("category"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"questions": questions})
}

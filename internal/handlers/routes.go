package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router собирает все маршруты /api; metrics монтируется отдельно, если задан
func (h *Handler) Router(metricsPath string, metrics http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(h.log))
	r.Use(middleware.Recoverer)

	if metrics != nil && metricsPath != "" {
		r.Handle(metricsPath, metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.PingHandler)
		r.Post("/sessions", h.LoginHandler)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireSession)

			// сессия и навигация
			r.Delete("/sessions", h.LogoutHandler)
			r.Get("/session", h.GetSessionHandler)
			r.Put("/session/navigation", h.NavigateHandler)
			r.Get("/menu", h.MenuHandler)
			r.Get("/dashboard", h.DashboardHandler)
			r.Get("/users", h.ListUsersHandler)

			// RFP
			r.Post("/rfps", h.CreateRFPHandler)
			r.Get("/rfps", h.GetRFPsHandler)
			r.Route("/rfps/{rfpId}", func(r chi.Router) {
				r.Get("/", h.GetRFPHandler)
				r.Patch("/", h.EditRFPHandler)
				r.Post("/submit", h.SubmitRFPHandler())
				r.Post("/approve", h.ApproveRFPHandler())
				r.Post("/reject", h.RejectRFPHandler)
				r.Post("/publish", h.PublishRFPHandler())
				r.Post("/complete", h.CompleteRFPHandler())
				r.Post("/cancel", h.CancelRFPHandler())
				r.Get("/team", h.GetTeamHandler)
				r.Post("/team", h.AddTeamMemberHandler)
				r.Delete("/team/{userId}", h.RemoveTeamMemberHandler)
				r.Get("/proposals", h.GetProposalsForRFPHandler)
				r.Get("/scorecards", h.GetScorecardsHandler)
				r.Post("/questions", h.SuggestQuestionsHandler)
			})

			// поставщики
			r.Post("/vendors", h.CreateVendorHandler)
			r.Get("/vendors", h.GetVendorsHandler)
			r.Get("/vendors/{vendorId}", h.GetVendorHandler)
			r.Patch("/vendors/{vendorId}", h.EditVendorHandler)

			// предложения
			r.Post("/proposals", h.CreateProposalHandler)
			r.Route("/proposals/{proposalId}", func(r chi.Router) {
				r.Get("/", h.GetProposalHandler)
				r.Get("/evaluations", h.GetProposalEvaluationsHandler)
				r.Post("/evaluators", h.AssignEvaluatorHandler)
				r.Post("/send-for-approval", h.SendForApprovalHandler)
				r.Post("/approve", h.SubmitProposalDecisionHandler("approve"))
				r.Post("/reject", h.SubmitProposalDecisionHandler("reject"))
				r.Post("/send-back", h.SubmitProposalDecisionHandler("send-back"))
			})

			// оценки
			r.Get("/evaluations", h.GetMyEvaluationsHandler)
			r.Get("/evaluations/{evaluationId}", h.GetEvaluationHandler)
			r.Put("/evaluations/{evaluationId}", h.SaveEvaluationHandler)

			r.Get("/approvals", h.GetApprovalsHandler)

			r.Get("/reports/overview", h.GetOverviewReportHandler)
			r.Get("/reports/vendors", h.GetVendorReportHandler)
			r.Get("/reports/export.xlsx", h.ExportReportHandler)

			r.Get("/notifications", h.GetNotificationsHandler)
			r.Post("/notifications/{notificationId}/read", h.MarkNotificationReadHandler)

			r.Get("/templates", h.GetTemplatesHandler)
			r.Post("/templates", h.CreateTemplateHandler)
		})
	})
	return r
}

package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"procurement/internal/reports"
	"procurement/models"
)

func (h *Handler) GetOverviewReportHandler(w http.ResponseWriter, r *http.Request) {
	u, _ := actor(r)
	d, err := h.svc.ReportData(r.Context(), u)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reports.BuildOverview(d))
}

func (h *Handler) GetVendorReportHandler(w http.ResponseWriter, r *http.Request) {
	u, _ := actor(r)
	d, err := h.svc.ReportData(r.Context(), u)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reports.VendorAnalytics(d))
}

// ExportReportHandler отдаёт отчёт в XLSX. Файл собирается в памяти,
// чтобы ошибка не оборвала уже начатый ответ.
func (h *Handler) ExportReportHandler(w http.ResponseWriter, r *http.Request) {
	u, _ := actor(r)
	d, err := h.svc.ReportData(r.Context(), u)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := reports.WriteXLSX(&buf, d); err != nil {
		h.writeError(w, r, err)
		return
	}
	name := fmt.Sprintf("procurement-report-%s.xlsx", h.now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// GetNotificationsHandler уведомления текущего пользователя, ?unread=true
func (h *Handler) GetNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	u, _ := actor(r)
	items, err := h.svc.ListNotifications(r.Context(), u, r.URL.Query().Get("unread") == "true")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	u, _ := actor(r)
	if err := h.svc.MarkNotificationRead(r.Context(), u, chi.URLParam(r, "notificationId")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetTemplatesHandler активные шаблоны; ?all=true включает неактивные
func (h *Handler) GetTemplatesHandler(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListTemplates(r.Context(), r.URL.Query().Get("all") != "true")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) CreateTemplateHandler(w http.ResponseWriter, r *http.Request) {
	u, _ := actor(r)
	var in models.Template
	if !decode(w, r, &in) {
		return
	}
	t, err := h.svc.CreateTemplate(r.Context(), u, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

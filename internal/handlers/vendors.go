package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"procurement/models"
)

func (h *Handler) CreateVendorHandler(w http.ResponseWriter, r *http.Request) {
	u, _ := actor(r)
	var in models.Vendor
	if !decode(w, r, &in) {
		return
	}
	v, err := h.svc.CreateVendor(r.Context(), u, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *Handler) GetVendorsHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)
	vendors, err := h.svc.ListVendors(r.Context(), params.Limit, params.Offset)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vendors)
}

func (h *Handler) GetVendorHandler(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.GetVendor(r.Context(), chi.URLParam(r, "vendorId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) EditVendorHandler(w http.ResponseWriter, r *http.Request) {
	u, _ := actor(r)
	var in models.Vendor
	if !decode(w, r, &in) {
		return
	}
	v, err := h.svc.UpdateVendor(r.Context(), u, chi.URLParam(r, "vendorId"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

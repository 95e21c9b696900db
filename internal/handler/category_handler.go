package handlers

import "net/http"

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.CategoryService.ListCategories(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}

	WriteSuccess(w, DataResponse{Data: categories}, http.StatusOK)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	health, err := h.HealthService.Check(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}

	WriteSuccess(w, health, http.StatusOK)
}

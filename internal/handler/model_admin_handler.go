package handler

import (
	"encoding/json"
	"net/http"

	"tiendarec-tf/internal/service"

	"github.com/go-chi/chi/v5"
)

type ModelAdminHandler struct {
	svc *service.ModelService
}

func NewModelAdminHandler(s *service.ModelService) *ModelAdminHandler {
	return &ModelAdminHandler{svc: s}
}

// MountModelAdminRoutes cuelga las rutas de mantenimiento del modelo.
func MountModelAdminRoutes(r chi.Router, h *ModelAdminHandler) {
	r.Get("/admin/model/summary", h.Summary)
	r.Post("/admin/model/reload", h.Reload)
}

// @Summary Resumen del modelo cargado
// @Tags admin
// @Produce json
// @Success 200 {object} service.ModelSummary
// @Failure 503 {object} map[string]string
// @Router /admin/model/summary [get]
func (h *ModelAdminHandler) Summary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	sum, err := h.svc.Summary()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	_ = json.NewEncoder(w).Encode(sum)
}

// @Summary Recargar el artefacto del modelo (swap atómico)
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /admin/model/reload [post]
func (h *ModelAdminHandler) Reload(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := h.svc.Reload(); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "reloaded"})
}

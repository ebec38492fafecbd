package httpd

import (
	"net/http"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListSupervisors(w http.ResponseWriter, r *http.Request) {
	supervisors, err := h.supervisorService.ListSupervisors(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "Supervisor service")
		return
	}

	writeSuccess(w, supervisors)
}

func (h *Handler) GetSupervisor(w http.ResponseWriter, r *http.Request) {
	supervisorID := chi.URLParam(r, "id")

	supervisor, err := h.supervisorService.GetSupervisor(r.Context(), models.SupervisorID(supervisorID))
	if err != nil {
		h.handleServiceError(w, err, "Supervisor service")
		return
	}

	writeSuccess(w, supervisor)
}

func (h *Handler) UpdateSupervisor(w http.ResponseWriter, r *http.Request) {
	supervisorID := chi.URLParam(r, "id")

	var req models.UpdateSupervisorRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	supervisor, err := h.supervisorService.UpdateProfile(r.Context(), actorFrom(r), models.SupervisorID(supervisorID), &req)
	if err != nil {
		h.handleServiceError(w, err, "Supervisor service")
		return
	}

	writeSuccess(w, supervisor)
}

func (h *Handler) GetSupervisorOverview(w http.ResponseWriter, r *http.Request) {
	supervisorID := models.SupervisorID(chi.URLParam(r, "id"))
	if !actorFrom(r).Owns(supervisorID) {
		writeError(w, http.StatusForbidden, "Access denied")
		return
	}

	overview, err := h.dashboardService.SupervisorOverview(r.Context(), supervisorID)
	if err != nil {
		h.handleDashboardError(w, err)
		return
	}

	writeSuccess(w, overview)
}

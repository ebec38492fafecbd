package httpd

import (
	"net/http"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetInternDashboard(w http.ResponseWriter, r *http.Request) {
	internID := chi.URLParam(r, "id")
	if !allowIntern(w, r, internID) {
		return
	}

	dashboard, err := h.dashboardService.InternDashboard(r.Context(), models.InternID(internID))
	if err != nil {
		h.handleDashboardError(w, err)
		return
	}

	writeSuccess(w, dashboard)
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	internID := chi.URLParam(r, "id")
	if !allowIntern(w, r, internID) {
		return
	}

	board, err := h.dashboardService.Leaderboard(r.Context(), models.InternID(internID))
	if err != nil {
		h.handleDashboardError(w, err)
		return
	}

	writeSuccess(w, board)
}

func (h *Handler) GetAdminOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.dashboardService.AdminOverview(r.Context())
	if err != nil {
		h.handleDashboardError(w, err)
		return
	}

	writeSuccess(w, overview)
}

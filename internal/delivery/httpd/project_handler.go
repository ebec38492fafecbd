package httpd

import (
	"net/http"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/go-chi/chi/v5"
)

// ListProjects: интерн получает свои проекты, супервайзер — созданные им,
// админ — все или по ?supervisor_id=.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)

	var (
		projects []models.Project
		err      error
	)
	switch {
	case actor.IsIntern():
		projects, err = h.projectService.ListForIntern(r.Context(), models.InternID(actor.ID))
	case actor.IsSupervisor():
		projects, err = h.projectService.ListProjects(r.Context(), models.SupervisorID(actor.ID))
	default:
		projects, err = h.projectService.ListProjects(r.Context(), models.SupervisorID(r.URL.Query().Get("supervisor_id")))
	}
	if err != nil {
		h.handleProjectError(w, err)
		return
	}

	writeSuccess(w, projects)
}

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req models.ProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	project, err := h.projectService.CreateProject(r.Context(), actorFrom(r), &req)
	if err != nil {
		h.handleProjectError(w, err)
		return
	}

	writeCreated(w, project)
}

func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")

	project, err := h.projectService.GetProject(r.Context(), models.ProjectID(projectID))
	if err != nil {
		h.handleProjectError(w, err)
		return
	}

	writeSuccess(w, project)
}

func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")

	var req models.ProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	project, err := h.projectService.UpdateProject(r.Context(), actorFrom(r), models.ProjectID(projectID), &req)
	if err != nil {
		h.handleProjectError(w, err)
		return
	}

	writeSuccess(w, project)
}

func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")

	if err := h.projectService.DeleteProject(r.Context(), actorFrom(r), models.ProjectID(projectID)); err != nil {
		h.handleProjectError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Project deleted successfully",
	})
}

func (h *Handler) CompleteProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")

	project, err := h.projectService.CompleteProject(r.Context(), actorFrom(r), models.ProjectID(projectID))
	if err != nil {
		h.handleProjectError(w, err)
		return
	}

	writeSuccess(w, project)
}

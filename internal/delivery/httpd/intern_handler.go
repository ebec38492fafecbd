package httpd

import (
	"net/http"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) CreateIntern(w http.ResponseWriter, r *http.Request) {
	var req models.CreateInternRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	intern, err := h.internService.CreateIntern(r.Context(), &req)
	if err != nil {
		h.handleInternError(w, err)
		return
	}

	writeCreated(w, intern)
}

func (h *Handler) GetIntern(w http.ResponseWriter, r *http.Request) {
	internID := chi.URLParam(r, "id")
	if !allowIntern(w, r, internID) {
		return
	}

	intern, err := h.internService.GetIntern(r.Context(), models.InternID(internID))
	if err != nil {
		h.handleInternError(w, err)
		return
	}

	writeSuccess(w, intern)
}

func (h *Handler) ListInterns(w http.ResponseWriter, r *http.Request) {
	interns, err := h.internService.ListInterns(r.Context())
	if err != nil {
		h.handleInternError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"interns": interns,
		"total":   len(interns),
	})
}

func (h *Handler) UpdateIntern(w http.ResponseWriter, r *http.Request) {
	internID := chi.URLParam(r, "id")

	var req models.UpdateInternRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	intern, err := h.internService.UpdateIntern(r.Context(), models.InternID(internID), &req)
	if err != nil {
		h.handleInternError(w, err)
		return
	}

	writeSuccess(w, intern)
}

func (h *Handler) DeleteIntern(w http.ResponseWriter, r *http.Request) {
	internID := chi.URLParam(r, "id")

	if err := h.internService.DeleteIntern(r.Context(), models.InternID(internID)); err != nil {
		h.handleInternError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Intern deleted successfully",
	})
}

func (h *Handler) SetNickname(w http.ResponseWriter, r *http.Request) {
	internID := chi.URLParam(r, "id")
	if !allowIntern(w, r, internID) {
		return
	}

	var req models.SetNicknameRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	intern, err := h.internService.SetNickname(r.Context(), models.InternID(internID), &req)
	if err != nil {
		h.handleInternError(w, err)
		return
	}

	writeSuccess(w, intern)
}

// AssignSupervisor: пустой supervisor_id снимает интерна со всех групп.
func (h *Handler) AssignSupervisor(w http.ResponseWriter, r *http.Request) {
	internID := chi.URLParam(r, "id")

	var req models.AssignSupervisorRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	group, err := h.groupService.AssignSupervisor(r.Context(), models.InternID(internID), &req)
	if err != nil {
		h.handleGroupError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"intern_id": internID,
		"group":     group,
	})
}

func (h *Handler) BulkAssign(w http.ResponseWriter, r *http.Request) {
	var req models.BulkAssignRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	group, err := h.groupService.BulkAssign(r.Context(), &req)
	if err != nil {
		h.handleGroupError(w, err)
		return
	}

	writeSuccess(w, group)
}

func (h *Handler) MoveIntern(w http.ResponseWriter, r *http.Request) {
	internID := chi.URLParam(r, "id")

	var req models.MoveInternRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.groupService.MoveIntern(r.Context(), actorFrom(r), models.InternID(internID), &req); err != nil {
		h.handleGroupError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Intern moved successfully",
	})
}

func (h *Handler) ListInternAssignments(w http.ResponseWriter, r *http.Request) {
	internID := chi.URLParam(r, "id")
	if !allowIntern(w, r, internID) {
		return
	}

	assignments, err := h.assignmentService.ListForIntern(r.Context(), models.InternID(internID))
	if err != nil {
		h.handleAssignmentError(w, err)
		return
	}

	writeSuccess(w, assignments)
}

func (h *Handler) ListInternProjects(w http.ResponseWriter, r *http.Request) {
	internID := chi.URLParam(r, "id")
	if !allowIntern(w, r, internID) {
		return
	}

	projects, err := h.projectService.ListForIntern(r.Context(), models.InternID(internID))
	if err != nil {
		h.handleProjectError(w, err)
		return
	}

	writeSuccess(w, projects)
}

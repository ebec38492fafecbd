package httpd

import (
	"net/http"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req models.AssignmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	assignment, err := h.assignmentService.CreateAssignment(r.Context(), &req)
	if err != nil {
		h.handleAssignmentError(w, err)
		return
	}

	writeCreated(w, assignment)
}

func (h *Handler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "id")

	assignment, err := h.assignmentService.GetAssignment(r.Context(), models.AssignmentID(assignmentID))
	if err != nil {
		h.handleAssignmentError(w, err)
		return
	}

	writeSuccess(w, assignment)
}

func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.assignmentService.ListAssignments(r.Context())
	if err != nil {
		h.handleAssignmentError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"assignments": assignments,
		"total":       len(assignments),
	})
}

func (h *Handler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "id")

	var req models.AssignmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	assignment, err := h.assignmentService.UpdateAssignment(r.Context(), models.AssignmentID(assignmentID), &req)
	if err != nil {
		h.handleAssignmentError(w, err)
		return
	}

	writeSuccess(w, assignment)
}

func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "id")

	if err := h.assignmentService.DeleteAssignment(r.Context(), models.AssignmentID(assignmentID)); err != nil {
		h.handleAssignmentError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Assignment deleted successfully",
	})
}

func (h *Handler) UploadAssignmentAttachment(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "id")

	upload, file, ok := h.parseUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	assignment, err := h.assignmentService.UploadAttachment(r.Context(), models.AssignmentID(assignmentID), upload)
	if err != nil {
		h.handleAssignmentError(w, err)
		return
	}

	writeSuccess(w, assignment)
}

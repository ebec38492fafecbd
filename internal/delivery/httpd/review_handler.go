package httpd

import (
	"net/http"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	internID := chi.URLParam(r, "id")
	if !allowIntern(w, r, internID) {
		return
	}

	var req models.CreateSubmissionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	submission, err := h.submissionService.Submit(r.Context(), models.InternID(internID), &req)
	if err != nil {
		h.handleReviewError(w, err)
		return
	}

	writeCreated(w, submission)
}

func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	internID := chi.URLParam(r, "id")
	if !allowIntern(w, r, internID) {
		return
	}

	submissions, err := h.submissionService.ListByIntern(r.Context(), models.InternID(internID))
	if err != nil {
		h.handleReviewError(w, err)
		return
	}

	writeSuccess(w, submissions)
}

func (h *Handler) ReviewSubmission(w http.ResponseWriter, r *http.Request) {
	submissionID := chi.URLParam(r, "id")

	var req models.ReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	submission, err := h.submissionService.Review(r.Context(), actorFrom(r), models.SubmissionID(submissionID), &req)
	if err != nil {
		h.handleReviewError(w, err)
		return
	}

	writeSuccess(w, submission)
}

func (h *Handler) RecordGrade(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGradeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	grade, err := h.gradeService.RecordGrade(r.Context(), actorFrom(r), &req)
	if err != nil {
		h.handleReviewError(w, err)
		return
	}

	writeCreated(w, grade)
}

func (h *Handler) ListGrades(w http.ResponseWriter, r *http.Request) {
	internID := chi.URLParam(r, "id")
	if !allowIntern(w, r, internID) {
		return
	}

	grades, err := h.gradeService.ListByIntern(r.Context(), models.InternID(internID))
	if err != nil {
		h.handleReviewError(w, err)
		return
	}

	writeSuccess(w, grades)
}

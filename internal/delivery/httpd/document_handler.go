package httpd

import (
	"net/http"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/go-chi/chi/v5"
)

// UploadDocument принимает отчет интерна: multipart с полем file и полями title,
// assignment_id, project_id. Админ может загрузить отчет за интерна (intern_id).
func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	if actor.IsSupervisor() {
		writeError(w, http.StatusForbidden, "Access denied")
		return
	}

	upload, file, ok := h.parseUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	internID := r.FormValue("intern_id")
	if actor.IsIntern() {
		internID = actor.ID
	}

	req := &models.UploadDocumentRequest{
		InternID:     internID,
		AssignmentID: r.FormValue("assignment_id"),
		ProjectID:    r.FormValue("project_id"),
		Title:        r.FormValue("title"),
		File:         upload,
	}

	doc, err := h.documentService.UploadReport(r.Context(), req)
	if err != nil {
		h.handleReviewError(w, err)
		return
	}

	writeCreated(w, doc)
}

func (h *Handler) ListInternDocuments(w http.ResponseWriter, r *http.Request) {
	internID := chi.URLParam(r, "id")
	if !allowIntern(w, r, internID) {
		return
	}

	docs, err := h.documentService.ListReportsByIntern(r.Context(), models.InternID(internID))
	if err != nil {
		h.handleReviewError(w, err)
		return
	}

	writeSuccess(w, docs)
}

func (h *Handler) ListPendingDocuments(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	supervisorID := models.SupervisorID(r.URL.Query().Get("supervisor_id"))
	if actor.IsSupervisor() {
		supervisorID = models.SupervisorID(actor.ID)
	}
	if supervisorID == "" {
		writeError(w, http.StatusBadRequest, "supervisor_id is required")
		return
	}

	docs, err := h.documentService.ListPending(r.Context(), supervisorID)
	if err != nil {
		h.handleReviewError(w, err)
		return
	}

	writeSuccess(w, docs)
}

func (h *Handler) ReviewDocument(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "id")

	var req models.ReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	doc, err := h.documentService.ReviewReport(r.Context(), actorFrom(r), models.DocumentID(documentID), &req)
	if err != nil {
		h.handleReviewError(w, err)
		return
	}

	writeSuccess(w, doc)
}

// ShareDocument: multipart с полями title, target_audience, target_ids (повторяемое),
// supervisor_id (только для админа).
func (h *Handler) ShareDocument(w http.ResponseWriter, r *http.Request) {
	upload, file, ok := h.parseUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	req := &models.ShareDocumentRequest{
		SupervisorID:   r.FormValue("supervisor_id"),
		Title:          r.FormValue("title"),
		TargetAudience: r.FormValue("target_audience"),
		TargetIDs:      r.MultipartForm.Value["target_ids"],
		File:           upload,
	}

	doc, err := h.documentService.ShareDocument(r.Context(), actorFrom(r), req)
	if err != nil {
		h.handleReviewError(w, err)
		return
	}

	writeCreated(w, doc)
}

func (h *Handler) ListSharedDocuments(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)

	var (
		docs []models.SupervisorDocument
		err  error
	)
	switch {
	case actor.IsIntern():
		docs, err = h.documentService.ListSharedForIntern(r.Context(), models.InternID(actor.ID))
	case actor.IsSupervisor():
		docs, err = h.documentService.ListShared(r.Context(), models.SupervisorID(actor.ID))
	default:
		docs, err = h.documentService.ListShared(r.Context(), models.SupervisorID(r.URL.Query().Get("supervisor_id")))
	}
	if err != nil {
		h.handleReviewError(w, err)
		return
	}

	writeSuccess(w, docs)
}

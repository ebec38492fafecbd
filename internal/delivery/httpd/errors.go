package httpd

import (
	"errors"
	"net/http"

	"github.com/RubachokBoss/internhub/internal/models"
)

// handleServiceError — общая часть разбора ошибок сервисов.
func (h *Handler) handleServiceError(w http.ResponseWriter, err error, area string) {
	var verr *models.ValidationError

	switch {
	case errors.As(err, &verr):
		writeValidationError(w, verr)
	case errors.Is(err, models.ErrInternNotFound),
		errors.Is(err, models.ErrSupervisorNotFound),
		errors.Is(err, models.ErrGroupNotFound),
		errors.Is(err, models.ErrAssignmentNotFound),
		errors.Is(err, models.ErrProjectNotFound),
		errors.Is(err, models.ErrSubmissionNotFound),
		errors.Is(err, models.ErrDocumentNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, models.ErrInvalidAudience),
		errors.Is(err, models.ErrTargetsRequired),
		errors.Is(err, models.ErrEmptyInternIDList):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrStorageDisabled):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.Error().Err(err).Msg(area + " error")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *Handler) handleInternError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInternExists):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.handleServiceError(w, err, "Intern service")
	}
}

func (h *Handler) handleGroupError(w http.ResponseWriter, err error) {
	h.handleServiceError(w, err, "Group service")
}

func (h *Handler) handleAssignmentError(w http.ResponseWriter, err error) {
	h.handleServiceError(w, err, "Assignment service")
}

func (h *Handler) handleProjectError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrProjectCompleted):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.handleServiceError(w, err, "Project service")
	}
}

func (h *Handler) handleReviewError(w http.ResponseWriter, err error) {
	h.handleServiceError(w, err, "Review service")
}

func (h *Handler) handleDashboardError(w http.ResponseWriter, err error) {
	h.handleServiceError(w, err, "Dashboard service")
}

package models

import (
	"errors"
	"strings"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrInternNotFound     = errors.New("intern not found")
	ErrSupervisorNotFound = errors.New("supervisor not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrProjectNotFound    = errors.New("project not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrDocumentNotFound   = errors.New("document not found")

	ErrInternExists      = errors.New("intern with this uid already exists")
	ErrForbidden         = errors.New("access denied")
	ErrUnauthorized      = errors.New("authentication required")
	ErrInvalidAudience   = errors.New("invalid target audience")
	ErrTargetsRequired   = errors.New("target ids are required for group and individual audiences")
	ErrProjectCompleted  = errors.New("project already completed")
	ErrStorageDisabled   = errors.New("file storage is not configured")
	ErrEmptyInternIDList = errors.New("intern ids must not be empty")
)

// FieldError описывает ошибку конкретного поля запроса.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError возвращается до любой записи в хранилище.
type ValidationError struct {
	Fields []FieldError
}

func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Error)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

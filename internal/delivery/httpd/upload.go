package httpd

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/RubachokBoss/internhub/internal/models"
)

const uploadField = "file"

// parseUpload разбирает multipart-форму. Вызывающий закрывает возвращенный файл.
func (h *Handler) parseUpload(w http.ResponseWriter, r *http.Request) (*models.FileUpload, multipart.File, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File is too large")
			return nil, nil, false
		}
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return nil, nil, false
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return nil, nil, false
	}

	upload := &models.FileUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
	return upload, file, true
}

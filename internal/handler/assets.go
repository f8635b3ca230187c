package handler

import (
	"net/http"

	"filter-studio/internal/validation"

	"go.uber.org/zap"
)

// UploadAsset stores an image the admin wants to place on the canvas.
func (h *EditorHandler) UploadAsset(w http.ResponseWriter, r *http.Request) {

	if h.requireAdmin(w, r) == nil {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, validation.MaxFileSize+1<<20)
	if err := r.ParseMultipartForm(validation.MaxFileSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid file")
		return
	}
	defer file.Close()

	contentType, err := validation.ValidateUpload(header)
	if err != nil {
		h.fail(w, err)
		return
	}

	fileURL, err := h.Storage.Upload(r.Context(), file, header.Filename, contentType)
	if err != nil {
		h.Log.Error("asset upload failed", zap.String("filename", header.Filename), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "File save failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"file_url": fileURL})
}

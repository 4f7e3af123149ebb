package http

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"openshelf-backend/internal/storage"
)

// ImageHandler serves cover images saved by the local storage backend.
type ImageHandler struct {
	store storage.Storage
}

func NewImageHandler(store storage.Storage) *ImageHandler {
	return &ImageHandler{store: store}
}

func (h *ImageHandler) Download(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if key == "" {
		writeBadRequest(w, "missing image key")
		return
	}

	file, err := h.store.Open(r.Context(), key)
	if err != nil {
		http.Error(w, "image not found", http.StatusNotFound)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", imageContentType(key))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = io.Copy(w, file)
}

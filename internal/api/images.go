package api

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/starford/rasoi/internal/imagestore"
)

// ImageHandler serves stored recipe images.
type ImageHandler struct {
	images *imagestore.Store
}

// NewImageHandler creates a handler over the image store.
func NewImageHandler(images *imagestore.Store) *ImageHandler {
	return &ImageHandler{images: images}
}

// ServeFile handles GET /images/{filename}.
func (h *ImageHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	abs, err := h.images.Path(filename)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, statErr := os.Stat(abs); os.IsNotExist(statErr) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}

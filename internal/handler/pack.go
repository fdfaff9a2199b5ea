package handler

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/content365/content365/internal/storage"
	"github.com/content365/content365/internal/validation"
)

type packHandler struct {
	store storage.Storage
}

func NewPackHandler(store storage.Storage) *packHandler {
	return &packHandler{store: store}
}

// Download serves a generated PDF as an attachment.
func (h *packHandler) Download(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "attachment")
}

// Preview serves a generated PDF inline so browsers render it.
func (h *packHandler) Preview(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "inline")
}

func (h *packHandler) serve(w http.ResponseWriter, r *http.Request, disposition string) {
	filename := r.PathValue("file")
	if err := validation.ValidatePackFilename(filename); err != nil {
		http.NotFound(w, r)
		return
	}

	file, err := h.store.Open(r.Context(), filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		slog.Error("failed to open pack file", "filename", filename, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`%s; filename="%s"`, disposition, filename))
	if _, err := io.Copy(w, file); err != nil {
		slog.Warn("pack file transfer interrupted", "filename", filename, "error", err)
	}
}

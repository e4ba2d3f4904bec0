package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	s3infra "github.com/kgpnow-api/internal/infrastructure/s3"
)

type objectReader interface {
	Download(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// UploadHandler streams stored posters from object storage under /uploads/*.
type UploadHandler struct {
	objects objectReader
	logger  *slog.Logger
}

func NewUploadHandler(objects objectReader, logger *slog.Logger) *UploadHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadHandler{objects: objects, logger: logger}
}

func (h *UploadHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if key == "" || strings.Contains(key, "..") {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}
	rc, contentType, err := h.objects.Download(r.Context(), key)
	if errors.Is(err, s3infra.ErrObjectNotFound) {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "download upload", "key", key, "err", err)
		writeError(w, http.StatusInternalServerError, "Error fetching file")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.WarnContext(r.Context(), "stream upload", "key", key, "err", err)
	}
}

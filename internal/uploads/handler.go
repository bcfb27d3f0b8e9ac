package uploads

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shelfspace/shelfspace/internal/platform/httpx"
	"github.com/shelfspace/shelfspace/internal/shared"
)

// Covers are small; 5 MiB covers every camera export seen in practice.
const maxUploadSize = 5 << 20

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// Handler exposes the image upload endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the upload route; callers mount it behind the guard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.handleUpload)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if _, ok := shared.UserIDFromContext(r.Context()); !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("image")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "image file required")
		return
	}
	defer func() { _ = file.Close() }()

	contentType := header.Header.Get("Content-Type")
	if !allowedTypes[contentType] {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unsupported image type")
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "image exceeds size limit")
		return
	}

	url, err := h.service.Upload(r.Context(), data, header.Filename, contentType)
	if err != nil {
		h.logger.Error("upload image", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{"url": url})
}

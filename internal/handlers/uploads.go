package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/loomhaven/api/internal/platform/httpx"
	"github.com/loomhaven/api/internal/services"
)

const maxUploadSize = 32 << 20

// UploadService is the object-storage surface the handlers need.
type UploadService interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (*services.UploadResult, error)
}

// UploadHandlers exposes the staff-only file upload endpoint.
type UploadHandlers struct {
	uploads UploadService
	staff   func(http.Handler) http.Handler
}

func NewUploadHandlers(uploads UploadService, staff func(http.Handler) http.Handler) *UploadHandlers {
	return &UploadHandlers{uploads: uploads, staff: staff}
}

// Routes registers the /uploads endpoints.
func (h *UploadHandlers) Routes(r chi.Router) {
	if h.staff != nil {
		r.Use(h.staff)
	}
	r.Post("/", h.upload)
}

func (h *UploadHandlers) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		httpx.BadRequest(w, r, "invalid multipart payload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.BadRequest(w, r, "file field is required")
		return
	}
	defer file.Close()

	result, err := h.uploads.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		if isInvalidInput(err) {
			httpx.BadRequest(w, r, err.Error())
			return
		}
		httpx.WriteError(w, r, http.StatusBadGateway, "storage_error", err.Error())
		return
	}
	writeJSONResponse(w, http.StatusCreated, result)
}

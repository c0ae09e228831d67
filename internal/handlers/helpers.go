package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/loomhaven/api/internal/platform/httpx"
	"github.com/loomhaven/api/internal/repositories"
	"github.com/loomhaven/api/internal/services"
)

const defaultMaxBodySize = 256 * 1024

var (
	errBodyTooLarge = errors.New("request body too large")
	errEmptyBody    = errors.New("request body is required")
)

func readLimitedBody(r *http.Request, limit int64) ([]byte, error) {
	if r == nil || r.Body == nil {
		return nil, errEmptyBody
	}
	if limit <= 0 {
		limit = defaultMaxBodySize
	}
	reader := io.LimitReader(r.Body, limit+1)
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errEmptyBody
	}
	if int64(len(data)) > limit {
		return nil, errBodyTooLarge
	}
	return data, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := readLimitedBody(r, defaultMaxBodySize)
	if err != nil {
		switch {
		case errors.Is(err, errEmptyBody):
			httpx.BadRequest(w, r, "request body is required")
		case errors.Is(err, errBodyTooLarge):
			httpx.WriteError(w, r, http.StatusRequestEntityTooLarge, "payload_too_large", "request body exceeds allowed size")
		default:
			httpx.BadRequest(w, r, err.Error())
		}
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		httpx.BadRequest(w, r, "invalid JSON payload")
		return false
	}
	return true
}

func writeJSONResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		httpx.BadRequest(w, r, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

var invalidInputSentinels = []error{
	services.ErrInvalidCategory,
	services.ErrInvalidProduct,
	services.ErrInvalidFilter,
	services.ErrInvalidDimension,
	services.ErrInvalidOrder,
	services.ErrInvalidReview,
	services.ErrInvalidCheckout,
	services.ErrInvalidUpload,
	services.ErrInvalidUser,
}

// writeServiceError maps service and repository failures onto the shared
// error envelope.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.WriteValidationError(w, r, "validation failed", verr.Fields)
	case errors.Is(err, services.ErrOrderForbidden):
		httpx.Forbidden(w, r, "access denied")
	case errors.Is(err, services.ErrBadCredentials):
		httpx.Unauthorized(w, r, "invalid credentials")
	case isInvalidInput(err):
		httpx.BadRequest(w, r, err.Error())
	case repositories.IsNotFound(err):
		httpx.NotFound(w, r, "resource not found")
	case repositories.IsConflict(err):
		httpx.Conflict(w, r, err.Error())
	case repositories.IsUnavailable(err):
		httpx.ServiceUnavailable(w, r, "storage unavailable")
	default:
		httpx.Internal(w, r)
	}
}

func isInvalidInput(err error) bool {
	for _, sentinel := range invalidInputSentinels {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

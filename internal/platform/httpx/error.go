package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// ErrorResponse is the JSON envelope every error reply uses.
type ErrorResponse struct {
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Status    int               `json:"status"`
	RequestID string            `json:"request_id,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// WriteError writes the standard error envelope with the given code and message.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeErrorResponse(w, r, ErrorResponse{Error: code, Message: message, Status: status})
}

// WriteValidationError writes a 400 envelope carrying per-field messages.
func WriteValidationError(w http.ResponseWriter, r *http.Request, message string, fields map[string]string) {
	writeErrorResponse(w, r, ErrorResponse{
		Error:   "invalid_request",
		Message: message,
		Status:  http.StatusBadRequest,
		Fields:  fields,
	})
}

// BadRequest writes a 400 envelope.
func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, r, http.StatusBadRequest, "invalid_request", message)
}

// Unauthorized writes a 401 envelope.
func Unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, r, http.StatusUnauthorized, "unauthorized", message)
}

// Forbidden writes a 403 envelope.
func Forbidden(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, r, http.StatusForbidden, "forbidden", message)
}

// NotFound writes a 404 envelope.
func NotFound(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, r, http.StatusNotFound, "not_found", message)
}

// Conflict writes a 409 envelope.
func Conflict(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, r, http.StatusConflict, "conflict", message)
}

// Internal writes a 500 envelope with a generic message.
func Internal(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, http.StatusInternalServerError, "internal", "internal server error")
}

// ServiceUnavailable writes a 503 envelope.
func ServiceUnavailable(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, r, http.StatusServiceUnavailable, "unavailable", message)
}

func writeErrorResponse(w http.ResponseWriter, r *http.Request, resp ErrorResponse) {
	if r != nil {
		resp.RequestID = middleware.GetReqID(r.Context())
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(resp.Status)
	_ = json.NewEncoder(w).Encode(resp)
}

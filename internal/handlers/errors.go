package handlers

import (
	"net/http"

	"galarie/internal/logging"
)

// Stable error codes carried in the error envelope. Clients branch on the
// code, not the message.
const (
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeResourceNotFound    = "RESOURCE_NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeInternalServerError = "INTERNAL_SERVER_ERROR"
	CodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
)

// ErrorBody is the inner error object of the envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorEnvelope is the JSON shape of every error response.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// NotFound is the router fallback for unknown paths, keeping the error
// envelope instead of mux's plain-text 404.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, CodeResourceNotFound, "no route matches the request path")
}

// MethodNotAllowed is the router fallback for a known path with the wrong
// method.
func (h *Handlers) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, CodeValidationFailed, "method not allowed for this path")
}

// writeError writes a structured error envelope with the given status code.
func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	if statusCode >= http.StatusInternalServerError {
		logging.Error("Request failed (%d %s): %s", statusCode, code, message)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, ErrorEnvelope{Error: ErrorBody{Code: code, Message: message}})
}

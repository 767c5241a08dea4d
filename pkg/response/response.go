// Package response holds the JSON writers shared by handlers and middleware,
// so every error leaves the API in the same {"error": ...} envelope.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is the envelope for every error answered by the API
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes data as a JSON response. A nil logger uses slog.Default.
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error envelope
func WriteError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	WriteJSON(w, status, ErrorResponse{Error: message}, logger)
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/storefront/pkg/response"
)

// ErrorResponse is the envelope for every error answered by the API
type ErrorResponse = response.ErrorResponse

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	response.WriteJSON(w, status, data, logger)
}

// WriteError writes an error response in JSON format
func WriteError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	response.WriteError(w, status, message, logger)
}

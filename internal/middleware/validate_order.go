package middleware

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/storefront/internal/validation"
	"github.com/Lixing-Zhang/storefront/pkg/response"
)

// MaxOrderBodyBytes bounds the size of an order request body
const MaxOrderBodyBytes = 1 << 20

// ValidateOrderBody rejects malformed order payloads with 400 and an
// {"error": ...} body. Accepted requests reach next with the original bytes.
func ValidateOrderBody(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxOrderBodyBytes))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					response.WriteError(w, http.StatusRequestEntityTooLarge, "Request body too large", logger)
					return
				}
				logger.Error("failed to read order body", "error", err)
				response.WriteError(w, http.StatusBadRequest, "Request body could not be read", logger)
				return
			}

			if v := validation.ValidateOrderJSON(data); v != nil {
				logger.Warn("order body rejected",
					"reason", v.Error(),
					"item_index", v.Index,
				)
				response.WriteError(w, http.StatusBadRequest, v.Error(), logger)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(data))
			r.ContentLength = int64(len(data))
			next.ServeHTTP(w, r)
		})
	}
}

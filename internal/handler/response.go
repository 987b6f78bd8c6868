package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/motorline/motorline-go/internal/repository"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// writeInternalError logs the real error and sends a generic message:
// either a retryable 503 for store timeouts or an opaque 500. Internal
// detail never reaches the caller.
func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repository.ErrStoreTimeout) {
		slog.Warn("store timeout", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse("temporarily unavailable, retry later"))
		return
	}
	slog.Error("request failed", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/garnizeh/careers/internal/slug"
	"github.com/garnizeh/careers/pkg/repository"
)

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

// writeDomainError maps repository and slug errors to HTTP statuses. Anything
// unrecognized is logged and answered with a generic message so storage
// details never reach the client.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, repository.ErrSlugTaken):
		http.Error(w, "slug already taken", http.StatusConflict)
	case errors.Is(err, repository.ErrDuplicateAccount):
		http.Error(w, "email already registered", http.StatusConflict)
	case errors.Is(err, slug.ErrInvalidFormat):
		http.Error(w, "invalid slug format", http.StatusBadRequest)
	default:
		logger.Error("request failed", slog.Any("err", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dastan2231/Social_Network/pkg/apperr"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError maps the error taxonomy onto HTTP status codes. Anything
// outside the taxonomy is a store or internal failure and becomes a 500.
func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, statusForError(err), map[string]string{"message": err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, apperr.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gatherly/gatherly/internal/rsvp"
)

func parseIDParam(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	return strconv.ParseInt(idStr, 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeCoreError maps the core error kinds onto HTTP statuses: validation
// 400, not found 404, survey closed 409, anything else (persistence) 500.
func writeCoreError(w http.ResponseWriter, err error) {
	var ve *rsvp.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Error()})
	case errors.Is(err, rsvp.ErrEventNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "event not found"})
	case errors.Is(err, rsvp.ErrSurveyClosed):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "survey closed"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

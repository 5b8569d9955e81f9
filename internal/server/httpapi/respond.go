package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/akarpov87/homehistory/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes v as a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a service error onto an HTTP status and the
// {"error": ...} envelope. Unrecognized errors become 500 with a
// generic message so internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	var status int
	msg := err.Error()

	switch {
	case errors.Is(err, common.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		status = http.StatusUnauthorized
	case errors.Is(err, common.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, common.ErrTransferFailed):
		// retryable; the message keeps the failure category
		status = http.StatusBadGateway
	case errors.Is(err, common.ErrPersistFailed):
		// retryable; the message keeps the failure category
		status = http.StatusInternalServerError
	default:
		status = http.StatusInternalServerError
		msg = "internal error"
	}

	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeBody decodes a JSON request body into dst. A malformed body is
// a bad request.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return common.ErrBadRequest
	}
	return nil
}

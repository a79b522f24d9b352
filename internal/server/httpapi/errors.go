package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/sharebox/internal/common"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{common.ErrorNotFound, http.StatusNotFound},
	{common.ErrAuthenticationRequired, http.StatusUnauthorized},
	{common.ErrForbidden, http.StatusForbidden},
	{common.ErrCredentialMismatch, http.StatusForbidden},
	{common.ErrInvalidVisibility, http.StatusBadRequest},
	{common.ErrInvalidCredential, http.StatusBadRequest},
	{common.ErrInvalidInput, http.StatusBadRequest},
	{common.ErrAlreadyExists, http.StatusConflict},
	{common.ErrorUnauthorized, http.StatusUnauthorized},
	{common.ErrInvalidToken, http.StatusUnauthorized},
	{common.ErrTokenExpired, http.StatusUnauthorized},
	{common.ErrRefreshTokenExpired, http.StatusUnauthorized},
	{common.ErrStorageUnavailable, http.StatusServiceUnavailable},
}

// statusFor maps a service error onto a status code and a message safe to
// show to the client.
func statusFor(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, "upload too large"
	}
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			if e.err == common.ErrInvalidInput {
				return e.status, err.Error()
			}
			return e.status, e.err.Error()
		}
	}
	return http.StatusInternalServerError, common.ErrorInternal.Error()
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	if common.IsRetryable(err) {
		w.Header().Set("Retry-After", "1")
	}
	writeMessage(w, status, msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

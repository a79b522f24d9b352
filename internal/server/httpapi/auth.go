package httpapi

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const subjectKey ctxKey = "subject"

// Subject returns the authenticated user id stored by requireAuth.
func Subject(ctx context.Context) string {
	v, _ := ctx.Value(subjectKey).(string)
	return v
}

// requireAuth admits requests carrying a valid "Bearer <token>"
// Authorization header. A missing header is 401, anything else that
// does not verify is 403.
func (h *handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeMessage(w, http.StatusUnauthorized, "token missing")
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			writeMessage(w, http.StatusForbidden, "invalid token")
			return
		}

		subject, err := h.users.Authenticate(strings.TrimSpace(token))
		if err != nil {
			h.logger.Debug(r.Context(), "token rejected", "error", err)
			writeMessage(w, http.StatusForbidden, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), subjectKey, subject)))
	})
}

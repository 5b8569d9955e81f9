package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/akarpov87/homehistory/internal/common"
	"github.com/akarpov87/homehistory/internal/server/auth"
)

type ctxKey int

const principalKey ctxKey = iota

// principalID returns the authenticated user id stored by the auth
// middleware, or "" for unauthenticated requests.
func principalID(r *http.Request) string {
	id, _ := r.Context().Value(principalKey).(string)
	return id
}

// authMiddleware verifies the bearer token and stores the principal id
// in the request context. Requests without a valid token are rejected
// with 401 before reaching the handler.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthHeaderName)
		if !strings.HasPrefix(header, common.BearerPrefix) {
			writeError(w, common.ErrUnauthorized)
			return
		}
		token := strings.TrimPrefix(header, common.BearerPrefix)

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

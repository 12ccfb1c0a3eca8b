package http

import (
	"errors"
	"net/http"
	"strings"

	"canna-backoffice-requests/internal/logger"
	"canna-backoffice-requests/internal/security"
	"canna-backoffice-requests/internal/service"

	"github.com/gorilla/mux"
)

// AdminAuth rejects requests without a valid admin bearer token and tags the context with the actor.
func AdminAuth(tokens security.TokenManager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token", "")
				return
			}

			claims, err := tokens.ValidateAdminToken(token)
			if err != nil {
				status := http.StatusUnauthorized
				if errors.Is(err, security.ErrForbidden) || errors.Is(err, security.ErrWrongTokenType) {
					status = http.StatusForbidden
				}
				logger.Warn("Rejected admin request", "path", r.URL.Path, "error", err)
				writeError(w, status, err.Error(), "")
				return
			}

			actor := claims.Email
			if actor == "" {
				actor = claims.Subject
			}
			next.ServeHTTP(w, r.WithContext(service.WithActor(r.Context(), actor)))
		})
	}
}

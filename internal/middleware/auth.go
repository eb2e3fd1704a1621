package middleware

import (
	"net/http"
	"strings"

	"homeplate/internal/auth"
	"homeplate/internal/model"

	"github.com/rs/zerolog"
)

// Authenticate attaches the caller identity from a bearer token. Requests
// without an Authorization header pass through anonymously; a header with a
// bad token is rejected.
func Authenticate(verifier *auth.Verifier, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				logger.Warn().Str("path", r.URL.Path).Msg("unsupported authorization scheme")
				writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthenticated, "bearer token required")
				return
			}

			id, err := verifier.Parse(strings.TrimSpace(token))
			if err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("invalid bearer token")
				writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthenticated, "invalid bearer token")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

// RequireAuth rejects requests that carry no identity.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.FromContext(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthenticated, model.ErrUnauthenticated.Message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

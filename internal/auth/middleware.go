package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Identity is the resolved acting principal of a request: which user is
// calling and which organization scope every downstream operation must use.
// Handlers pass Identity.OrgID explicitly into services; nothing reads it
// from ambient state.
type Identity struct {
	UserID uuid.UUID
	OrgID  uuid.UUID
	Admin  bool
}

type contextKey int

const identityContextKey contextKey = iota

// IdentityFromContext extracts the authenticated identity from the request
// context. Returns nil for unauthenticated requests.
func IdentityFromContext(ctx context.Context) *Identity {
	identity, _ := ctx.Value(identityContextKey).(*Identity)
	return identity
}

// Middleware returns an HTTP middleware that verifies the bearer token,
// resolves the identity against the user store, and rejects the request
// with 401 when either step fails.
func (s *Service) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				log.Debug().Str("path", r.URL.Path).Msg("Missing Authorization header")
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			identity, err := s.ResolveIdentity(r.Context(), token)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("Token verification failed")
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken pulls the token out of the Authorization header.
// Returns "" when the header is missing or not a Bearer scheme.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}

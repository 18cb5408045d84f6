package server

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/go-gadget-server/internal/errors"
	"github.com/jrsteele09/go-gadget-server/token"
	"github.com/jrsteele09/go-gadget-server/users"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyUserID stores the authenticated user ID
	ContextKeyUserID ContextKey = "user_id"
	// ContextKeyIdentity stores the users.Identity taken from the access token
	ContextKeyIdentity ContextKey = "identity"
)

// RequireAuth is middleware that validates a Bearer access token
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeErrorBody(w, http.StatusUnauthorized, string(apperrors.KindUnauthorized), "No token")
				return
			}

			accessToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			identity, err := s.tokens.Validate(accessToken, token.UseAccess)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("access token rejected")
				writeErrorBody(w, http.StatusForbidden, string(apperrors.KindForbidden), "Forbidden")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, identity.ID)
			ctx = context.WithValue(ctx, ContextKeyIdentity, *identity)
			next(w, r.WithContext(ctx))
		}
	}
}

// IdentityFromContext returns the caller authenticated by RequireAuth.
func IdentityFromContext(ctx context.Context) (users.Identity, bool) {
	identity, ok := ctx.Value(ContextKeyIdentity).(users.Identity)
	return identity, ok
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/veltapay/custody/internal/domain"
	"github.com/veltapay/custody/internal/infrastructure/auth"
)

// Authenticator verifies bearer tokens and places the resulting actor in the
// request context. The identity provider owns the token; this layer only
// checks the signature and trusts the role claim.
type Authenticator struct {
	verifier *auth.Verifier
}

// NewAuthenticator creates a new Authenticator.
func NewAuthenticator(verifier *auth.Verifier) *Authenticator {
	return &Authenticator{verifier: verifier}
}

// Wrap wraps an http.Handler with token authentication.
func (a *Authenticator) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
			return
		}

		claims, err := a.verifier.Verify(parts[1])
		if err != nil {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		actor := &domain.Actor{
			ID:   claims.ActorID,
			Role: claims.Role,
		}

		next.ServeHTTP(w, r.WithContext(domain.WithActor(r.Context(), actor)))
	})
}

// RequireReviewer rejects actors that may not advance transfer or order
// status. Route-level guard; the use cases re-check on their own.
func RequireReviewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := domain.ActorFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !actor.Role.CanReview() {
			http.Error(w, "insufficient permissions", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// StaticActor injects a fixed actor into every request. Local development
// only, used when no token secret is configured.
func StaticActor(actor *domain.Actor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(domain.WithActor(r.Context(), actor)))
		})
	}
}

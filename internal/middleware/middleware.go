package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/pressroom/pressroom/internal/session"
	"github.com/pressroom/pressroom/internal/utils"
)

// IdentityResolver turns a session token into the authenticated identity.
// Implemented by auth.Service.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (utils.Identity, error)
}

// Session guards protected routes: it resolves the session_id cookie and
// injects the identity into the request context. Requests without a live
// session are sent to the login page, matching the HTML flow.
func Session(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("session_id")
			if err != nil {
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}

			identity, err := resolver.ResolveIdentity(r.Context(), cookie.Value)
			if errors.Is(err, session.ErrNoSession) {
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}
			if err != nil {
				log.Printf("resolving session: %v", err)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), utils.ContextIdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SecureHeaders sets defensive response headers on every page.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

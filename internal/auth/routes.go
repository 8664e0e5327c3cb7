package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes registers the auth endpoints on the root router. Logout is the
// only one behind the session middleware.
func (h *Handler) Routes(r chi.Router, requireSession func(http.Handler) http.Handler) {
	r.Get("/", h.LoginFormHandler)
	r.Post("/", h.LoginHandler)
	r.Get("/signup", h.SignupFormHandler)
	r.Post("/signup", h.SignupHandler)

	r.Group(func(r chi.Router) {
		r.Use(requireSession)
		r.Post("/logout", h.LogoutHandler)
	})
}

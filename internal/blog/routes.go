package blog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes registers the post endpoints on the root router, all behind the
// session middleware.
func (h *Handler) Routes(r chi.Router, requireSession func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(requireSession)
		r.Get("/home", h.HomeHandler)
		r.Get("/blog", h.ShowHandler)
		r.Get("/create_blog_post", h.CreateFormHandler)
		r.Post("/create_blog_post", h.CreateHandler)
		r.Get("/edit_blog_post/{id}", h.EditFormHandler)
		r.Post("/edit_blog_post/{id}", h.EditHandler)
		r.Get("/delete_blog_post/{id}", h.DeleteHandler)
	})
}

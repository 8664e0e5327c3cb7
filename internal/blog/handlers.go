package blog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pressroom/pressroom/internal/utils"
	"github.com/pressroom/pressroom/web"
)

// PostStore is the repository surface the handlers need. Satisfied by *Repo
// in production and by fakes in tests.
type PostStore interface {
	ListAll(ctx context.Context) ([]Post, error)
	Get(ctx context.Context, id int64) (Post, error)
	Create(ctx context.Context, authorID int64, title, content string) (Post, error)
	Update(ctx context.Context, id, actorID int64, title, content string) (Post, error)
	Delete(ctx context.Context, id, actorID int64) error
}

// Handler serves the post pages. Every route here sits behind the session
// middleware, so the request context always carries an identity.
type Handler struct {
	posts PostStore
	pages *web.Templates
}

func NewHandler(posts PostStore, pages *web.Templates) *Handler {
	return &Handler{posts: posts, pages: pages}
}

// redirectHome sends the caller back to /home, carrying msg in the error
// query parameter when non-empty.
func redirectHome(w http.ResponseWriter, r *http.Request, msg string) {
	target := "/home"
	if msg != "" {
		target += "?error=" + url.QueryEscape(msg)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) HomeHandler(w http.ResponseWriter, r *http.Request) {
	identity, _ := utils.GetIdentityFromContext(r.Context())

	posts, err := h.posts.ListAll(r.Context())
	if err != nil {
		log.Printf("listing posts: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.pages.Render(w, http.StatusOK, "home.html", map[string]any{
		"Name":  identity.Username,
		"Posts": posts,
		"Error": r.URL.Query().Get("error"),
	})
}

func (h *Handler) ShowHandler(w http.ResponseWriter, r *http.Request) {
	rawID := r.URL.Query().Get("id")
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		h.pages.Render(w, http.StatusNotFound, "blog.html", map[string]any{
			"Error": fmt.Sprintf("Blog ID %s not found", rawID),
		})
		return
	}

	post, err := h.posts.Get(r.Context(), id)
	if errors.Is(err, ErrPostNotFound) {
		h.pages.Render(w, http.StatusNotFound, "blog.html", map[string]any{
			"Error": fmt.Sprintf("Blog ID %d not found", id),
		})
		return
	}
	if err != nil {
		log.Printf("fetching post: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.pages.Render(w, http.StatusOK, "blog.html", map[string]any{"Post": post})
}

func (h *Handler) CreateFormHandler(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, http.StatusOK, "create_blog_post.html", map[string]any{
		"Title":   "",
		"Content": "",
	})
}

func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	identity, _ := utils.GetIdentityFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	title := r.PostFormValue("title")
	content := r.PostFormValue("content")

	_, err := h.posts.Create(r.Context(), identity.UserID, title, content)
	if errors.Is(err, ErrValidation) {
		h.pages.Render(w, http.StatusBadRequest, "create_blog_post.html", map[string]any{
			"Error":   "Please fill in both the title and content fields.",
			"Title":   title,
			"Content": content,
		})
		return
	}
	if err != nil {
		log.Printf("creating post: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	redirectHome(w, r, "")
}

// postID parses the {id} URL parameter.
func postID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// checkOwnership maps a repository error to the redirect flow shared by the
// edit and delete routes. Returns true when the request may proceed.
func (h *Handler) checkOwnership(w http.ResponseWriter, r *http.Request, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrPostNotFound):
		redirectHome(w, r, "The blog post does not exist")
	case errors.Is(err, ErrNotAuthor):
		redirectHome(w, r, "The logged in user is not the author of the blog post")
	default:
		log.Printf("post mutation: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
	return false
}

func (h *Handler) EditFormHandler(w http.ResponseWriter, r *http.Request) {
	identity, _ := utils.GetIdentityFromContext(r.Context())

	id, err := postID(r)
	if err != nil {
		redirectHome(w, r, "The blog post does not exist")
		return
	}

	post, err := h.posts.Get(r.Context(), id)
	if !h.checkOwnership(w, r, err) {
		return
	}
	if post.AuthorID != identity.UserID {
		redirectHome(w, r, "The logged in user is not the author of the blog post")
		return
	}

	h.pages.Render(w, http.StatusOK, "edit_blog_post.html", map[string]any{"Post": post})
}

func (h *Handler) EditHandler(w http.ResponseWriter, r *http.Request) {
	identity, _ := utils.GetIdentityFromContext(r.Context())

	id, err := postID(r)
	if err != nil {
		redirectHome(w, r, "The blog post does not exist")
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	_, err = h.posts.Update(r.Context(), id, identity.UserID, r.PostFormValue("title"), r.PostFormValue("content"))
	if !h.checkOwnership(w, r, err) {
		return
	}

	redirectHome(w, r, "")
}

func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	identity, _ := utils.GetIdentityFromContext(r.Context())

	id, err := postID(r)
	if err != nil {
		redirectHome(w, r, "The blog post does not exist")
		return
	}

	if !h.checkOwnership(w, r, h.posts.Delete(r.Context(), id, identity.UserID)) {
		return
	}

	redirectHome(w, r, "")
}

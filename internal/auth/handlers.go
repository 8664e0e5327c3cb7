package auth

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/pressroom/pressroom/web"
)

const sessionCookieName = "session_id"

// CredentialService is the verifier surface the handlers need. Satisfied by
// *Service in production and by fakes in tests.
type CredentialService interface {
	Authenticate(ctx context.Context, username, password string) (User, error)
	Register(ctx context.Context, username, password string) (User, error)
}

// SessionManager is the session store surface the handlers need.
type SessionManager interface {
	Create(ctx context.Context, username string) (string, error)
	Resolve(ctx context.Context, token string) (string, error)
	Destroy(ctx context.Context, token string) error
}

// Handler serves the login, signup, and logout flows.
type Handler struct {
	svc           CredentialService
	sessions      SessionManager
	pages         *web.Templates
	limiter       *LoginLimiter
	secureCookies bool
	cookieMaxAge  time.Duration
}

func NewHandler(svc CredentialService, sessions SessionManager, pages *web.Templates, limiter *LoginLimiter, secureCookies bool, cookieMaxAge time.Duration) *Handler {
	return &Handler{
		svc:           svc,
		sessions:      sessions,
		pages:         pages,
		limiter:       limiter,
		secureCookies: secureCookies,
		cookieMaxAge:  cookieMaxAge,
	}
}

// loggedIn reports whether the request carries a resolvable session cookie.
// Used to bounce already-authenticated users off the login and signup pages.
func (h *Handler) loggedIn(r *http.Request) bool {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return false
	}
	_, err = h.sessions.Resolve(r.Context(), cookie.Value)
	return err == nil
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookies,
		MaxAge:   int(h.cookieMaxAge.Seconds()),
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   sessionCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

func (h *Handler) LoginFormHandler(w http.ResponseWriter, r *http.Request) {
	if h.loggedIn(r) {
		http.Redirect(w, r, "/home", http.StatusFound)
		return
	}
	h.pages.Render(w, http.StatusOK, "login.html", nil)
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if h.loggedIn(r) {
		http.Redirect(w, r, "/home", http.StatusFound)
		return
	}

	if !h.limiter.Allow(clientIP(r)) {
		h.pages.Render(w, http.StatusTooManyRequests, "login.html", map[string]any{
			"Error": "Too many attempts, try again later",
		})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	user, err := h.svc.Authenticate(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if errors.Is(err, ErrInvalidCredentials) {
		h.pages.Render(w, http.StatusUnauthorized, "login.html", map[string]any{
			"Error": "Invalid username or password",
		})
		return
	}
	if err != nil {
		log.Printf("login: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	token, err := h.sessions.Create(r.Context(), user.Username)
	if err != nil {
		log.Printf("creating session: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.setSessionCookie(w, token)
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

func (h *Handler) SignupFormHandler(w http.ResponseWriter, r *http.Request) {
	if h.loggedIn(r) {
		http.Redirect(w, r, "/home", http.StatusFound)
		return
	}
	h.pages.Render(w, http.StatusOK, "signup.html", nil)
}

func (h *Handler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	if h.loggedIn(r) {
		http.Redirect(w, r, "/home", http.StatusFound)
		return
	}

	if !h.limiter.Allow(clientIP(r)) {
		h.pages.Render(w, http.StatusTooManyRequests, "signup.html", map[string]any{
			"Error": "Too many attempts, try again later",
		})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	user, err := h.svc.Register(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if errors.Is(err, ErrUsernameTaken) {
		h.pages.Render(w, http.StatusConflict, "signup.html", map[string]any{
			"Error": "Username already taken",
		})
		return
	}
	if errors.Is(err, ErrValidation) {
		h.pages.Render(w, http.StatusBadRequest, "signup.html", map[string]any{
			"Error": "Username and password are required",
		})
		return
	}
	if err != nil {
		log.Printf("signup: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	token, err := h.sessions.Create(r.Context(), user.Username)
	if err != nil {
		log.Printf("creating session: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.setSessionCookie(w, token)
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			log.Printf("destroying session: %v", err)
		}
	}

	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

package handler

import (
	"net/http"

	"github.com/yapress/yapress/internal/access"
	"github.com/yapress/yapress/internal/auth"
	"github.com/yapress/yapress/internal/middleware"
	"github.com/yapress/yapress/internal/render"
	"github.com/yapress/yapress/internal/service"
	"github.com/yapress/yapress/internal/session"
)

var signupFields = []string{"username", "password1", "password2"}

// AuthHandler serves sign-up, login and logout.
type AuthHandler struct {
	*Handler
	users    *service.UserService
	sessions session.Store
	cookie   middleware.SessionCookie
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(base *Handler, users *service.UserService, sessions session.Store, cookie middleware.SessionCookie) *AuthHandler {
	return &AuthHandler{
		Handler:  base,
		users:    users,
		sessions: sessions,
		cookie:   cookie,
	}
}

// Login handles GET and POST /auth/login/.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, render.PageLogin, render.Context{
			render.KeyForm: render.NewForm(nil),
			render.KeyNext: safeNext(r.URL.Query().Get("next"), ""),
		})
		return
	}

	if !h.parseForm(w, r) {
		return
	}
	form := render.FormFromValues(r.PostForm, "username")
	next := safeNext(r.PostForm.Get("next"), "")
	data := render.Context{
		render.KeyForm: form,
		render.KeyNext: next,
	}

	user, err := h.users.Authenticate(r.Context(), form.Value("username"), r.PostForm.Get("password"))
	if err != nil {
		h.handleServiceError(w, r, err, form, render.PageLogin, data)
		return
	}

	// Drop any session the browser already carried.
	if old := auth.SessionTokenFromContext(r.Context()); old != "" {
		_ = h.sessions.Delete(r.Context(), old)
	}

	token, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.cookie.Set(w, token)

	h.logger.Info("user_logged_in", "user_id", user.ID)
	redirect(w, r, safeNext(next, "/"))
}

// Signup handles GET and POST /auth/signup/.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, render.PageSignup, render.Context{
			render.KeyForm: render.NewForm(nil),
		})
		return
	}

	if !h.parseForm(w, r) {
		return
	}
	form := render.FormFromValues(r.PostForm, signupFields...)

	user, err := h.users.Signup(r.Context(), service.SignupInput{
		Username:  form.Value("username"),
		Password1: form.Value("password1"),
		Password2: form.Value("password2"),
	})
	// Passwords are never echoed back into the page.
	delete(form.Values, "password1")
	delete(form.Values, "password2")
	if err != nil {
		h.handleServiceError(w, r, err, form, render.PageSignup, render.Context{render.KeyForm: form})
		return
	}

	h.logger.Info("user_signed_up", "user_id", user.ID)
	redirect(w, r, access.LoginPath)
}

// Logout handles GET and POST /auth/logout/. Both end the session; GET
// confirms with a page, POST returns to the front page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := auth.SessionTokenFromContext(r.Context()); token != "" {
		if err := h.sessions.Delete(r.Context(), token); err != nil {
			h.serverError(w, r, err)
			return
		}
	}
	h.cookie.Clear(w)

	// The rest of this request is anonymous.
	ctx := auth.ContextWithIdentity(r.Context(), nil)
	r = r.WithContext(ctx)

	if r.Method == http.MethodPost {
		redirect(w, r, "/")
		return
	}
	h.render(w, r, http.StatusOK, render.PageLoggedOut, nil)
}

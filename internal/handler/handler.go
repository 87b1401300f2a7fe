// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/yapress/yapress/internal/access"
	"github.com/yapress/yapress/internal/auth"
	"github.com/yapress/yapress/internal/metrics"
	"github.com/yapress/yapress/internal/middleware"
	"github.com/yapress/yapress/internal/render"
	"github.com/yapress/yapress/internal/service"
	"github.com/yapress/yapress/internal/validate"
	"github.com/yapress/yapress/internal/wordfilter"
)

// Messages shown on form errors that do not come from the validator.
const (
	msgSlugExists       = " - такой slug уже существует, придумайте уникальное значение!"
	msgUsernameTaken    = "Пользователь с таким именем уже существует."
	msgBadCredentials   = "Введите правильные имя пользователя и пароль."
	msgNotFound         = "Страница не найдена."
	msgForbidden        = "Доступ запрещён."
	msgMethodNotAllowed = "Метод не поддерживается."
	msgInternal         = "Внутренняя ошибка сервера."
	msgBadForm          = "Не удалось прочитать форму."
)

// Handler holds what every page handler needs: the renderer, the logger
// and the metrics recorder.
type Handler struct {
	renderer render.Renderer
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// New creates a new Handler instance.
func New(renderer render.Renderer, logger *slog.Logger, recorder metrics.Recorder) *Handler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Handler{
		renderer: renderer,
		logger:   logger,
		metrics:  recorder,
	}
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.errorPage(w, r, http.StatusNotFound, msgNotFound)
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.errorPage(w, r, http.StatusMethodNotAllowed, msgMethodNotAllowed)
}

// InternalError handles 500 responses, including recovered panics.
func (h *Handler) InternalError(w http.ResponseWriter, r *http.Request) {
	h.errorPage(w, r, http.StatusInternalServerError, msgInternal)
}

func (h *Handler) errorPage(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.render(w, r, status, render.PageError, render.Context{
		render.KeyStatus:  status,
		render.KeyMessage: message,
	})
}

// render adds the acting user to data and writes the page.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data render.Context) {
	if data == nil {
		data = render.Context{}
	}
	data[render.KeyUser] = auth.IdentityFromContext(r.Context())

	if err := h.renderer.Render(w, r, status, page, data); err != nil {
		h.logger.Error("render_failed",
			"page", page,
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
	}
}

// guard runs the ownership check for res and writes the refusal response.
// It reports whether the handler may continue.
func (h *Handler) guard(w http.ResponseWriter, r *http.Request, res access.Resource, action access.Action) bool {
	decision := access.Check(auth.IdentityFromContext(r.Context()), res, action)
	h.metrics.IncAccessDecision(decision.String())

	switch decision {
	case access.Allow:
		return true
	case access.RedirectLogin:
		http.Redirect(w, r, access.LoginURL(r.URL.RequestURI()), http.StatusFound)
	case access.Forbidden:
		h.errorPage(w, r, http.StatusForbidden, msgForbidden)
	default:
		h.NotFound(w, r)
	}
	return false
}

// serverError logs err and renders the 500 page.
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("internal_error",
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetRequestID(r.Context()),
	)
	h.InternalError(w, r)
}

// handleServiceError maps a failed submission onto form and re-renders
// page, which must already carry form in data. Errors that do not belong
// to a form get the 404 or 500 page instead.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, form *render.Form, page string, data render.Context) {
	if status, ok := bindFormError(err, form); ok {
		h.render(w, r, status, page, data)
		return
	}
	h.handleError(w, r, err)
}

// handleError answers errors that cannot be shown on a form.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrNotFound) {
		h.NotFound(w, r)
		return
	}
	h.serverError(w, r, err)
}

// bindFormError attaches err to the matching form field and returns the
// status of the re-rendered form. ok is false for errors that are not
// about the submitted values.
func bindFormError(err error, form *render.Form) (status int, ok bool) {
	var (
		fieldErr  *validate.FieldError
		bannedErr *wordfilter.BannedError
		slugErr   *service.SlugTakenError
	)

	switch {
	case errors.As(err, &fieldErr):
		form.SetError(fieldErr.Field, fieldErr.Message)
	case errors.As(err, &bannedErr):
		form.SetError("text", wordfilter.Warning)
		return http.StatusBadRequest, true
	case errors.As(err, &slugErr):
		form.SetError("slug", slugErr.Slug+msgSlugExists)
	case errors.Is(err, service.ErrSlugExists):
		form.SetError("slug", form.Value("slug")+msgSlugExists)
	case errors.Is(err, service.ErrUsernameTaken):
		form.SetError("username", msgUsernameTaken)
	case errors.Is(err, service.ErrInvalidCredentials):
		form.SetError(render.NonFieldKey, msgBadCredentials)
	default:
		return 0, false
	}
	return http.StatusOK, true
}

// parseForm reads a urlencoded body. A failure is answered with 400.
func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		h.logger.Warn("form_parse_failed",
			"error", err,
			"path", r.URL.Path,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errorPage(w, r, http.StatusRequestEntityTooLarge, msgBadForm)
			return false
		}
		h.errorPage(w, r, http.StatusBadRequest, msgBadForm)
		return false
	}
	return true
}

// redirect sends a 302 to target.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusFound)
}

// safeNext returns next when it is a path on this site, else fallback.
func safeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

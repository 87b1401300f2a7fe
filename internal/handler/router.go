package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/yapress/yapress/internal/metrics"
	"github.com/yapress/yapress/internal/middleware"
	"github.com/yapress/yapress/internal/render"
	"github.com/yapress/yapress/internal/service"
	"github.com/yapress/yapress/internal/session"
)

// RouterConfig carries everything the page router is built from.
type RouterConfig struct {
	Logger   *slog.Logger
	Renderer render.Renderer
	Metrics  metrics.Recorder

	Notes    *service.NoteService
	News     *service.NewsService
	Comments *service.CommentService
	Users    *service.UserService

	Sessions session.Store
	Cookie   middleware.SessionCookie

	Security  middleware.SecurityConfig
	RateLimit middleware.RateLimitConfig

	Health *HealthHandler
	// MetricsHandler is mounted at /metrics when set.
	MetricsHandler *MetricsHandler
}

// NewRouter builds the application's routes and middleware chain.
func NewRouter(cfg RouterConfig) *chi.Mux {
	base := New(cfg.Renderer, cfg.Logger, cfg.Metrics)
	notes := NewNoteHandler(base, cfg.Notes)
	news := NewNewsHandler(base, cfg.News, cfg.Comments)
	comments := NewCommentHandler(base, cfg.Comments, cfg.News)
	authHandler := NewAuthHandler(base, cfg.Users, cfg.Sessions, cfg.Cookie)

	rateLimit := cfg.RateLimit
	if rateLimit.Logger == nil {
		rateLimit.Logger = cfg.Logger
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger, base.InternalError))
	r.Use(middleware.Security(cfg.Security))
	r.Use(middleware.MaxBodySize(cfg.Security.MaxRequestBodySize))

	if cfg.Health != nil {
		r.Get("/healthz", cfg.Health.Healthz)
		r.Get("/readyz", cfg.Health.Readyz)
	}
	if cfg.MetricsHandler != nil {
		r.Get("/metrics", cfg.MetricsHandler.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(middleware.SessionConfig{
			Logger: cfg.Logger,
			Store:  cfg.Sessions,
			Users:  cfg.Users,
			Cookie: cfg.Cookie,
		}))

		r.Get("/", news.Home)

		r.Route("/news", func(r chi.Router) {
			getPost(r, "/add/", news.Create)
			r.Get("/{id}/", news.Detail)
			getPost(r, "/{id}/edit/", news.Edit)
			getPost(r, "/{id}/delete/", news.Delete)
			r.Post("/{id}/comment/", comments.Create)
		})

		r.Route("/comments", func(r chi.Router) {
			getPost(r, "/{id}/edit/", comments.Edit)
			getPost(r, "/{id}/delete/", comments.Delete)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", notes.List)
			getPost(r, "/add/", notes.Create)
			r.Get("/done/", notes.Done)
			r.Get("/{slug}/", notes.Detail)
			getPost(r, "/{slug}/edit/", notes.Edit)
			getPost(r, "/{slug}/delete/", notes.Delete)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimitAuth(rateLimit))
				getPost(r, "/login/", authHandler.Login)
				getPost(r, "/signup/", authHandler.Signup)
			})
			getPost(r, "/logout/", authHandler.Logout)
		})

		// Set from inside the group so error pages know the user.
		r.NotFound(base.NotFound)
		r.MethodNotAllowed(base.MethodNotAllowed)
	})

	return r
}

// getPost registers fn for both the form page and its submission.
func getPost(r chi.Router, pattern string, fn http.HandlerFunc) {
	r.Get(pattern, fn)
	r.Post(pattern, fn)
}

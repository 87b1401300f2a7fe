package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yapress/yapress/internal/auth"
	"github.com/yapress/yapress/internal/model"
	"github.com/yapress/yapress/internal/service"
	"github.com/yapress/yapress/internal/session"
)

// DefaultSessionCookieName is used when no cookie name is configured.
const DefaultSessionCookieName = "yapress_session"

// UserLookup resolves a session's user id to an account.
type UserLookup interface {
	Get(ctx context.Context, id string) (*model.User, error)
}

// SessionCookie writes and clears the session cookie.
type SessionCookie struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

func (c SessionCookie) name() string {
	if c.Name == "" {
		return DefaultSessionCookieName
	}
	return c.Name
}

// Set issues the cookie for token.
func (c SessionCookie) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name(),
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.TTL.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the cookie in the browser.
func (c SessionCookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionConfig holds the dependencies of the Session middleware.
type SessionConfig struct {
	Logger *slog.Logger
	Store  session.Store
	Users  UserLookup
	Cookie SessionCookie
}

// Session resolves the session cookie into an identity on the request
// context. Requests without a valid session continue as anonymous; a
// cookie naming an unknown session or a deleted user is cleared.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cfg.Cookie.name())
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			token := cookie.Value
			if !auth.ValidTokenFormat(token) {
				cfg.Cookie.Clear(w)
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			userID, err := cfg.Store.Get(ctx, token)
			if err != nil {
				if !errors.Is(err, session.ErrNotFound) {
					cfg.Logger.Error("session_lookup_failed",
						"error", err,
						"request_id", GetRequestID(ctx),
					)
					next.ServeHTTP(w, r)
					return
				}
				cfg.Cookie.Clear(w)
				next.ServeHTTP(w, r)
				return
			}

			user, err := cfg.Users.Get(ctx, userID)
			if err != nil {
				if errors.Is(err, service.ErrNotFound) {
					_ = cfg.Store.Delete(ctx, token)
					cfg.Cookie.Clear(w)
				} else {
					cfg.Logger.Error("session_user_lookup_failed",
						"error", err,
						"request_id", GetRequestID(ctx),
					)
				}
				next.ServeHTTP(w, r)
				return
			}

			setLogUser(ctx, user.ID)
			ctx = auth.ContextWithIdentity(ctx, &model.Identity{UserID: user.ID, Username: user.Username})
			ctx = auth.ContextWithSessionToken(ctx, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

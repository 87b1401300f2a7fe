package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/yapress/yapress/internal/events"
	"github.com/yapress/yapress/internal/metrics"
	"github.com/yapress/yapress/internal/middleware"
	"github.com/yapress/yapress/internal/model"
	"github.com/yapress/yapress/internal/render"
	"github.com/yapress/yapress/internal/repository/memory"
	"github.com/yapress/yapress/internal/service"
	"github.com/yapress/yapress/internal/session"
	"github.com/yapress/yapress/internal/testutil"
	"github.com/yapress/yapress/internal/wordfilter"
)

// testApp is the full router over in-memory dependencies.
type testApp struct {
	t        *testing.T
	router   *chi.Mux
	store    *memory.Store
	sessions *session.MemoryStore
	renderer *render.Recorder
	metrics  *metrics.InMemoryRecorder
	users    *service.UserService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	store := memory.New()
	sessions := session.NewMemoryStore(time.Hour)
	renderer := render.NewRecorder()
	rec := metrics.NewInMemory()
	pub := events.NewNoop()
	filter := wordfilter.MustNew(wordfilter.Rules{Words: append([]string{"prohibited"}, wordfilter.DefaultWords...)})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := service.NewUserService(store, rec)
	router := NewRouter(RouterConfig{
		Logger:   logger,
		Renderer: renderer,
		Metrics:  rec,
		Notes:    service.NewNoteService(store, pub, rec),
		News:     service.NewNewsService(store, pub, rec, service.DefaultNewsPageSize),
		Comments: service.NewCommentService(store, filter, pub, rec),
		Users:    users,
		Sessions: sessions,
		Cookie:   middleware.SessionCookie{TTL: time.Hour},
		Security: middleware.SecurityConfig{IsDevelopment: true, MaxRequestBodySize: 1 << 20},
		Health:   NewHealthHandler(store, nil),
	})

	return &testApp{
		t:        t,
		router:   router,
		store:    store,
		sessions: sessions,
		renderer: renderer,
		metrics:  rec,
		users:    users,
	}
}

// client is a signed-in (or anonymous, when cookie is nil) browser.
type client struct {
	app    *testApp
	user   *model.User
	cookie *http.Cookie
}

func (a *testApp) anonymous() *client {
	return &client{app: a}
}

// login stores a user directly and opens a session for it.
func (a *testApp) login(username string) *client {
	a.t.Helper()
	ctx := context.Background()

	user := testutil.NewTestUser(a.t, username)
	require.NoError(a.t, a.store.CreateUser(ctx, user))

	token, err := a.sessions.Create(ctx, user.ID)
	require.NoError(a.t, err)

	return &client{
		app:    a,
		user:   user,
		cookie: &http.Cookie{Name: middleware.DefaultSessionCookieName, Value: token},
	}
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(http.MethodGet, path, nil)
}

func (c *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, path, form)
}

func (c *client) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	c.app.renderer.Reset()
	rec := httptest.NewRecorder()
	c.app.router.ServeHTTP(rec, req)
	return rec
}

// lastPage returns the page rendered by the most recent request.
func (a *testApp) lastPage() render.Call {
	return a.renderer.Last()
}

func (a *testApp) seedNote(owner *model.User, slug string) *model.Note {
	a.t.Helper()
	note := testutil.NewTestNote(a.t, owner.ID, slug)
	require.NoError(a.t, a.store.CreateNote(context.Background(), note))
	return note
}

func (a *testApp) seedNews(owner *model.User) *model.NewsItem {
	a.t.Helper()
	item := testutil.NewTestNews(a.t, owner.ID)
	require.NoError(a.t, a.store.CreateNews(context.Background(), item))
	return item
}

func (a *testApp) seedComment(owner *model.User, newsID string) *model.Comment {
	a.t.Helper()
	comment := testutil.NewTestComment(a.t, owner.ID, newsID)
	require.NoError(a.t, a.store.CreateComment(context.Background(), comment))
	return comment
}

package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yapress/yapress/internal/access"
	"github.com/yapress/yapress/internal/auth"
	"github.com/yapress/yapress/internal/model"
	"github.com/yapress/yapress/internal/render"
	"github.com/yapress/yapress/internal/service"
)

var newsFields = []string{"title", "text"}

// NewsHandler serves the public news pages.
type NewsHandler struct {
	*Handler
	svc      *service.NewsService
	comments *service.CommentService
}

// NewNewsHandler creates a new NewsHandler.
func NewNewsHandler(base *Handler, svc *service.NewsService, comments *service.CommentService) *NewsHandler {
	return &NewsHandler{Handler: base, svc: svc, comments: comments}
}

// Home handles GET /.
func (h *NewsHandler) Home(w http.ResponseWriter, r *http.Request) {
	if !h.guard(w, r, nil, access.ActionViewPublic) {
		return
	}

	items, err := h.svc.List(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, render.PageHome, render.Context{
		render.KeyNewsList: items,
	})
}

// Detail handles GET /news/{id}/.
func (h *NewsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		h.serverError(w, r, err)
		return
	}

	if !h.guard(w, r, item, access.ActionViewPublic) {
		return
	}

	renderNewsDetail(h.Handler, h.comments, w, r, http.StatusOK, item, render.NewForm(nil))
}

// Create handles GET and POST /news/add/.
func (h *NewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.guard(w, r, nil, access.ActionAuthenticated) {
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, render.PageNewsForm, render.Context{
			render.KeyForm: render.NewForm(nil),
		})
		return
	}

	if !h.parseForm(w, r) {
		return
	}
	form := render.FormFromValues(r.PostForm, newsFields...)

	item, err := h.svc.Create(r.Context(), auth.UserIDFromContext(r.Context()), newsInput(form))
	if err != nil {
		h.handleServiceError(w, r, err, form, render.PageNewsForm, render.Context{render.KeyForm: form})
		return
	}

	h.logger.Info("news_created", "news_id", item.ID)
	redirect(w, r, newsPath(item.ID))
}

// Edit handles GET and POST /news/{id}/edit/.
func (h *NewsHandler) Edit(w http.ResponseWriter, r *http.Request) {
	item, ok := h.load(w, r)
	if !ok {
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, render.PageNewsForm, render.Context{
			render.KeyForm: render.NewForm(map[string]string{
				"title": item.Title,
				"text":  item.Text,
			}),
			render.KeyObject: item,
		})
		return
	}

	if !h.parseForm(w, r) {
		return
	}
	form := render.FormFromValues(r.PostForm, newsFields...)

	updated, err := h.svc.Update(r.Context(), auth.UserIDFromContext(r.Context()), item, newsInput(form))
	if err != nil {
		h.handleServiceError(w, r, err, form, render.PageNewsForm, render.Context{
			render.KeyForm:   form,
			render.KeyObject: item,
		})
		return
	}

	h.logger.Info("news_updated", "news_id", updated.ID)
	redirect(w, r, newsPath(updated.ID))
}

// Delete handles GET and POST /news/{id}/delete/.
func (h *NewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	item, ok := h.load(w, r)
	if !ok {
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, render.PageNewsDelete, render.Context{
			render.KeyObject: item,
		})
		return
	}

	if err := h.svc.Delete(r.Context(), auth.UserIDFromContext(r.Context()), item); err != nil {
		h.handleError(w, r, err)
		return
	}

	h.logger.Info("news_deleted", "news_id", item.ID)
	redirect(w, r, "/")
}

// load fetches the news item named in the URL and applies the owner check.
func (h *NewsHandler) load(w http.ResponseWriter, r *http.Request) (*model.NewsItem, bool) {
	item, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		h.serverError(w, r, err)
		return nil, false
	}

	if !h.guard(w, r, item, access.ActionOwner) {
		return nil, false
	}
	return item, true
}

// renderNewsDetail writes the news page with its comments. The comment
// form is only offered to signed-in readers.
func renderNewsDetail(h *Handler, comments *service.CommentService, w http.ResponseWriter, r *http.Request, status int, item *model.NewsItem, form *render.Form) {
	list, err := comments.ListByNews(r.Context(), item.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	data := render.Context{
		render.KeyObject:       item,
		render.KeyCommentsList: list,
	}
	if !auth.IdentityFromContext(r.Context()).IsAnonymous() {
		data[render.KeyCommentForm] = form
	}
	h.render(w, r, status, render.PageNewsDetail, data)
}

func newsPath(id string) string {
	return "/news/" + id + "/"
}

func newsInput(form *render.Form) service.NewsInput {
	return service.NewsInput{
		Title: form.Value("title"),
		Text:  form.Value("text"),
	}
}

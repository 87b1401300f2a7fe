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

// CommentHandler serves comment submission, editing and removal.
type CommentHandler struct {
	*Handler
	svc  *service.CommentService
	news *service.NewsService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(base *Handler, svc *service.CommentService, news *service.NewsService) *CommentHandler {
	return &CommentHandler{Handler: base, svc: svc, news: news}
}

// Create handles POST /news/{id}/comment/.
// A rejected comment re-renders the news page with the form errors.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	item, err := h.news.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		h.serverError(w, r, err)
		return
	}

	if !h.guard(w, r, item, access.ActionSubmit) {
		return
	}

	if !h.parseForm(w, r) {
		return
	}
	form := render.FormFromValues(r.PostForm, "text")

	comment, err := h.svc.Create(r.Context(), auth.UserIDFromContext(r.Context()), item.ID, form.Value("text"))
	if err != nil {
		status, ok := bindFormError(err, form)
		if !ok {
			h.handleError(w, r, err)
			return
		}
		renderNewsDetail(h.Handler, h.svc, w, r, status, item, form)
		return
	}

	h.logger.Info("comment_created", "comment_id", comment.ID, "news_id", item.ID)
	redirect(w, r, commentsAnchor(item.ID))
}

// Edit handles GET and POST /comments/{id}/edit/.
func (h *CommentHandler) Edit(w http.ResponseWriter, r *http.Request) {
	comment, ok := h.load(w, r)
	if !ok {
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, render.PageCommentForm, render.Context{
			render.KeyForm:   render.NewForm(map[string]string{"text": comment.Text}),
			render.KeyObject: comment,
		})
		return
	}

	if !h.parseForm(w, r) {
		return
	}
	form := render.FormFromValues(r.PostForm, "text")

	updated, err := h.svc.Update(r.Context(), auth.UserIDFromContext(r.Context()), comment, form.Value("text"))
	if err != nil {
		h.handleServiceError(w, r, err, form, render.PageCommentForm, render.Context{
			render.KeyForm:   form,
			render.KeyObject: comment,
		})
		return
	}

	h.logger.Info("comment_updated", "comment_id", updated.ID)
	redirect(w, r, commentsAnchor(updated.NewsID))
}

// Delete handles GET and POST /comments/{id}/delete/.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	comment, ok := h.load(w, r)
	if !ok {
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, render.PageCommentDelete, render.Context{
			render.KeyObject: comment,
		})
		return
	}

	if err := h.svc.Delete(r.Context(), auth.UserIDFromContext(r.Context()), comment); err != nil {
		h.handleError(w, r, err)
		return
	}

	h.logger.Info("comment_deleted", "comment_id", comment.ID)
	redirect(w, r, commentsAnchor(comment.NewsID))
}

// load fetches the comment named in the URL and applies the owner check.
func (h *CommentHandler) load(w http.ResponseWriter, r *http.Request) (*model.Comment, bool) {
	comment, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		h.serverError(w, r, err)
		return nil, false
	}

	if !h.guard(w, r, comment, access.ActionOwner) {
		return nil, false
	}
	return comment, true
}

func commentsAnchor(newsID string) string {
	return newsPath(newsID) + "#comments"
}

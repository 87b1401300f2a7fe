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

const notesDonePath = "/notes/done/"

var noteFields = []string{"title", "text", "slug"}

// NoteHandler serves the private notes pages.
type NoteHandler struct {
	*Handler
	svc *service.NoteService
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(base *Handler, svc *service.NoteService) *NoteHandler {
	return &NoteHandler{Handler: base, svc: svc}
}

// List handles GET /notes/.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.guard(w, r, nil, access.ActionAuthenticated) {
		return
	}

	notes, err := h.svc.List(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, render.PageNotesList, render.Context{
		render.KeyObjectList: notes,
	})
}

// Create handles GET and POST /notes/add/.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.guard(w, r, nil, access.ActionAuthenticated) {
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, render.PageNoteForm, render.Context{
			render.KeyForm: render.NewForm(nil),
		})
		return
	}

	if !h.parseForm(w, r) {
		return
	}
	form := render.FormFromValues(r.PostForm, noteFields...)

	note, err := h.svc.Create(r.Context(), auth.UserIDFromContext(r.Context()), noteInput(form))
	if err != nil {
		h.handleServiceError(w, r, err, form, render.PageNoteForm, render.Context{render.KeyForm: form})
		return
	}

	h.logger.Info("note_created", "note_id", note.ID, "slug", note.Slug)
	redirect(w, r, notesDonePath)
}

// Done handles GET /notes/done/.
func (h *NoteHandler) Done(w http.ResponseWriter, r *http.Request) {
	if !h.guard(w, r, nil, access.ActionAuthenticated) {
		return
	}
	h.render(w, r, http.StatusOK, render.PageNoteDone, nil)
}

// Detail handles GET /notes/{slug}/.
func (h *NoteHandler) Detail(w http.ResponseWriter, r *http.Request) {
	note, ok := h.load(w, r)
	if !ok {
		return
	}

	h.render(w, r, http.StatusOK, render.PageNoteDetail, render.Context{
		render.KeyObject: note,
	})
}

// Edit handles GET and POST /notes/{slug}/edit/.
func (h *NoteHandler) Edit(w http.ResponseWriter, r *http.Request) {
	note, ok := h.load(w, r)
	if !ok {
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, render.PageNoteForm, render.Context{
			render.KeyForm: render.NewForm(map[string]string{
				"title": note.Title,
				"text":  note.Text,
				"slug":  note.Slug,
			}),
			render.KeyObject: note,
		})
		return
	}

	if !h.parseForm(w, r) {
		return
	}
	form := render.FormFromValues(r.PostForm, noteFields...)

	updated, err := h.svc.Update(r.Context(), auth.UserIDFromContext(r.Context()), note, noteInput(form))
	if err != nil {
		h.handleServiceError(w, r, err, form, render.PageNoteForm, render.Context{
			render.KeyForm:   form,
			render.KeyObject: note,
		})
		return
	}

	h.logger.Info("note_updated", "note_id", updated.ID, "slug", updated.Slug)
	redirect(w, r, notesDonePath)
}

// Delete handles GET and POST /notes/{slug}/delete/.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	note, ok := h.load(w, r)
	if !ok {
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, render.PageNoteDelete, render.Context{
			render.KeyObject: note,
		})
		return
	}

	if err := h.svc.Delete(r.Context(), auth.UserIDFromContext(r.Context()), note); err != nil {
		h.handleError(w, r, err)
		return
	}

	h.logger.Info("note_deleted", "note_id", note.ID)
	redirect(w, r, notesDonePath)
}

// load fetches the note named in the URL and applies the owner check.
func (h *NoteHandler) load(w http.ResponseWriter, r *http.Request) (*model.Note, bool) {
	note, err := h.svc.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		h.serverError(w, r, err)
		return nil, false
	}

	if !h.guard(w, r, note, access.ActionOwner) {
		return nil, false
	}
	return note, true
}

func noteInput(form *render.Form) service.NoteInput {
	return service.NoteInput{
		Title: form.Value("title"),
		Text:  form.Value("text"),
		Slug:  form.Value("slug"),
	}
}

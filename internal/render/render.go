// Package render turns page names and context maps into responses.
package render

import (
	"net/http"
)

// Page names.
const (
	PageHome          = "home"
	PageNewsDetail    = "news_detail"
	PageNewsForm      = "news_form"
	PageNewsDelete    = "news_delete"
	PageCommentForm   = "comment_form"
	PageCommentDelete = "comment_delete"
	PageNotesList     = "notes_list"
	PageNoteForm      = "note_form"
	PageNoteDetail    = "note_detail"
	PageNoteDelete    = "note_delete"
	PageNoteDone      = "note_done"
	PageLogin         = "login"
	PageSignup        = "signup"
	PageLoggedOut     = "logged_out"
	PageError         = "error"
)

// Context keys shared by handlers and templates.
const (
	KeyUser         = "user"
	KeyForm         = "form"
	KeyObject       = "object"
	KeyObjectList   = "object_list"
	KeyNewsList     = "news_list"
	KeyCommentsList = "comments_list"
	KeyCommentForm  = "comment_form"
	KeyNext         = "next"
	KeyStatus       = "status"
	KeyMessage      = "message"
)

// Context is the data handed to a page.
type Context map[string]any

// Renderer writes a named page with the given status.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, page string, data Context) error
}

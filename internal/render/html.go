package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/yapress/yapress/internal/model"
)

//go:embed templates
var templateFS embed.FS

// HTML renders embedded html/template pages inside a shared layout.
type HTML struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"owns": func(identity *model.Identity, ownerID string) bool {
		return identity.Owns(ownerID)
	},
	"date": func(t time.Time) string {
		return t.Format("02.01.2006 15:04")
	},
}

// NewHTML parses the embedded templates.
func NewHTML() (*HTML, error) {
	base, err := template.New("base").Funcs(funcs).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".html")

		layout, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout: %w", err)
		}
		page, err := layout.ParseFS(templateFS, file)
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = page
	}

	return &HTML{pages: pages}, nil
}

// Render executes page into a buffer and writes it with status.
func (h *HTML) Render(w http.ResponseWriter, r *http.Request, status int, page string, data Context) error {
	tmpl, ok := h.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Has reports whether a page exists.
func (h *HTML) Has(page string) bool {
	_, ok := h.pages[page]
	return ok
}

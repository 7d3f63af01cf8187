// Package view renders the HTML pages of the browser-facing routes.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates
var templates embed.FS

// Page names accepted by Render.
const (
	PageIndex     = "index"
	PageAdd       = "users/add"
	PageLogin     = "users/login"
	PageDashboard = "users/dashboard"
)

// pageLayouts maps each page to the layout that wraps it.
var pageLayouts = map[string]string{
	PageIndex:     "main",
	PageAdd:       "main",
	PageLogin:     "main",
	PageDashboard: "system",
}

// Renderer implements echo.Renderer over html/template.
type Renderer struct {
	pages map[string]*template.Template
}

var _ echo.Renderer = (*Renderer)(nil)

// NewRenderer parses every page together with its layout.
func NewRenderer() (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageLayouts))
	for page, layout := range pageLayouts {
		t, err := template.ParseFS(templates,
			"templates/layouts/"+layout+".html",
			"templates/"+page+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", page, err)
		}
		pages[page] = t
	}
	return &Renderer{pages: pages}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

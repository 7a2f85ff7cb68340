// Package render produces the HTML page and fragments served to browsers and
// pushed over the live update stream.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	dom "github.com/birlikkoshan/todo-live/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Todo renders the single-row fragment used for create and update events.
func (r *Renderer) Todo(t dom.Todo) (string, error) {
	b, err := r.execute("todo.html", t)
	return strings.TrimSpace(string(b)), err
}

// Todos renders the list fragment.
func (r *Renderer) Todos(list []dom.Todo) ([]byte, error) {
	return r.execute("todos.html", list)
}

func (r *Renderer) Index() ([]byte, error) {
	return r.execute("index.html", nil)
}

func (r *Renderer) execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Package templates bundles the site's template set and exposes it through
// the TemplateRenderer contract. Templates are compiled once at construction;
// content helpers (markdown, resource, splitCamelCase) are injected so the
// template layer stays decoupled from the rendering pipeline.
package templates

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"

	"github.com/goliatone/go-patternatlas/pkg/interfaces"
)

//go:embed files/*.tmpl
var files embed.FS

// Helpers are the template-callable functions the pages rely on. All three
// must be provided.
type Helpers struct {
	// Markdown renders a markdown field to an embeddable HTML fragment.
	Markdown func(string) (template.HTML, error)
	// Resource maps a resource locator to a local asset path.
	Resource func(string) string
	// SplitCamelCase turns a compound identifier into a readable phrase.
	SplitCamelCase func(string) string
}

// Engine renders the embedded template set.
type Engine struct {
	tmpl *template.Template
}

var _ interfaces.TemplateRenderer = (*Engine)(nil)

// New compiles the embedded templates with the supplied helpers.
func New(helpers Helpers) (*Engine, error) {
	if helpers.Markdown == nil || helpers.Resource == nil || helpers.SplitCamelCase == nil {
		return nil, errors.New("templates: all helpers are required")
	}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"markdown":       helpers.Markdown,
		"resource":       helpers.Resource,
		"splitCamelCase": helpers.SplitCamelCase,
	}).ParseFS(files, "files/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("templates: parse: %w", err)
	}

	return &Engine{tmpl: tmpl}, nil
}

// Render satisfies interfaces.TemplateRenderer. The name is the template
// file's base name without the .tmpl suffix.
func (e *Engine) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := e.tmpl.ExecuteTemplate(&buf, name+".tmpl", data); err != nil {
		return "", fmt.Errorf("templates: render %q: %w", name, err)
	}
	return buf.String(), nil
}

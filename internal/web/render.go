package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/index.html
var templateFS embed.FS

// pageData is what the index template renders.
type pageData struct {
	URL      string
	Error    string
	Brochure template.HTML
	Model    string
	Duration string
	RunID    string
}

// renderer turns brochure Markdown into HTML and executes the page template.
type renderer struct {
	tmpl     *template.Template
	markdown goldmark.Markdown
}

func newRenderer() (*renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	// Raw HTML in generated Markdown is not rendered (goldmark's default).
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	return &renderer{tmpl: tmpl, markdown: md}, nil
}

// markdownToHTML converts generated Markdown to HTML safe to embed.
func (r *renderer) markdownToHTML(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil //nolint:gosec // goldmark escapes raw HTML by default
}

func (r *renderer) page(w io.Writer, data pageData) error {
	return r.tmpl.Execute(w, data)
}

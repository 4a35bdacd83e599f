// Package markdown renders ticket descriptions to HTML.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Renderer converts GitHub flavored Markdown to HTML. Raw HTML in the
// source is omitted from the output. A Renderer is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// New creates a Renderer with tables, task lists, strikethrough and
// autolinks enabled.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Render converts source to HTML.
func (r *Renderer) Render(source string) (string, error) {
	if source == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

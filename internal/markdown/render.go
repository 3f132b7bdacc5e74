// Package markdown turns README Markdown into HTML that is safe to embed in
// the preview page.
package markdown

import (
	"bytes"
	"html"
	"html/template"
	"log"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
		),
	)

	policy = newPolicy()
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code")
	p.AllowAttrs("type", "checked", "disabled").OnElements("input")
	return p
}

// Render converts source to sanitized HTML. GitHub-flavoured tables, task
// lists, strikethrough and autolinks are supported; single newlines become
// line breaks. Raw HTML in source is stripped.
func Render(source string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		log.Printf("markdown: render failed, showing source: %v", err)
		return Fallback(source)
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes()))
}

// Fallback shows source verbatim, escaped, in a preformatted block.
func Fallback(source string) template.HTML {
	return template.HTML("<pre>" + html.EscapeString(source) + "</pre>")
}

// Package markdown renders post markdown to sanitized HTML and exposes it as templ components.
package markdown

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.Linkify),
		goldmark.WithRendererOptions(gmhtml.WithXHTML()),
	)
	policy = newPostPolicy()
)

func newPostPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("figure", "figcaption")
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre", "span", "figure", "figcaption", "p")
	p.AllowAttrs("loading", "decoding").OnElements("img")
	p.RequireNoFollowOnFullyQualifiedLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// Markdown returns a templ.Component that renders src as sanitized HTML.
func Markdown(src string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return Render(w, src)
	})
}

// Render converts src to HTML, sanitizes it, and writes it to w.
func Render(w io.Writer, src string) error {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return err
	}
	_, err := policy.SanitizeReader(&buf).WriteTo(w)
	return err
}

// Inline renders a single line of markdown without the wrapping paragraph, for
// use inside headings, list items and quotes.
func Inline(src string) string {
	var buf bytes.Buffer
	if err := Render(&buf, strings.TrimSpace(src)); err != nil {
		return html.EscapeString(src)
	}
	out := strings.TrimSpace(buf.String())
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return out
}

// SafeURL returns raw when it is a site-relative path or an http(s)/mailto/tel URL,
// and "" otherwise. The result is not HTML-escaped.
func SafeURL(raw string) string {
	val := strings.TrimSpace(raw)
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "//") {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return val
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return val
	default:
		return ""
	}
}

// Package markdown converts article bodies to HTML and derives the bits of
// UI computed from them (table of contents, reading time).
package markdown

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Renderer wraps a configured goldmark instance. Raw HTML inside markdown
// is escaped by default, which keeps the output sanitized.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a Renderer with GFM, syntax highlighting and auto
// heading ids.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
	}
}

// Render converts markdown source to HTML.
func (r *Renderer) Render(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("markdown: convert: %w", err)
	}
	return buf.String(), nil
}

var tagRe = regexp.MustCompile(`<[^>]*>`)

// StripLeadingTitle removes the first <h1> element when its text equals
// the trimmed title. The article header renders the title separately, so
// keeping the body's copy would duplicate it.
func StripLeadingTitle(html, title string) string {
	open := strings.Index(html, "<h1")
	if open < 0 {
		return html
	}
	closeTag := strings.Index(html[open:], "</h1>")
	if closeTag < 0 {
		return html
	}
	closeTag += open
	gt := strings.Index(html[open:closeTag], ">")
	if gt < 0 {
		return html
	}
	inner := html[open+gt+1 : closeTag]
	text := strings.TrimSpace(tagRe.ReplaceAllString(inner, ""))
	if text != strings.TrimSpace(title) {
		return html
	}
	return html[:open] + html[closeTag+len("</h1>"):]
}

var headingRe = regexp.MustCompile(`<h2 id="([^"]*)"[^>]*>(.*?)</h2>`)

// TOCEntry is one table-of-contents item derived from an <h2> heading.
type TOCEntry struct {
	ID   string
	Text string
}

// TOC lists the second-level headings of rendered HTML in document order.
// Articles with fewer than two sections get no table of contents.
func TOC(html string) []TOCEntry {
	matches := headingRe.FindAllStringSubmatch(html, -1)
	if len(matches) < 2 {
		return nil
	}
	out := make([]TOCEntry, 0, len(matches))
	for _, m := range matches {
		text := strings.TrimSpace(tagRe.ReplaceAllString(m[2], ""))
		out = append(out, TOCEntry{ID: m[1], Text: text})
	}
	return out
}

const wordsPerMinute = 200

// ReadingTime estimates minutes to read the given text, rounded up. Empty
// text yields 0, which callers omit from display.
func ReadingTime(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

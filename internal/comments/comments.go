// Package comments builds giscus embed snippets for article and puzzle
// discussion threads.
package comments

import (
	"fmt"
	"html"
	"strings"
)

// Binder holds the forum coordinates shared by every thread on the site.
type Binder struct {
	Repo       string
	RepoID     string
	Category   string
	CategoryID string
	Theme      string
	Lang       string
}

// NewBinder creates a Binder. Empty theme and lang fall back to the
// widget defaults used across the site.
func NewBinder(repo, repoID, category, categoryID, theme, lang string) *Binder {
	if theme == "" {
		theme = "preferred_color_scheme"
	}
	if lang == "" {
		lang = "es"
	}
	return &Binder{
		Repo:       repo,
		RepoID:     repoID,
		Category:   category,
		CategoryID: categoryID,
		Theme:      theme,
		Lang:       lang,
	}
}

// ThreadID derives a stable discussion term from a source filename.
// Each non-alphanumeric character becomes a dash and case is preserved,
// so "My Article (v2).md" maps to "My-Article--v2--md". Existing threads
// are keyed this way; changing the mapping would orphan them.
func ThreadID(filename string) string {
	var b strings.Builder
	for _, r := range filename {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

// Embed renders the script tag binding a container to the thread term.
// When term is empty the widget falls back to pathname mapping, which
// ties the thread to the page URL instead of the content file.
func (b *Binder) Embed(term string) string {
	var sb strings.Builder
	sb.WriteString(`<script src="https://giscus.app/client.js"`)
	attr := func(k, v string) {
		fmt.Fprintf(&sb, "\n        %s=%q", k, html.EscapeString(v))
	}
	attr("data-repo", b.Repo)
	attr("data-repo-id", b.RepoID)
	attr("data-category", b.Category)
	attr("data-category-id", b.CategoryID)
	if term != "" {
		attr("data-mapping", "specific")
		attr("data-term", term)
	} else {
		attr("data-mapping", "pathname")
	}
	attr("data-strict", "0")
	attr("data-reactions-enabled", "1")
	attr("data-emit-metadata", "0")
	attr("data-input-position", "bottom")
	attr("data-theme", b.Theme)
	attr("data-lang", b.Lang)
	sb.WriteString("\n        crossorigin=\"anonymous\"\n        async>\n</script>")
	return sb.String()
}

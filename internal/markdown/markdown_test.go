package markdown

import (
	"strings"
	"testing"
)

func TestRender_Basic(t *testing.T) {
	r := NewRenderer()
	html, err := r.Render([]byte("# Title\n\nSome **bold** text.\n"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("unexpected html: %s", html)
	}
}

func TestRender_EscapesRawHTML(t *testing.T) {
	r := NewRenderer()
	html, err := r.Render([]byte("hello <script>alert(1)</script>\n"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("raw html not escaped: %s", html)
	}
}

func TestStripLeadingTitle_MatchRemoved(t *testing.T) {
	r := NewRenderer()
	html, _ := r.Render([]byte("# My Article\n\nBody text.\n"))
	stripped := StripLeadingTitle(html, "My Article")
	if strings.Contains(stripped, "<h1") {
		t.Errorf("h1 should be removed: %s", stripped)
	}
	if !strings.Contains(stripped, "Body text.") {
		t.Errorf("body lost: %s", stripped)
	}
}

func TestStripLeadingTitle_MatchTrimsWhitespace(t *testing.T) {
	r := NewRenderer()
	html, _ := r.Render([]byte("# My Article\n\nBody.\n"))
	stripped := StripLeadingTitle(html, "  My Article  ")
	if strings.Contains(stripped, "<h1") {
		t.Errorf("trimmed titles should still match: %s", stripped)
	}
}

func TestStripLeadingTitle_NoMatchPreserved(t *testing.T) {
	r := NewRenderer()
	html, _ := r.Render([]byte("# Different Heading\n\nBody.\n"))
	stripped := StripLeadingTitle(html, "My Article")
	if !strings.Contains(stripped, "Different Heading") {
		t.Errorf("non-matching h1 must be preserved verbatim: %s", stripped)
	}
}

func TestStripLeadingTitle_NoHeading(t *testing.T) {
	if got := StripLeadingTitle("<p>plain</p>", "X"); got != "<p>plain</p>" {
		t.Errorf("got %q", got)
	}
}

func TestTOC_TwoOrMoreSections(t *testing.T) {
	r := NewRenderer()
	html, _ := r.Render([]byte("# T\n\n## First Part\n\ntext\n\n## Second Part\n\ntext\n"))
	toc := TOC(html)
	if len(toc) != 2 {
		t.Fatalf("len(toc) = %d, want 2", len(toc))
	}
	if toc[0].Text != "First Part" || toc[0].ID == "" {
		t.Errorf("toc[0] = %+v", toc[0])
	}
	if toc[1].Text != "Second Part" {
		t.Errorf("toc[1] = %+v", toc[1])
	}
}

func TestTOC_SingleSectionOmitted(t *testing.T) {
	r := NewRenderer()
	html, _ := r.Render([]byte("# T\n\n## Only One\n\ntext\n"))
	if toc := TOC(html); toc != nil {
		t.Errorf("single heading should have no toc, got %v", toc)
	}
}

func TestReadingTime(t *testing.T) {
	if got := ReadingTime(""); got != 0 {
		t.Errorf("empty text = %d, want 0", got)
	}
	if got := ReadingTime("one two three"); got != 1 {
		t.Errorf("short text = %d, want 1", got)
	}
	long := strings.Repeat("word ", 401)
	if got := ReadingTime(long); got != 3 {
		t.Errorf("401 words = %d, want 3", got)
	}
}

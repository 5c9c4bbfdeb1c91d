// Package listing projects the article collection into sorted, filtered
// card views for the landing page and per-category featured sections.
package listing

import (
	"fmt"
	"html/template"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/kuruchy/raido/internal/category"
	"github.com/kuruchy/raido/internal/markdown"
	"github.com/kuruchy/raido/internal/models"
)

// DefaultFeaturedLimit is the card count for featured sections when the
// caller passes no explicit limit.
const DefaultFeaturedLimit = 3

const cardTemplate = `{{range .}}<a class="article-card" href="{{.Link}}">
  <div class="card-header"><i class="{{.Icon}}"></i><span class="card-category">{{.CategoryLabel}}</span></div>
  <h3 class="card-title">{{.Title}}</h3>
  <p class="card-description">{{.Description}}</p>
  <div class="card-meta">{{if .DateBadge}}<span class="card-date">{{.DateBadge}}</span>{{end}}{{if .ReadingTime}}<span class="card-reading-time">{{.ReadingTime}} min read</span>{{end}}</div>
</a>
{{end}}`

const (
	emptyPlaceholder   = `<div class="placeholder-card">No articles published yet. Check back soon.</div>`
	noMatchPlaceholder = `<div class="placeholder-card">No articles in this category yet.</div>`
)

type card struct {
	Link          template.URL
	Icon          string
	CategoryLabel string
	Title         string
	Description   string
	DateBadge     string
	ReadingTime   int
}

// Renderer turns metadata snapshots into card list HTML. Now is
// injectable so relative date badges are testable.
type Renderer struct {
	tmpl *template.Template
	now  func() time.Time
}

func NewRenderer() *Renderer {
	return &Renderer{
		tmpl: template.Must(template.New("cards").Parse(cardTemplate)),
		now:  time.Now,
	}
}

// Eligible keeps only articles explicitly marked ready.
func Eligible(articles []models.ArticleMetadata) []models.ArticleMetadata {
	out := make([]models.ArticleMetadata, 0, len(articles))
	for _, a := range articles {
		if a.Ready {
			out = append(out, a)
		}
	}
	return out
}

// SortByRecency orders articles newest first by their effective date,
// compared as strings. Dates must be ISO-8601-like for this to equal
// chronological order; that constraint is on the metadata author.
func SortByRecency(articles []models.ArticleMetadata) []models.ArticleMetadata {
	out := make([]models.ArticleMetadata, len(articles))
	copy(out, articles)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EffectiveDate() > out[j].EffectiveDate()
	})
	return out
}

// RenderAll renders every ready article, newest first. An empty
// collection yields a placeholder card rather than an empty container.
func (r *Renderer) RenderAll(articles []models.ArticleMetadata) (string, error) {
	eligible := SortByRecency(Eligible(articles))
	if len(eligible) == 0 {
		return emptyPlaceholder, nil
	}
	return r.renderCards(eligible)
}

// RenderFeatured renders up to limit ready articles matching cat,
// newest first. limit <= 0 means DefaultFeaturedLimit. Zero matches
// yield a placeholder distinct from the empty-collection one.
func (r *Renderer) RenderFeatured(articles []models.ArticleMetadata, cat string, limit int) (string, error) {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	matched := make([]models.ArticleMetadata, 0, len(articles))
	for _, a := range articles {
		if category.Matches(a, cat) {
			matched = append(matched, a)
		}
	}
	eligible := SortByRecency(Eligible(matched))
	if len(eligible) == 0 {
		return noMatchPlaceholder, nil
	}
	if len(eligible) > limit {
		eligible = eligible[:limit]
	}
	return r.renderCards(eligible)
}

func (r *Renderer) renderCards(articles []models.ArticleMetadata) (string, error) {
	cards := make([]card, len(articles))
	for i, a := range articles {
		cards[i] = card{
			Link:          template.URL("article.html?file=" + url.QueryEscape(a.Filename)),
			Icon:          a.Icon,
			CategoryLabel: a.Category.Label("Article"),
			Title:         a.Title,
			Description:   a.Description,
			DateBadge:     RelativeDate(a.EffectiveDate(), r.now()),
			ReadingTime:   markdown.ReadingTime(a.Description),
		}
	}
	var sb strings.Builder
	if err := r.tmpl.Execute(&sb, cards); err != nil {
		return "", fmt.Errorf("listing: render cards: %w", err)
	}
	return sb.String(), nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02",
}

// RelativeDate buckets the distance between a stored date and now into a
// human badge. Unparseable or empty dates yield no badge.
func RelativeDate(date string, now time.Time) string {
	if date == "" {
		return ""
	}
	var t time.Time
	var err error
	for _, layout := range dateLayouts {
		t, err = time.Parse(layout, date)
		if err == nil {
			break
		}
	}
	if err != nil {
		return ""
	}
	days := int(now.Sub(t).Hours() / 24)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return fmt.Sprintf("%d weeks ago", days/7)
	case days < 365:
		return fmt.Sprintf("%d months ago", days/30)
	default:
		return fmt.Sprintf("%d years ago", days/365)
	}
}

// Package category maps article free text to display icons and to
// category membership. All functions are pure and total.
package category

import (
	"strings"

	"github.com/kuruchy/raido/internal/models"
)

// Icon identifiers are the site's FontAwesome class strings; the static
// front-end renders them as-is.
const (
	IconAI       = "fas fa-brain"
	IconPoker    = "fas fa-dice"
	IconMobile   = "fas fa-mobile-alt"
	IconFinance  = "fas fa-chart-line"
	IconClimbing = "fas fa-mountain"
	IconDefault  = "fas fa-file-alt"
)

// iconGroups is checked in order; the first group with a keyword hit wins.
// Keywords could overlap across groups, so the ordering is part of the
// contract.
var iconGroups = []struct {
	icon     string
	keywords []string
}{
	{IconAI, []string{"ai", "artificial", "intelligence", "machine learning"}},
	{IconPoker, []string{"poker", "game theory", "gto"}},
	{IconMobile, []string{"android", "ios", "mobile", "compose"}},
	{IconFinance, []string{"trading", "investment", "finance", "portfolio"}},
	{IconClimbing, []string{"climbing", "bouldering"}},
}

// IconFor picks a display icon from the concatenated title, filename and
// category text. No match yields the generic document icon.
func IconFor(title, filename, category string) string {
	searchText := strings.ToLower(title + " " + filename + " " + category)
	for _, g := range iconGroups {
		for _, kw := range g.keywords {
			if strings.Contains(searchText, kw) {
				return g.icon
			}
		}
	}
	return IconDefault
}

// synonyms expands the four canonical buckets into substring tests against
// the stored category text. Buckets not listed here fall through to false.
var synonyms = map[string][]string{
	"ai":                      {"ai", "artificial", "intelligence", "machine learning", "ml"},
	"artificial intelligence": {"ai", "artificial", "intelligence", "machine learning", "ml"},
	"poker":                   {"poker", "game theory", "gto"},
	"investing":               {"invest", "trading", "finance", "stock", "crypto", "portfolio"},
	"investment":              {"invest", "trading", "finance", "stock", "crypto", "portfolio"},
	"climbing":                {"climbing", "bouldering", "climb"},
	"bouldering":              {"climbing", "bouldering", "climb"},
}

// Matches reports whether the article belongs to the given category.
// Direct equality or substring match short-circuits true; otherwise the
// synonym table applies. Never errors: every pair yields a boolean.
func Matches(article models.ArticleMetadata, category string) bool {
	categoryLower := strings.ToLower(category)
	articleCategory := strings.ToLower(article.Category.Raw())

	if articleCategory == categoryLower || strings.Contains(articleCategory, categoryLower) {
		return true
	}

	for _, term := range synonyms[categoryLower] {
		if strings.Contains(articleCategory, term) {
			return true
		}
	}
	return false
}

package category

import (
	"testing"

	"github.com/kuruchy/raido/internal/models"
)

func TestIconFor_FirstMatchWins(t *testing.T) {
	cases := []struct {
		title, filename, category string
		want                      string
	}{
		{"Machine Learning Basics", "ml-basics.md", "", IconAI},
		{"GTO Preflop Ranges", "articles/gto.md", "Poker", IconPoker},
		{"Compose Navigation", "compose-nav.md", "Mobile", IconMobile},
		{"Value Investing", "value.md", "Finance", IconFinance},
		{"Bouldering Grades", "grades.md", "Climbing", IconClimbing},
		{"Random Notes", "notes.md", "", IconDefault},
		// "trading" would also hit finance, but the title mentions AI
		// and the AI group is checked first.
		{"AI Trading Systems", "ai-trading.md", "", IconAI},
	}
	for _, tc := range cases {
		got := IconFor(tc.title, tc.filename, tc.category)
		if got != tc.want {
			t.Errorf("IconFor(%q, %q, %q) = %q, want %q", tc.title, tc.filename, tc.category, got, tc.want)
		}
	}
}

func TestIconFor_CaseInsensitive(t *testing.T) {
	if IconFor("POKER Night", "", "") != IconPoker {
		t.Error("uppercase title should still match")
	}
}

func article(cat string) models.ArticleMetadata {
	return models.ArticleMetadata{Filename: "a.md", Category: models.SingleCategory(cat)}
}

func TestMatches_AISynonymClosure(t *testing.T) {
	// Any stored category containing one of the AI synonyms must match
	// the "ai" bucket.
	for _, stored := range []string{"AI", "Artificial Intelligence", "intelligence", "Machine Learning", "ML Engineering"} {
		if !Matches(article(stored), "ai") {
			t.Errorf("Matches(%q, ai) = false, want true", stored)
		}
	}
}

func TestMatches_DirectAndSubstring(t *testing.T) {
	if !Matches(article("Poker Strategy"), "poker") {
		t.Error("substring match should succeed")
	}
	if !Matches(article("poker"), "poker") {
		t.Error("direct match should succeed")
	}
}

func TestMatches_InvestingBucket(t *testing.T) {
	for _, stored := range []string{"Crypto", "Stock Analysis", "Trading", "Portfolio Review"} {
		if !Matches(article(stored), "investing") {
			t.Errorf("Matches(%q, investing) = false, want true", stored)
		}
	}
}

func TestMatches_UnknownBucketFalse(t *testing.T) {
	if Matches(article("Cooking"), "gardening") {
		t.Error("unknown bucket should not match")
	}
}

func TestMatches_MultipleCategoryUsesAllLabels(t *testing.T) {
	a := models.ArticleMetadata{
		Filename: "a.md",
		Category: models.MultipleCategory([]string{"Essays", "Game Theory"}),
	}
	if !Matches(a, "poker") {
		t.Error("second label should participate in matching")
	}
}

func TestMatches_TotalOnEmpty(t *testing.T) {
	// Must never panic, whatever the inputs.
	_ = Matches(models.ArticleMetadata{}, "")
	_ = Matches(models.ArticleMetadata{}, "ai")
}

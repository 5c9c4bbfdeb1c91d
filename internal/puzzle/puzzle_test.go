package puzzle

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kuruchy/raido/internal/comments"
	"github.com/kuruchy/raido/internal/storage"
)

func TestGetCardSymbol(t *testing.T) {
	tests := []struct {
		code string
		want CardSymbol
	}{
		{"Ah", CardSymbol{Rank: "A", Suit: "♥", Color: "red"}},
		{"Td", CardSymbol{Rank: "10", Suit: "♦", Color: "red"}},
		{"9c", CardSymbol{Rank: "9", Suit: "♣", Color: "black"}},
		{"Ks", CardSymbol{Rank: "K", Suit: "♠", Color: "black"}},
		{"5x", CardSymbol{Rank: "5", Suit: "x", Color: "black"}},
	}
	for _, tt := range tests {
		if got := GetCardSymbol(tt.code); got != tt.want {
			t.Errorf("GetCardSymbol(%q) = %+v, want %+v", tt.code, got, tt.want)
		}
	}
}

const validPuzzle = `{
	"id": "poker-2024-06-01",
	"title": "Hero in BB facing River Jam",
	"history": "BTN opens, Hero defends...",
	"hero_cards": ["Ah", "Ks"],
	"board": ["Kd", "Tc", "2s", "8h", "Qc"],
	"pot_size": "120bb",
	"villain_action": "All-in for 80bb",
	"solution": "Call. Pot odds demand only 28.5% equity."
}`

func testLoader(t *testing.T, doc string) *Loader {
	t.Helper()
	dir := t.TempDir()
	if doc != "" {
		if err := os.WriteFile(filepath.Join(dir, "daily_poker.json"), []byte(doc), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	fs, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewLoader(fs, "daily_poker.json", logger)
}

func TestLoad_Valid(t *testing.T) {
	l := testLoader(t, validPuzzle)
	p, ok := l.Load()
	if !ok {
		t.Fatal("valid puzzle rejected")
	}
	if p.Date() != "2024-06-01" {
		t.Errorf("date = %q", p.Date())
	}
}

func TestLoad_MissingDocument(t *testing.T) {
	l := testLoader(t, "")
	if _, ok := l.Load(); ok {
		t.Error("missing document should not load")
	}
}

func TestLoad_InvalidSchema(t *testing.T) {
	l := testLoader(t, `{"id": "poker-2024-06-01", "hero_cards": ["Ah"]}`)
	if _, ok := l.Load(); ok {
		t.Error("one hero card should fail validation")
	}
}

func TestRender_SolutionHiddenByDefault(t *testing.T) {
	l := testLoader(t, validPuzzle)
	html, threadID, err := l.Render()
	if err != nil {
		t.Fatal(err)
	}
	if threadID != "poker-2024-06-01" {
		t.Errorf("thread id = %q, want puzzle id verbatim", threadID)
	}
	if !strings.Contains(html, `class="puzzle-solution" hidden`) {
		t.Errorf("solution panel must be hidden:\n%s", html)
	}
	if !strings.Contains(html, "A♥") || !strings.Contains(html, "K♠") {
		t.Errorf("hero cards missing:\n%s", html)
	}
	if !strings.Contains(html, "2024-06-01") {
		t.Errorf("date missing:\n%s", html)
	}
}

func TestRender_PlaceholderWhenUnavailable(t *testing.T) {
	l := testLoader(t, "")
	html, threadID, err := l.Render()
	if err != nil {
		t.Fatal(err)
	}
	if threadID != "" {
		t.Errorf("placeholder should not bind a thread, got %q", threadID)
	}
	if !strings.Contains(html, "No puzzle yet") {
		t.Errorf("want placeholder:\n%s", html)
	}
}

func TestEmbed_BindsThread(t *testing.T) {
	l := testLoader(t, validPuzzle)
	b := comments.NewBinder("r", "rid", "General", "cid", "", "")
	out, err := l.Embed(b)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `data-term="poker-2024-06-01"`) {
		t.Errorf("thread binding missing:\n%s", out)
	}
}

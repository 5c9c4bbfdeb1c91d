package mcpserver

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kuruchy/raido/internal/curator"
	"github.com/kuruchy/raido/internal/hn"
	"github.com/kuruchy/raido/internal/index"
	"github.com/kuruchy/raido/internal/metadata"
	"github.com/kuruchy/raido/internal/puzzle"
	"github.com/kuruchy/raido/internal/storage"
)

const mcpTestMetadata = `[
	{"filename": "ready.md", "title": "Ready Post", "category": "Poker", "ready": true, "published_date": "2024-03-01"},
	{"filename": "draft.md", "title": "Draft Post", "ready": false}
]`

func testServer(t *testing.T) (*Server, storage.Provider) {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "articles-metadata.json"), []byte(mcpTestMetadata), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ready.md"), []byte("# Ready Post\n\npublished body"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "draft.md"), []byte("draft body"), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	meta := metadata.NewStore(store, "articles-metadata.json", logger)
	if err := meta.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	db, err := index.Open(filepath.Join(t.TempDir(), "mcp-test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	if err := index.Sync(db, meta, store, logger); err != nil {
		t.Fatal(err)
	}

	srv := New(
		meta,
		store,
		db,
		puzzle.NewLoader(store, "daily_poker.json", logger),
		curator.New(hn.NewClient("http://127.0.0.1:0", 0), "", "gpt-4o-mini", store, "ai-news.json", 5, logger),
	)
	return srv, store
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so the handler
	// functions are exercised directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_articles":
		result, err = srv.searchArticles(ctx, req)
	case "read_article":
		result, err = srv.readArticle(ctx, req)
	case "list_articles":
		result, err = srv.listArticles(ctx, req)
	case "get_daily_puzzle":
		result, err = srv.getDailyPuzzle(ctx, req)
	case "get_ai_news":
		result, err = srv.getAINews(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestReadArticle(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "read_article", map[string]interface{}{"file": "ready.md"})
	if text := resultText(r); text != "# Ready Post\n\npublished body" {
		t.Errorf("read result = %q", text)
	}
}

func TestReadArticle_DraftHidden(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "read_article", map[string]interface{}{"file": "draft.md"})
	if !r.IsError {
		t.Error("expected error for draft article")
	}
}

func TestListArticles(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "list_articles", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "ready.md") {
		t.Errorf("list missing ready article: %q", text)
	}
	if strings.Contains(text, "draft.md") {
		t.Errorf("list exposes draft: %q", text)
	}

	r = callTool(t, srv, "list_articles", map[string]interface{}{"category": "climbing"})
	if text := resultText(r); text != "no published articles" {
		t.Errorf("category miss = %q", text)
	}
}

func TestSearchArticles(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "search_articles", map[string]interface{}{"query": "published"})
	if text := resultText(r); !strings.Contains(text, "ready.md") {
		t.Errorf("search result = %q", text)
	}
}

func TestGetDailyPuzzle_None(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "get_daily_puzzle", map[string]interface{}{})
	if text := resultText(r); text != "no puzzle available today" {
		t.Errorf("puzzle result = %q", text)
	}
}

func TestGetDailyPuzzle_Document(t *testing.T) {
	srv, store := testServer(t)
	doc := `{
		"id": "poker-2024-06-01", "title": "T", "history": "h",
		"hero_cards": ["Ah", "Ks"], "board": [], "pot_size": "10bb",
		"villain_action": "jam", "solution": "call"
	}`
	if err := store.Write("daily_poker.json", []byte(doc)); err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "get_daily_puzzle", map[string]interface{}{})
	if text := resultText(r); !strings.Contains(text, "poker-2024-06-01") {
		t.Errorf("puzzle result = %q", text)
	}
}

func TestGetAINews_None(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "get_ai_news", map[string]interface{}{})
	if text := resultText(r); text != "no news digest available" {
		t.Errorf("news result = %q", text)
	}
}

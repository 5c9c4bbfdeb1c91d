// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Raido content tools for LLM integration via stdio
// transport. All tools are read only; content changes go through the
// filesystem or the HTTP API.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kuruchy/raido/internal/category"
	"github.com/kuruchy/raido/internal/curator"
	"github.com/kuruchy/raido/internal/index"
	"github.com/kuruchy/raido/internal/listing"
	"github.com/kuruchy/raido/internal/metadata"
	"github.com/kuruchy/raido/internal/puzzle"
	"github.com/kuruchy/raido/internal/storage"
)

// Server wraps the MCP server with Raido tools.
type Server struct {
	mcp     *server.MCPServer
	store   *metadata.Store
	content storage.Provider
	db      index.ArticleIndex
	puzzles *puzzle.Loader
	news    *curator.Curator
}

// New creates a new MCP server with all Raido tools registered.
func New(store *metadata.Store, content storage.Provider, db index.ArticleIndex, puzzles *puzzle.Loader, news *curator.Curator) *Server {
	s := &Server{store: store, content: content, db: db, puzzles: puzzles, news: news}

	s.mcp = server.NewMCPServer(
		"Raido",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_articles",
		mcp.WithDescription("Full-text search through published article bodies and titles. Drafts are never indexed."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchArticles)

	s.mcp.AddTool(mcp.NewTool("read_article",
		mcp.WithDescription("Read the raw Markdown source of a published article."),
		mcp.WithString("file", mcp.Required(), mcp.Description("Article filename as listed in the metadata (e.g. my-post.md)")),
	), s.readArticle)

	s.mcp.AddTool(mcp.NewTool("list_articles",
		mcp.WithDescription("List published articles, optionally filtered by category."),
		mcp.WithString("category", mcp.Description("Optional category filter (e.g. poker, ai, climbing)")),
	), s.listArticles)

	s.mcp.AddTool(mcp.NewTool("get_daily_puzzle",
		mcp.WithDescription("Returns today's poker puzzle document as JSON, or a notice when none is available."),
	), s.getDailyPuzzle)

	s.mcp.AddTool(mcp.NewTool("get_ai_news",
		mcp.WithDescription("Returns the current curated Hacker News digest as JSON."),
	), s.getAINews)

	// Resource: the daily puzzle document.
	s.mcp.AddResource(
		mcp.NewResource("raido://daily-puzzle", "Daily Poker Puzzle",
			mcp.WithResourceDescription("Today's poker puzzle document, id forced to poker-YYYY-MM-DD."),
			mcp.WithMIMEType("application/json"),
		),
		s.readPuzzleResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchArticles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.db.Search(query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readArticle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, err := req.RequireString("file")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	meta, ok := s.store.Lookup(file)
	if !ok || !meta.Ready {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", file)), nil
	}
	data, err := s.content.Read(file)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", file)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) listArticles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cat := ""
	if c, err := req.RequireString("category"); err == nil {
		cat = c
	}

	eligible := listing.SortByRecency(listing.Eligible(s.store.Articles()))
	var lines []string
	for _, a := range eligible {
		if cat != "" && !category.Matches(a, cat) {
			continue
		}
		line := a.Filename + "\t" + a.Title
		if d := a.EffectiveDate(); d != "" {
			line += "\t" + d
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("no published articles"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getDailyPuzzle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, ok := s.puzzles.Load()
	if !ok {
		return mcp.NewToolResultText("no puzzle available today"), nil
	}
	out, _ := json.MarshalIndent(p, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getAINews(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, ok := s.news.Load()
	if !ok || len(items) == 0 {
		return mcp.NewToolResultText("no news digest available"), nil
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readPuzzleResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	p, ok := s.puzzles.Load()
	if !ok {
		return nil, fmt.Errorf("no puzzle available")
	}
	out, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "raido://daily-puzzle",
			MIMEType: "application/json",
			Text:     string(out),
		},
	}, nil
}

// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/kuruchy/raido/internal/api"
	"github.com/kuruchy/raido/internal/articles"
	"github.com/kuruchy/raido/internal/comments"
	"github.com/kuruchy/raido/internal/curator"
	"github.com/kuruchy/raido/internal/hn"
	"github.com/kuruchy/raido/internal/index"
	"github.com/kuruchy/raido/internal/listing"
	"github.com/kuruchy/raido/internal/markdown"
	"github.com/kuruchy/raido/internal/mcpserver"
	"github.com/kuruchy/raido/internal/metadata"
	"github.com/kuruchy/raido/internal/puzzle"
	"github.com/kuruchy/raido/internal/scheduler"
	"github.com/kuruchy/raido/internal/siteservice"
	"github.com/kuruchy/raido/internal/sse"
	"github.com/kuruchy/raido/internal/storage"
	"github.com/kuruchy/raido/internal/watch"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("content_path", cfg.Content.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure content directory exists.
	if err := os.MkdirAll(cfg.Content.Path, 0o755); err != nil {
		return fmt.Errorf("create content dir: %w", err)
	}

	// Initialize content storage.
	content, err := storage.NewFS(cfg.Content.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	// Load the articles metadata collection. A missing or broken file
	// is not fatal; the site serves an empty collection until the file
	// appears.
	store := metadata.NewStore(content, cfg.Content.MetadataFile, logger)
	if err := store.Load(ctx); err != nil {
		logger.Warn("metadata load failed, starting empty", slog.String("error", err.Error()))
	}

	// Initialize the SQLite search index.
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	if err := index.Sync(db, store, content, logger); err != nil {
		logger.Warn("initial index sync failed", slog.String("error", err.Error()))
	}

	// Domain components.
	puzzles := puzzle.NewLoader(content, cfg.Content.PuzzleFile, logger)
	hnClient := hn.NewClient("", 15*time.Second)
	news := curator.New(hnClient, cfg.OpenAI.APIKey, cfg.Curator.Model, content, cfg.Content.NewsFile, cfg.Curator.Stories, logger)

	if app.mcpOnly {
		logger.Info("Starting MCP server on stdio")
		return mcpserver.New(store, content, db, puzzles, news).ServeStdio()
	}

	binder := comments.NewBinder(
		cfg.Comments.Repo, cfg.Comments.RepoID,
		cfg.Comments.Category, cfg.Comments.CategoryID,
		cfg.Comments.Theme, cfg.Comments.Lang)

	svc := siteservice.NewService(
		store,
		articles.NewResolver(store, content, markdown.NewRenderer(), cfg.App.SiteName, logger),
		listing.NewRenderer(),
		puzzles,
		news,
		binder,
		db,
	)

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	// On-demand generation is only wired when an OpenAI key is
	// configured; without one the refresh endpoints report disabled.
	var refresh api.Refreshers
	var jobs []scheduler.Job
	if cfg.OpenAI.APIKey != "" {
		generator := puzzle.NewGenerator(cfg.OpenAI.APIKey, cfg.Puzzle.Model, content, cfg.Content.PuzzleFile, logger)
		refresh.News = news.Refresh
		refresh.Puzzle = func(ctx context.Context) error {
			_, err := generator.Generate(ctx)
			return err
		}
		jobs = []scheduler.Job{
			{Name: "ai-news", Schedule: cfg.Curator.Schedule, Run: refresh.News},
			{Name: "daily-puzzle", Schedule: cfg.Puzzle.Schedule, Run: refresh.Puzzle},
		}
	} else {
		logger.Info("OpenAI key not configured, generation disabled")
	}

	apiRouter := api.NewRouter(svc, refresh, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start content watcher with SSE callback.
	g.Go(func() error {
		watchCfg := watch.Config{
			Root:         cfg.Content.Path,
			MetadataFile: cfg.Content.MetadataFile,
			PuzzleFile:   cfg.Content.PuzzleFile,
			NewsFile:     cfg.Content.NewsFile,
		}
		if err := watch.Watch(gCtx, watchCfg, db, store, content, logger, func(kind, path string) {
			broker.PublishContentEvent(kind, path)
		}); err != nil {
			logger.Error("watcher stopped", slog.String("error", err.Error()))
		}
		return nil
	})

	// Start the generation scheduler.
	if len(jobs) > 0 {
		sched := scheduler.New(logger, 5*time.Minute)
		for _, job := range jobs {
			if err := sched.Add(job); err != nil {
				return fmt.Errorf("schedule %s: %w", job.Name, err)
			}
		}
		g.Go(func() error {
			return sched.Run(gCtx)
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

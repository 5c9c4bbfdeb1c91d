package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/kuruchy/raido/internal"
	pkgconfig "github.com/kuruchy/raido/pkg/config"
)

func run(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadIfExists(configPath, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}
	if cmd.Bool("mcp") {
		opts = append(opts, internal.WithMCPServer())
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "raido",
		Usage:  "Content service for a static blog: article rendering, search, daily poker puzzle, and a curated Hacker News digest",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.BoolFlag{
				Name:    "mcp",
				Usage:   "Serve MCP tools on stdio instead of starting the HTTP server",
				Sources: cli.EnvVars("RAIDO_MCP"),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

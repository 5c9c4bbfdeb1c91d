package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Content  ContentConfig     `yaml:"content"`
	SQLite   SQLiteConfig      `yaml:"sqlite"`
	Comments CommentsConfig    `yaml:"comments"`
	Curator  CuratorConfig     `yaml:"curator"`
	Puzzle   PuzzleConfig      `yaml:"puzzle"`
	OpenAI   OpenAIConfig      `yaml:"openai"`
	Auth     AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Content.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Comments.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	SiteName string     `yaml:"site_name"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// ContentConfig holds the content directory layout. MetadataFile,
// PuzzleFile and NewsFile are relative to Path.
type ContentConfig struct {
	Path         string `yaml:"path"`
	MetadataFile string `yaml:"metadata_file"`
	PuzzleFile   string `yaml:"puzzle_file"`
	NewsFile     string `yaml:"news_file"`
}

// Validate validates the content configuration.
func (c *ContentConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.MetadataFile, validation.Required),
		validation.Field(&c.PuzzleFile, validation.Required),
		validation.Field(&c.NewsFile, validation.Required),
	)
}

// SQLiteConfig holds the search index database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// CommentsConfig holds the giscus widget settings. The widget itself is an
// opaque third-party contract; these values are passed through as data
// attributes.
type CommentsConfig struct {
	Repo       string `yaml:"repo"`
	RepoID     string `yaml:"repo_id"`
	Category   string `yaml:"category"`
	CategoryID string `yaml:"category_id"`
	Theme      string `yaml:"theme"`
	Lang       string `yaml:"lang"`
}

// Validate validates the comments configuration.
func (c *CommentsConfig) Validate() error {
	if c.Theme == "" {
		c.Theme = "preferred_color_scheme"
	}
	if c.Lang == "" {
		c.Lang = "es"
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Repo, validation.Required),
		validation.Field(&c.RepoID, validation.Required),
	)
}

// CuratorConfig controls the scheduled AI-news refresh.
type CuratorConfig struct {
	Schedule string `yaml:"schedule"`
	Stories  int    `yaml:"stories"`
	Model    string `yaml:"model"`
}

// PuzzleConfig controls the scheduled daily puzzle generation.
type PuzzleConfig struct {
	Schedule string `yaml:"schedule"`
	Model    string `yaml:"model"`
}

// OpenAIConfig holds the API key used by the curator and the puzzle
// generator. Usually set via ${OPENAI_API_KEY} expansion.
type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
}

// AuthConfig guards the admin refresh endpoints.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): refresh endpoints are open, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			SiteName: "Kuruchy",
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Content: ContentConfig{
			Path:         "./site",
			MetadataFile: "data/articles_metadata.json",
			PuzzleFile:   "data/daily_poker.json",
			NewsFile:     "data/ai-news.json",
		},
		SQLite: SQLiteConfig{
			Path: "./raido.db",
		},
		Comments: CommentsConfig{
			Repo:       "kuruchy/kuruchy.github.io",
			RepoID:     "R_kgDOGPIhoQ",
			Category:   "General",
			CategoryID: "DIC_kwDOGPIhoc4CyDKy",
			Theme:      "preferred_color_scheme",
			Lang:       "es",
		},
		Curator: CuratorConfig{
			Schedule: "0 7 * * *",
			Stories:  5,
			Model:    "gpt-4o-mini",
		},
		Puzzle: PuzzleConfig{
			Schedule: "0 6 * * *",
			Model:    "gpt-4o-mini",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}

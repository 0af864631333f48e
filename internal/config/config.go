package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Book source kinds.
const (
	SourceDir    = "dir"
	SourceHTTP   = "http"
	SourceGemini = "gemini"
)

// Progress sink kinds.
const (
	ProgressFile   = "file"
	ProgressSQLite = "sqlite"
	ProgressHTTP   = "http"
)

// Config holds the application configuration.
type Config struct {
	Source   string `envconfig:"GAMEBOOK_SOURCE" default:"dir"`
	BooksDir string `envconfig:"GAMEBOOK_BOOKS_DIR" default:"books"`

	APIBaseURL  string        `envconfig:"GAMEBOOK_API_BASE_URL"`
	APIPrefix   string        `envconfig:"GAMEBOOK_API_PREFIX"`
	HTTPTimeout time.Duration `envconfig:"GAMEBOOK_HTTP_TIMEOUT" default:"10s"`

	Progress   string `envconfig:"GAMEBOOK_PROGRESS" default:"file"`
	SaveDir    string `envconfig:"GAMEBOOK_SAVE_DIR" default:".saves"`
	ProgressDB string `envconfig:"GAMEBOOK_PROGRESS_DB" default:".saves/progress.db"`

	ToastDuration time.Duration `envconfig:"GAMEBOOK_TOAST_DURATION" default:"2500ms"`

	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile     string `envconfig:"LOG_FILE" default:"gamebook.log"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
}

// LoadConfig loads the configuration from a .env file, if present, and the environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.Source = strings.ToLower(strings.TrimSpace(cfg.Source))
	cfg.Progress = strings.ToLower(strings.TrimSpace(cfg.Progress))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the selected collaborators have what they need.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceDir:
	case SourceHTTP:
		if c.APIBaseURL == "" {
			return fmt.Errorf("GAMEBOOK_API_BASE_URL is required for the %s source", SourceHTTP)
		}
	case SourceGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY environment variable is not set")
		}
	default:
		return fmt.Errorf("unknown GAMEBOOK_SOURCE %q", c.Source)
	}

	switch c.Progress {
	case ProgressFile, ProgressSQLite:
	case ProgressHTTP:
		if c.APIBaseURL == "" {
			return fmt.Errorf("GAMEBOOK_API_BASE_URL is required for %s progress", ProgressHTTP)
		}
	default:
		return fmt.Errorf("unknown GAMEBOOK_PROGRESS %q", c.Progress)
	}

	if c.ToastDuration <= 0 {
		return fmt.Errorf("GAMEBOOK_TOAST_DURATION must be positive")
	}
	return nil
}

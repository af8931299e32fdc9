package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Supported session stores.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Config holds the application configuration.
type Config struct {
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"ETHICS_GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	SaveDir      string `env:"ETHICS_SAVE_DIR" envDefault:".saves"`
	Store        string `env:"ETHICS_STORE" envDefault:"file"`
	ContentPath  string `env:"ETHICS_CONTENT"`
	LogLevel     string `env:"ETHICS_LOG_LEVEL" envDefault:"info"`
	LogFile      string `env:"ETHICS_LOG_FILE"`
}

// LoadConfig loads the configuration from environment variables, reading
// a .env file first when one is present.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the configuration from the environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.Store = strings.ToLower(c.Store)
	switch c.Store {
	case StoreFile, StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("invalid ETHICS_STORE %q: must be 'file', 'sqlite' or 'memory'", c.Store)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// NarratorEnabled reports whether a Gemini key was provided.
func (c *Config) NarratorEnabled() bool {
	return c.GeminiAPIKey != ""
}

// LogPath is where the log file goes; the terminal belongs to the game.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.SaveDir, "game.log")
}

// DatabasePath is the SQLite file used by the sqlite store.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.SaveDir, "sessions.db")
}

// Level returns the configured log level.
func (c *Config) Level() (slog.Level, error) {
	return ParseLevel(c.LogLevel)
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid ETHICS_LOG_LEVEL %q: must be 'debug', 'info', 'warn', or 'error'", s)
}

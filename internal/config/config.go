/*
Package config loads runtime settings for the bot and the CLI.

Values are layered: built-in defaults, then an optional TOML file, then a
.env file, then process environment variables.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// DefaultPath is read when no --config flag is given and the file exists.
const DefaultPath = "vivalingo.toml"

// ErrMissingToken is returned by ValidateBot when no Telegram token is configured.
var ErrMissingToken = errors.New("TELEGRAM_BOT_TOKEN is not set")

// Config holds the entire config structure
type Config struct {
	Telegram  TelegramConfig `toml:"telegram"`
	Database  DatabaseConfig `toml:"database"`
	Review    ReviewConfig   `toml:"review"`
	Reminders ReminderConfig `toml:"reminders"`
	AI        AIConfig       `toml:"ai"`
	Log       LogConfig      `toml:"log"`
}

// TelegramConfig has bot transport options.
type TelegramConfig struct {
	Token    string  `toml:"token"`
	AdminIDs []int64 `toml:"admin_ids"`
	Debug    bool    `toml:"debug"`
}

// DatabaseConfig selects the storage driver.
type DatabaseConfig struct {
	Driver string `toml:"driver"`
	Path   string `toml:"path"`
	DSN    string `toml:"dsn"`
}

// ReviewConfig tunes review batches and ingest output.
type ReviewConfig struct {
	BatchSize     int `toml:"batch_size"`
	MaxCandidates int `toml:"max_candidates"`
}

// ReminderConfig controls the periodic due-review reminder job.
type ReminderConfig struct {
	Enabled         bool `toml:"enabled"`
	IntervalMinutes int  `toml:"interval_minutes"`
	StartHour       int  `toml:"start_hour"`
	EndHour         int  `toml:"end_hour"`
}

// AIConfig configures the optional example generator.
type AIConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
	APIURL string `toml:"api_url"`
}

// LogConfig holds the log level name.
type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: "sqlite3",
			Path:   "data/vivalingo.db",
		},
		Review: ReviewConfig{
			BatchSize:     5,
			MaxCandidates: 20,
		},
		Reminders: ReminderConfig{
			Enabled:         true,
			IntervalMinutes: 60,
			StartHour:       8,
			EndHour:         22,
		},
		AI: AIConfig{
			Model:  "gpt-3.5-turbo",
			APIURL: "https://api.openai.com/v1/chat/completions",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds a Config from defaults, the TOML file at path, a .env file and
// the environment. An empty path falls back to DefaultPath when it exists.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		if _, err := os.Stat(DefaultPath); err == nil {
			path = DefaultPath
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	// .env is optional
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv("ADMIN_USER_IDS"); v != "" {
		ids, err := parseIDs(v)
		if err != nil {
			return fmt.Errorf("failed to parse ADMIN_USER_IDS: %w", err)
		}
		c.Telegram.AdminIDs = ids
	}
	if v := os.Getenv("DB_TYPE"); v != "" {
		c.Database.Driver = normalizeDriver(v)
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.AI.APIKey = v
	}
	if v := os.Getenv("ENABLE_SCHEDULER"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("failed to parse ENABLE_SCHEDULER: %w", err)
		}
		c.Reminders.Enabled = enabled
	}
	if v := os.Getenv("NOTIFICATION_START_HOUR"); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("failed to parse NOTIFICATION_START_HOUR: %w", err)
		}
		c.Reminders.StartHour = h
	}
	if v := os.Getenv("NOTIFICATION_END_HOUR"); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("failed to parse NOTIFICATION_END_HOUR: %w", err)
		}
		c.Reminders.EndHour = h
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks driver and hour ranges. The bot token is checked
// separately so CLI commands can run without it.
func (c *Config) Validate() error {
	c.Database.Driver = normalizeDriver(c.Database.Driver)
	switch c.Database.Driver {
	case "sqlite3":
		if c.Database.Path == "" {
			return errors.New("database.path is required for sqlite3")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return errors.New("database.dsn (DATABASE_URL) is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Reminders.StartHour < 0 || c.Reminders.StartHour > 23 {
		return fmt.Errorf("reminders.start_hour out of range: %d", c.Reminders.StartHour)
	}
	if c.Reminders.EndHour < 0 || c.Reminders.EndHour > 23 {
		return fmt.Errorf("reminders.end_hour out of range: %d", c.Reminders.EndHour)
	}
	if c.Reminders.IntervalMinutes <= 0 {
		c.Reminders.IntervalMinutes = DefaultConfig().Reminders.IntervalMinutes
	}
	if c.Review.BatchSize <= 0 {
		c.Review.BatchSize = DefaultConfig().Review.BatchSize
	}
	if c.Review.MaxCandidates <= 0 {
		c.Review.MaxCandidates = DefaultConfig().Review.MaxCandidates
	}
	return nil
}

// ValidateBot additionally requires a Telegram token.
func (c *Config) ValidateBot() error {
	if c.Telegram.Token == "" {
		return ErrMissingToken
	}
	return nil
}

// IsAdmin reports whether userID is listed in telegram.admin_ids.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Telegram.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func normalizeDriver(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sqlite", "sqlite3":
		return "sqlite3"
	case "postgres", "postgresql", "pg":
		return "postgres"
	default:
		return strings.ToLower(strings.TrimSpace(name))
	}
}

func parseIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/example/vivalingo/internal/config"
)

// Connect opens the configured database and creates missing tables
func Connect(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch cfg.Driver {
	case "postgres":
		db, err = sqlx.Connect("postgres", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
	default:
		// Create data directory if it doesn't exist
		if dir := filepath.Dir(cfg.Path); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		db, err = sqlx.Connect("sqlite3", cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	autoID := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.DriverName() == "postgres" {
		autoID = "SERIAL PRIMARY KEY"
	}

	// Vocabulary is upserted by term
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS vocab_items (
			term TEXT PRIMARY KEY,
			meaning TEXT NOT NULL DEFAULT '',
			example TEXT NOT NULL DEFAULT '',
			domain TEXT NOT NULL DEFAULT '',
			register TEXT NOT NULL DEFAULT '',
			part_of_speech TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create vocab_items table: %w", err)
	}

	// Mistakes and transcripts are append-only
	_, err = db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS mistakes (
			id %s,
			entry_id TEXT NOT NULL,
			pattern TEXT NOT NULL,
			correction TEXT NOT NULL,
			tag TEXT NOT NULL,
			user_text TEXT,
			corrected_text TEXT,
			confidence REAL NOT NULL,
			created_at TEXT NOT NULL
		)
	`, autoID))
	if err != nil {
		return fmt.Errorf("failed to create mistakes table: %w", err)
	}

	_, err = db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS transcripts (
			id %s,
			transcript TEXT NOT NULL,
			created_at TEXT NOT NULL
		)
	`, autoID))
	if err != nil {
		return fmt.Errorf("failed to create transcripts table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS chats (
			chat_id BIGINT PRIMARY KEY,
			username TEXT NOT NULL DEFAULT '',
			first_name TEXT NOT NULL DEFAULT '',
			reminders_enabled BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create chats table: %w", err)
	}

	return nil
}

package database

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/example/vivalingo/pkg/models"
)

// TranscriptRepository is the append-only transcript log
type TranscriptRepository struct {
	db  *sqlx.DB
	now Clock
}

// NewTranscriptRepository creates a new repository instance
func NewTranscriptRepository(db *sqlx.DB, now Clock) *TranscriptRepository {
	return &TranscriptRepository{db: db, now: now}
}

// Append stores a transcript; blank text is ignored
func (r *TranscriptRepository) Append(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	_, err := r.db.Exec(r.db.Rebind(`INSERT INTO transcripts (transcript, created_at) VALUES (?, ?)`), text, r.now.today())
	if err != nil {
		return fmt.Errorf("failed to append transcript: %w", err)
	}
	return nil
}

// List returns every transcript in insertion order
func (r *TranscriptRepository) List() ([]models.Transcript, error) {
	var transcripts []models.Transcript
	err := r.db.Select(&transcripts, `SELECT id, transcript, created_at FROM transcripts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list transcripts: %w", err)
	}
	return transcripts, nil
}

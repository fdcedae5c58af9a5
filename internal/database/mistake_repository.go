package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/vivalingo/pkg/models"
)

// MistakeRepository is the append-only mistake log
type MistakeRepository struct {
	db *sqlx.DB
}

// NewMistakeRepository creates a new repository instance
func NewMistakeRepository(db *sqlx.DB) *MistakeRepository {
	return &MistakeRepository{db: db}
}

// Append stores one notebook entry
func (r *MistakeRepository) Append(entry models.MistakeEntry) error {
	_, err := r.db.NamedExec(`
		INSERT INTO mistakes (entry_id, pattern, correction, tag, user_text, corrected_text, confidence, created_at)
		VALUES (:entry_id, :pattern, :correction, :tag, :user_text, :corrected_text, :confidence, :created_at)
	`, entry)
	if err != nil {
		return fmt.Errorf("failed to append mistake: %w", err)
	}
	return nil
}

// List returns every logged mistake in insertion order
func (r *MistakeRepository) List() ([]models.MistakeEntry, error) {
	var entries []models.MistakeEntry
	err := r.db.Select(&entries, `
		SELECT entry_id, created_at, pattern, correction, tag,
			COALESCE(user_text, '') AS user_text,
			COALESCE(corrected_text, '') AS corrected_text,
			confidence
		FROM mistakes
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list mistakes: %w", err)
	}
	return entries, nil
}

// CountByTag returns how many mistakes were logged per tag
func (r *MistakeRepository) CountByTag() (map[string]int, error) {
	rows, err := r.db.Queryx(`SELECT tag, COUNT(*) FROM mistakes GROUP BY tag`)
	if err != nil {
		return nil, fmt.Errorf("failed to count mistakes: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			tag   string
			count int
		)
		if err := rows.Scan(&tag, &count); err != nil {
			return nil, fmt.Errorf("failed to scan mistake count: %w", err)
		}
		counts[tag] = count
	}
	return counts, rows.Err()
}

package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/vivalingo/pkg/models"
)

// VocabRepository handles database operations for vocabulary items
type VocabRepository struct {
	db  *sqlx.DB
	now Clock
}

// NewVocabRepository creates a new repository instance
func NewVocabRepository(db *sqlx.DB, now Clock) *VocabRepository {
	return &VocabRepository{db: db, now: now}
}

// Save inserts the item or replaces the stored item with the same term
func (r *VocabRepository) Save(item models.VocabItem) error {
	_, err := r.db.Exec(r.upsertQuery(), r.args(item)...)
	if err != nil {
		return fmt.Errorf("failed to save vocabulary item %q: %w", item.Term, err)
	}
	return nil
}

// SaveAll saves items in one transaction and returns how many were written
func (r *VocabRepository) SaveAll(items []models.VocabItem) (int, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := r.upsertQuery()
	for _, item := range items {
		if _, err := tx.Exec(query, r.args(item)...); err != nil {
			return 0, fmt.Errorf("failed to save vocabulary item %q: %w", item.Term, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit vocabulary: %w", err)
	}
	return len(items), nil
}

// upsertQuery keeps created_at from the first save of a term.
func (r *VocabRepository) upsertQuery() string {
	// ON CONFLICT понимают и SQLite, и PostgreSQL; отличаются только плейсхолдеры
	return r.db.Rebind(`
		INSERT INTO vocab_items (term, meaning, example, domain, register, part_of_speech, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (term) DO UPDATE SET
			meaning = excluded.meaning,
			example = excluded.example,
			domain = excluded.domain,
			register = excluded.register,
			part_of_speech = excluded.part_of_speech
	`)
}

func (r *VocabRepository) args(item models.VocabItem) []interface{} {
	return []interface{}{
		item.Term,
		item.Meaning,
		item.Example,
		item.Domain,
		item.Register,
		item.PartOfSpeech,
		r.now.today(),
	}
}

// LoadAll returns every stored item ordered by creation date and term
func (r *VocabRepository) LoadAll() ([]models.VocabItem, error) {
	var items []models.VocabItem
	err := r.db.Select(&items, `
		SELECT term, meaning, example, domain, register, part_of_speech, created_at
		FROM vocab_items
		ORDER BY created_at, term
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary: %w", err)
	}
	return items, nil
}

// GetByTerm returns a single item
func (r *VocabRepository) GetByTerm(term string) (*models.VocabItem, error) {
	var item models.VocabItem
	err := r.db.Get(&item, r.db.Rebind(`
		SELECT term, meaning, example, domain, register, part_of_speech, created_at
		FROM vocab_items WHERE term = ?
	`), term)
	if err != nil {
		return nil, fmt.Errorf("failed to get vocabulary item %q: %w", term, err)
	}
	return &item, nil
}

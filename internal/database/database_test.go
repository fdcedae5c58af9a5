package database

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/vivalingo/internal/config"
	"github.com/example/vivalingo/pkg/models"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Connect(config.DatabaseConfig{
		Driver: "sqlite3",
		Path:   filepath.Join(t.TempDir(), "data", "test.db"),
	})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func fixedClock(day string) Clock {
	return func() time.Time {
		ts, _ := time.Parse(dateLayout, day)
		return ts
	}
}

func TestConnectIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := initializeSchema(db); err != nil {
		t.Fatalf("second initializeSchema: %v", err)
	}
}

func TestVocabRepositoryUpsert(t *testing.T) {
	db := openTestDB(t)
	repo := NewVocabRepository(db, fixedClock("2024-03-01"))

	if err := repo.Save(models.VocabItem{Term: "a raíz de", Meaning: "as a result of"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	later := NewVocabRepository(db, fixedClock("2024-04-15"))
	if err := later.Save(models.VocabItem{Term: "a raíz de", Meaning: "because of", Domain: "Economía"}); err != nil {
		t.Fatalf("Save again: %v", err)
	}

	items, err := repo.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("LoadAll returned %d items, want 1", len(items))
	}
	got := items[0]
	if got.Meaning != "because of" || got.Domain != "Economía" {
		t.Errorf("stored item = %+v, want the second save", got)
	}
	if got.CreatedAt != "2024-03-01" {
		t.Errorf("CreatedAt = %q, want the first save date 2024-03-01", got.CreatedAt)
	}
}

func TestVocabRepositorySaveAll(t *testing.T) {
	repo := NewVocabRepository(openTestDB(t), fixedClock("2024-03-01"))

	n, err := repo.SaveAll([]models.VocabItem{
		{Term: "sin embargo", Meaning: "however"},
		{Term: "no obstante", Meaning: "nevertheless"},
	})
	if err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	if n != 2 {
		t.Errorf("SaveAll wrote %d, want 2", n)
	}

	item, err := repo.GetByTerm("no obstante")
	if err != nil {
		t.Fatalf("GetByTerm: %v", err)
	}
	if item.Meaning != "nevertheless" {
		t.Errorf("Meaning = %q", item.Meaning)
	}
	if _, err := repo.GetByTerm("missing"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetByTerm(missing) error = %v, want sql.ErrNoRows", err)
	}
}

func TestMistakeRepository(t *testing.T) {
	repo := NewMistakeRepository(openTestDB(t))

	entries := []models.MistakeEntry{
		{ID: "e1", Date: "2024-03-01", Pattern: "dependen en", Correction: "dependen de", Tag: "prepositions", Confidence: 0.8, UserText: "Los precios dependen en la demanda."},
		{ID: "e2", Date: "2024-03-01", Pattern: "es listo", Correction: "está listo", Tag: "ser/estar", Confidence: 0.7},
		{ID: "e3", Date: "2024-03-02", Pattern: "dependen en", Correction: "dependen de", Tag: "prepositions", Confidence: 0.9},
	}
	for _, e := range entries {
		if err := repo.Append(e); err != nil {
			t.Fatalf("Append(%s): %v", e.ID, err)
		}
	}

	got, err := repo.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("List returned %d entries, want 3", len(got))
	}
	for i := range entries {
		if got[i] != entries[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], entries[i])
		}
	}

	counts, err := repo.CountByTag()
	if err != nil {
		t.Fatalf("CountByTag: %v", err)
	}
	if counts["prepositions"] != 2 || counts["ser/estar"] != 1 {
		t.Errorf("CountByTag = %v", counts)
	}
}

func TestTranscriptRepositorySkipsBlank(t *testing.T) {
	repo := NewTranscriptRepository(openTestDB(t), fixedClock("2024-03-05"))

	for _, text := range []string{"Hoy hablé de la inflación.", "   ", ""} {
		if err := repo.Append(text); err != nil {
			t.Fatalf("Append(%q): %v", text, err)
		}
	}

	got, err := repo.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("List returned %d transcripts, want 1", len(got))
	}
	if got[0].Transcript != "Hoy hablé de la inflación." || got[0].CreatedAt != "2024-03-05" {
		t.Errorf("transcript = %+v", got[0])
	}
}

func TestChatRepository(t *testing.T) {
	repo := NewChatRepository(openTestDB(t), fixedClock("2024-03-01"))

	if err := repo.Register(models.Chat{ChatID: 7, Username: "ana"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := repo.Register(models.Chat{ChatID: 9, FirstName: "Luis"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := repo.SetReminders(9, false); err != nil {
		t.Fatalf("SetReminders: %v", err)
	}
	// re-registering refreshes names but keeps the preference
	if err := repo.Register(models.Chat{ChatID: 9, FirstName: "Luis", Username: "luis"}); err != nil {
		t.Fatalf("Register again: %v", err)
	}

	chat, err := repo.GetByID(9)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if chat.RemindersEnabled {
		t.Error("reminders were re-enabled by Register")
	}
	if chat.DisplayName() != "luis" {
		t.Errorf("DisplayName = %q, want luis", chat.DisplayName())
	}

	chats, err := repo.GetChatsForNotification()
	if err != nil {
		t.Fatalf("GetChatsForNotification: %v", err)
	}
	if len(chats) != 1 || chats[0].ChatID != 7 {
		t.Errorf("GetChatsForNotification = %+v, want only chat 7", chats)
	}

	if err := repo.SetReminders(42, true); err == nil {
		t.Error("SetReminders on unknown chat should fail")
	}
}

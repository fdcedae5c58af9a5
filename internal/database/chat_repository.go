package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/vivalingo/pkg/models"
)

// ChatRepository handles database operations for chats
type ChatRepository struct {
	db  *sqlx.DB
	now Clock
}

// NewChatRepository creates a new repository instance
func NewChatRepository(db *sqlx.DB, now Clock) *ChatRepository {
	return &ChatRepository{db: db, now: now}
}

// Register stores a chat on first contact and refreshes its names afterwards.
// The reminder preference is left untouched for known chats.
func (r *ChatRepository) Register(chat models.Chat) error {
	query := `
		INSERT INTO chats (chat_id, username, first_name, reminders_enabled, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (chat_id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name
	`
	_, err := r.db.Exec(r.db.Rebind(query), chat.ChatID, chat.Username, chat.FirstName, true, r.now.today())
	if err != nil {
		return fmt.Errorf("failed to register chat %d: %w", chat.ChatID, err)
	}
	return nil
}

// GetByID returns a chat
func (r *ChatRepository) GetByID(chatID int64) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.Get(&chat, r.db.Rebind(`
		SELECT chat_id, username, first_name, reminders_enabled, created_at
		FROM chats WHERE chat_id = ?
	`), chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat %d: %w", chatID, err)
	}
	return &chat, nil
}

// SetReminders turns due-review reminders on or off for a chat
func (r *ChatRepository) SetReminders(chatID int64, enabled bool) error {
	res, err := r.db.Exec(r.db.Rebind(`UPDATE chats SET reminders_enabled = ? WHERE chat_id = ?`), enabled, chatID)
	if err != nil {
		return fmt.Errorf("failed to update reminders for chat %d: %w", chatID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to update reminders: chat %d not registered", chatID)
	}
	return nil
}

// GetChatsForNotification returns chats that want reminders
func (r *ChatRepository) GetChatsForNotification() ([]models.Chat, error) {
	var chats []models.Chat
	err := r.db.Select(&chats, r.db.Rebind(`
		SELECT chat_id, username, first_name, reminders_enabled, created_at
		FROM chats WHERE reminders_enabled = ?
		ORDER BY chat_id
	`), true)
	if err != nil {
		return nil, fmt.Errorf("failed to get chats for notification: %w", err)
	}
	return chats, nil
}

package models

// Chat is a Telegram chat that has talked to the bot
type Chat struct {
	ChatID           int64  `json:"chat_id" db:"chat_id"`
	Username         string `json:"username" db:"username"`
	FirstName        string `json:"first_name" db:"first_name"`
	RemindersEnabled bool   `json:"reminders_enabled" db:"reminders_enabled"`
	CreatedAt        string `json:"created_at" db:"created_at"`
}

// DisplayName is the name used for greetings and mission seeds
func (c Chat) DisplayName() string {
	if c.Username != "" {
		return c.Username
	}
	return c.FirstName
}

package bot

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vivalingo/internal/ai"
	"github.com/example/vivalingo/internal/config"
	"github.com/example/vivalingo/internal/content"
	"github.com/example/vivalingo/internal/drills"
	"github.com/example/vivalingo/internal/logger"
	"github.com/example/vivalingo/internal/scheduler"
	"github.com/example/vivalingo/internal/session"
	"github.com/example/vivalingo/pkg/models"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// chatStore keeps registered chats and their reminder preference
type chatStore interface {
	scheduler.ChatSource
	Register(chat models.Chat) error
	GetByID(chatID int64) (*models.Chat, error)
	SetReminders(chatID int64, enabled bool) error
}

// Deps are the collaborators of the bot
type Deps struct {
	Config    *config.Config
	Catalog   *content.Catalog
	Sessions  *session.Manager
	Chats     chatStore
	Generator *ai.ChatGPT // nil disables example generation
}

// Bot represents the Telegram bot application
type Bot struct {
	api       *tgbotapi.BotAPI
	cfg       *config.Config
	config    *BotConfig
	catalog   *content.Catalog
	sessions  *session.Manager
	chats     chatStore
	generator *ai.ChatGPT
	drills    *drills.Module
	scheduler *scheduler.Scheduler
	tokens    *callbackTokens
	now       func() time.Time
	log       *log.Logger

	mu                 sync.Mutex
	awaitingFileUpload map[int64]bool
}

// New creates a new bot instance
func New(deps Deps) (*Bot, error) {
	if err := deps.Config.ValidateBot(); err != nil {
		return nil, err
	}
	if deps.Catalog == nil || deps.Sessions == nil || deps.Chats == nil {
		return nil, fmt.Errorf("failed to create bot: catalog, sessions and chats are required")
	}

	return &Bot{
		cfg:                deps.Config,
		config:             FromReviewConfig(deps.Config.Review),
		catalog:            deps.Catalog,
		sessions:           deps.Sessions,
		chats:              deps.Chats,
		generator:          deps.Generator,
		drills:             drills.NewModule(deps.Catalog, rand.New(rand.NewSource(time.Now().UnixNano()))),
		tokens:             newCallbackTokens(),
		now:                time.Now,
		log:                logger.New("bot"),
		awaitingFileUpload: make(map[int64]bool),
	}, nil
}

// Start connects to Telegram and handles updates until ctx is cancelled
func (b *Bot) Start(ctx context.Context) error {
	botAPI, err := tgbotapi.NewBotAPI(b.cfg.Telegram.Token)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}
	botAPI.Debug = b.cfg.Telegram.Debug
	b.api = botAPI
	b.log.Info("authorized", "account", botAPI.Self.UserName)

	if b.cfg.Reminders.Enabled {
		b.scheduler = scheduler.New(b.cfg.Reminders, b.chats, b.sessions, b)
		if err := b.scheduler.Start(); err != nil {
			return err
		}
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			b.Stop()
			return nil
		case update, ok := <-updates:
			if !ok {
				b.Stop()
				return nil
			}
			go b.handleUpdate(update)
		}
	}
}

// Stop gracefully stops the bot
func (b *Bot) Stop() {
	if b.scheduler != nil {
		b.scheduler.Stop()
	}
	if b.api != nil {
		b.api.StopReceivingUpdates()
	}
	b.log.Info("bot stopped")
}

// SendReminders implements the scheduler.Notifier interface
func (b *Bot) SendReminders(chatID int64, pending session.Pending) error {
	msg := tgbotapi.NewMessage(chatID, formatReminder(pending))
	msg.ReplyMarkup = createKeyboard(reviewMenuButtons())
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}
	b.log.Debug("reminder sent", "chat", chatID, "due", pending.Total())
	return nil
}

// isAdmin checks if a user is an admin
func (b *Bot) isAdmin(userID int64) bool {
	return b.cfg.IsAdmin(userID)
}

func (b *Bot) setAwaitingUpload(chatID int64, waiting bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if waiting {
		b.awaitingFileUpload[chatID] = true
	} else {
		delete(b.awaitingFileUpload, chatID)
	}
}

func (b *Bot) isAwaitingUpload(chatID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.awaitingFileUpload[chatID]
}

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("panic while handling update", "update", update.UpdateID, "panic", r)
		}
	}()

	ctx := context.Background()
	switch {
	case update.Message != nil:
		message := update.Message
		if message.From != nil {
			b.registerChat(message.Chat.ID, message.From)
		}

		var err error
		switch {
		case message.IsCommand():
			err = b.HandleCommand(ctx, message)
		case message.Document != nil && b.isAwaitingUpload(message.Chat.ID):
			err = b.handleDocument(ctx, message)
		default:
			err = b.handleText(message)
		}
		if err != nil {
			b.log.Error("failed to handle message", "chat", message.Chat.ID, "err", err)
			b.reply(message.Chat.ID, "Something went wrong. Please try again.")
		}
	case update.CallbackQuery != nil:
		if err := b.HandleCallback(ctx, update.CallbackQuery); err != nil {
			b.log.Error("failed to handle callback", "data", update.CallbackQuery.Data, "err", err)
		}
	}
}

// registerChat stores the chat on every message so names stay fresh
func (b *Bot) registerChat(chatID int64, from *tgbotapi.User) {
	chat := models.Chat{ChatID: chatID, Username: from.UserName, FirstName: from.FirstName}
	if err := b.chats.Register(chat); err != nil {
		b.log.Warn("failed to register chat", "chat", chatID, "err", err)
	}
}

func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) error {
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (b *Bot) editMessage(msg tgbotapi.EditMessageTextConfig) error {
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// reply sends plain text and logs a failure instead of returning it
func (b *Bot) reply(chatID int64, text string) {
	if err := b.sendMessage(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.Warn("failed to reply", "chat", chatID, "err", err)
	}
}

func (b *Bot) sendDocument(chatID int64, name string, data []byte) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	if _, err := b.api.Send(doc); err != nil {
		return fmt.Errorf("failed to send %s: %w", name, err)
	}
	return nil
}

// MainMenuButtons returns the buttons for the main menu
func (b *Bot) MainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "🔁 Review", CallbackData: menuData("review")},
			{Text: "📐 Grammar", CallbackData: menuData("grammar")},
		},
		{
			{Text: "📓 Errors", CallbackData: menuData("errors")},
			{Text: "🧩 Drill", CallbackData: menuData("drill")},
		},
		{
			{Text: "🎯 Mission", CallbackData: menuData("mission")},
			{Text: "🌍 Domains", CallbackData: menuData("domains")},
		},
	}
}

func reviewMenuButtons() [][]MenuButton {
	return [][]MenuButton{{
		{Text: "🔁 Review now", CallbackData: menuData("review")},
		{Text: "📓 Errors", CallbackData: menuData("errors")},
	}}
}

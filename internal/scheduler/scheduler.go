package scheduler

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron"

	"github.com/example/vivalingo/internal/config"
	"github.com/example/vivalingo/internal/logger"
	"github.com/example/vivalingo/internal/session"
	"github.com/example/vivalingo/pkg/models"
)

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	cfg       config.ReminderConfig
	chats     ChatSource
	reviews   ReviewSource
	notifier  Notifier
	now       func() time.Time
	log       *log.Logger
}

// Notifier interface for sending notifications
type Notifier interface {
	SendReminders(chatID int64, pending session.Pending) error
}

// ChatSource lists chats that accept reminders
type ChatSource interface {
	GetChatsForNotification() ([]models.Chat, error)
}

// ReviewSource counts due reviews without advancing any queue
type ReviewSource interface {
	PendingReviews(chatID int64) session.Pending
}

// New creates a new scheduler instance
func New(cfg config.ReminderConfig, chats ChatSource, reviews ReviewSource, notifier Notifier) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		cfg:       cfg,
		chats:     chats,
		reviews:   reviews,
		notifier:  notifier,
		now:       time.Now,
		log:       logger.New("scheduler"),
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() error {
	interval := s.cfg.IntervalMinutes
	if interval <= 0 {
		interval = 60
	}
	_, err := s.scheduler.Every(interval).Minutes().Do(func() {
		s.checkAndSendReminders(s.now())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	s.log.Info("reminders scheduled", "every_minutes", interval, "hours", fmt.Sprintf("%d-%d", s.cfg.StartHour, s.cfg.EndHour))
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// withinHours reports whether reminders may be sent at hour; both ends are inclusive
func (s *Scheduler) withinHours(hour int) bool {
	return hour >= s.cfg.StartHour && hour <= s.cfg.EndHour
}

// checkAndSendReminders notifies every opted-in chat that has due reviews.
// It returns how many reminders were sent.
func (s *Scheduler) checkAndSendReminders(now time.Time) int {
	if !s.withinHours(now.Hour()) {
		s.log.Debug("outside notification hours, skipping reminders", "hour", now.Hour())
		return 0
	}

	chats, err := s.chats.GetChatsForNotification()
	if err != nil {
		s.log.Error("failed to get chats for notification", "err", err)
		return 0
	}

	sent := 0
	for _, chat := range chats {
		pending := s.reviews.PendingReviews(chat.ChatID)
		if pending.Total() == 0 {
			continue
		}
		if err := s.notifier.SendReminders(chat.ChatID, pending); err != nil {
			s.log.Warn("failed to send reminder", "chat", chat.ChatID, "err", err)
			continue
		}
		sent++
	}
	return sent
}

// RunManualCheck sends a reminder to one chat if it has due reviews,
// regardless of notification hours
func (s *Scheduler) RunManualCheck(chatID int64) (session.Pending, error) {
	pending := s.reviews.PendingReviews(chatID)
	if pending.Total() == 0 {
		return pending, nil
	}
	return pending, s.notifier.SendReminders(chatID, pending)
}

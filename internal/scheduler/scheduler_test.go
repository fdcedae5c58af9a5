package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/example/vivalingo/internal/config"
	"github.com/example/vivalingo/internal/session"
	"github.com/example/vivalingo/pkg/models"
)

type fakeChats struct {
	chats []models.Chat
	err   error
}

func (f fakeChats) GetChatsForNotification() ([]models.Chat, error) {
	return f.chats, f.err
}

type fakeReviews map[int64]session.Pending

func (f fakeReviews) PendingReviews(chatID int64) session.Pending {
	return f[chatID]
}

type fakeNotifier struct {
	sent map[int64]session.Pending
	fail map[int64]bool
}

func (f *fakeNotifier) SendReminders(chatID int64, pending session.Pending) error {
	if f.fail[chatID] {
		return errors.New("blocked by user")
	}
	if f.sent == nil {
		f.sent = make(map[int64]session.Pending)
	}
	f.sent[chatID] = pending
	return nil
}

func at(hour int) time.Time {
	return time.Date(2024, 5, 2, hour, 30, 0, 0, time.Local)
}

func newTestScheduler(chats ChatSource, reviews ReviewSource, n Notifier) *Scheduler {
	cfg := config.ReminderConfig{Enabled: true, IntervalMinutes: 60, StartHour: 8, EndHour: 22}
	return New(cfg, chats, reviews, n)
}

func TestCheckAndSendReminders(t *testing.T) {
	chats := fakeChats{chats: []models.Chat{{ChatID: 1}, {ChatID: 2}, {ChatID: 3}}}
	reviews := fakeReviews{
		1: {Vocab: 2},
		2: {},
		3: {Errors: 1},
	}
	n := &fakeNotifier{fail: map[int64]bool{3: true}}
	s := newTestScheduler(chats, reviews, n)

	if sent := s.checkAndSendReminders(at(9)); sent != 1 {
		t.Errorf("sent = %d, want 1", sent)
	}
	if got := n.sent[1]; got.Vocab != 2 {
		t.Errorf("chat 1 reminder = %+v", got)
	}
	if _, ok := n.sent[2]; ok {
		t.Error("chat without due reviews was notified")
	}
}

func TestNotificationHours(t *testing.T) {
	chats := fakeChats{chats: []models.Chat{{ChatID: 1}}}
	reviews := fakeReviews{1: {Grammar: 1}}

	tests := []struct {
		hour int
		want int
	}{
		{7, 0},
		{8, 1},
		{22, 1},
		{23, 0},
	}
	for _, tt := range tests {
		n := &fakeNotifier{}
		s := newTestScheduler(chats, reviews, n)
		if got := s.checkAndSendReminders(at(tt.hour)); got != tt.want {
			t.Errorf("hour %d: sent = %d, want %d", tt.hour, got, tt.want)
		}
	}
}

func TestChatSourceFailure(t *testing.T) {
	n := &fakeNotifier{}
	s := newTestScheduler(fakeChats{err: errors.New("db down")}, fakeReviews{}, n)
	if sent := s.checkAndSendReminders(at(12)); sent != 0 {
		t.Errorf("sent = %d, want 0", sent)
	}
}

func TestRunManualCheckIgnoresHours(t *testing.T) {
	n := &fakeNotifier{}
	s := newTestScheduler(fakeChats{}, fakeReviews{5: {Vocab: 1}}, n)

	pending, err := s.RunManualCheck(5)
	if err != nil {
		t.Fatalf("RunManualCheck: %v", err)
	}
	if pending.Total() != 1 || n.sent[5].Vocab != 1 {
		t.Errorf("pending = %+v, sent = %+v", pending, n.sent)
	}

	pending, err = s.RunManualCheck(6)
	if err != nil || pending.Total() != 0 {
		t.Errorf("RunManualCheck(6) = %+v, %v", pending, err)
	}
	if _, ok := n.sent[6]; ok {
		t.Error("chat without due reviews was notified")
	}
}

func TestStartStop(t *testing.T) {
	s := newTestScheduler(fakeChats{}, fakeReviews{}, &fakeNotifier{})
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
}

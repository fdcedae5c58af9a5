package session

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/example/vivalingo/internal/content"
	"github.com/example/vivalingo/internal/logger"
)

// Manager creates sessions on first access and keeps them for the life of
// the process.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*Session

	catalog *content.Catalog
	stores  Stores
	opts    []Option
	log     *log.Logger
}

// NewManager creates a manager whose sessions share catalog and stores.
func NewManager(catalog *content.Catalog, stores Stores, opts ...Option) *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
		catalog:  catalog,
		stores:   stores,
		opts:     opts,
		log:      logger.New("session"),
	}
}

// Get returns the session for chatID, creating and hydrating it if needed.
// A failed hydration leaves the session empty and is logged.
func (m *Manager) Get(chatID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[chatID]; ok {
		return s
	}
	s := New(chatID, m.catalog, m.stores, m.opts...)
	if err := s.Hydrate(); err != nil {
		m.log.Warn("failed to load vocabulary", "chat", chatID, "err", err)
	}
	m.sessions[chatID] = s
	return s
}

// PendingReviews counts due items for a chat, loading its session if needed.
func (m *Manager) PendingReviews(chatID int64) Pending {
	return m.Get(chatID).PendingReviews()
}

package pos

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session pairs a token with the cart it exclusively owns. All cart
// access for a session goes through its holder, so the cart itself needs
// no locking.
type Session struct {
	Token     string    `json:"token"`
	Cart      *Cart     `json:"-"`
	CreatedBy string    `json:"created_by"`
	Terminal  string    `json:"terminal"`
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
}

// Manager hands out cart sessions to the HTTP layer. Abandoned sessions
// are just dropped; an uncommitted cart has no side effects to undo.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	catalog  CatalogReader
	rates    RateProvider
	terminal string
}

func NewManager(cat CatalogReader, rates RateProvider, terminal string) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		catalog:  cat,
		rates:    rates,
		terminal: terminal,
	}
}

// Open starts a sale session with a fresh cart.
func (m *Manager) Open(createdBy string) *Session {
	now := time.Now()
	session := &Session{
		Token:     uuid.NewString(),
		Cart:      NewCart(m.catalog, m.rates),
		CreatedBy: createdBy,
		Terminal:  m.terminal,
		CreatedAt: now,
		LastSeen:  now,
	}

	m.mu.Lock()
	m.sessions[session.Token] = session
	m.mu.Unlock()
	return session
}

// Get resolves a token and bumps its last-seen time.
func (m *Manager) Get(token string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[token]
	if ok {
		session.LastSeen = time.Now()
	}
	return session, ok
}

// Close discards the session and its cart.
func (m *Manager) Close(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// PurgeIdle drops sessions untouched for longer than maxAge and reports
// how many went.
func (m *Manager) PurgeIdle(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	defer m.mu.Unlock()
	purged := 0
	for token, session := range m.sessions {
		if session.LastSeen.Before(cutoff) {
			delete(m.sessions, token)
			purged++
		}
	}
	return purged
}

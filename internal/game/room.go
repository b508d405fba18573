package game

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// =============================================================================
// SESSION MANAGEMENT
// =============================================================================

// Manager holds the sessions hosted by this process, one per browser tab.
// Sessions never interact with each other.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	options func() Options
	idle    time.Duration
	log     *log.Entry
}

// NewManager creates a manager. options is called once per new session so
// each gets its own scheduler, random source and logger fields.
func NewManager(options func() Options, idle time.Duration, logger *log.Entry) *Manager {
	if options == nil {
		options = func() Options { return Options{} }
	}
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Manager{
		sessions: make(map[string]*Session),
		options:  options,
		idle:     idle,
		log:      logger,
	}
}

// Create starts a new session under a random ID.
func (m *Manager) Create() *Session {
	return m.GetOrCreate(uuid.NewString())
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// GetOrCreate returns the session with id, creating it if needed.
func (m *Manager) GetOrCreate(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		return s
	}

	opts := m.options()
	if opts.Logger == nil {
		opts.Logger = m.log
	}
	s := NewSession(id, opts)
	m.sessions[id] = s
	m.log.Infof("[GetOrCreate] created session %s (total=%d)", id, len(m.sessions))
	return s
}

// Remove closes the session and forgets it.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return false
	}
	s.Close()
	m.log.Infof("[Remove] session %s removed", id)
	return true
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Reap removes sessions with no subscribers that have been idle longer than
// the configured timeout. It returns how many were removed.
func (m *Manager) Reap(now time.Time) int {
	if m.idle <= 0 {
		return 0
	}

	m.mu.RLock()
	var stale []string
	for id, s := range m.sessions {
		if s.SubscriberCount() == 0 && s.IdleFor(now) > m.idle {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range stale {
		m.Remove(id)
	}
	if len(stale) > 0 {
		m.log.Infof("[Reap] removed %d idle sessions", len(stale))
	}
	return len(stale)
}

// Run reaps idle sessions until ctx ends, then closes every session.
func (m *Manager) Run(ctx context.Context) error {
	interval := m.idle / 2
	if interval <= 0 || interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			return nil
		case now := <-ticker.C:
			m.Reap(now)
		}
	}
}

func (m *Manager) closeAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	m.log.Infof("[closeAll] closed %d sessions", len(sessions))
}

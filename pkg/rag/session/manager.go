package session

import (
	"errors"

	"virtual-assistant-be/internal/pkg/logger"

	"github.com/google/uuid"
)

const module = "Session"

var ErrSessionNotFound = errors.New("session not found")

// Repository keeps live sessions. Implementations expire idle entries.
type Repository interface {
	Save(s *Session)
	Get(id string) (*Session, bool)
	// Touch refreshes the expiry of a session that is still stored and
	// reports whether it was.
	Touch(s *Session) bool
	Delete(id string)
	Count() int
}

// Manager creates and looks up sessions that share one Responder.
type Manager struct {
	repo      Repository
	responder Responder
	opts      Options
	logger    logger.ILogger
}

func NewManager(repo Repository, responder Responder, opts Options, log logger.ILogger) *Manager {
	return &Manager{
		repo:      repo,
		responder: responder,
		opts:      opts,
		logger:    log,
	}
}

func (m *Manager) Create() *Session {
	s := New(uuid.NewString(), m.responder, m.opts)
	m.repo.Save(s)

	m.logger.Info(module, "Session created", map[string]interface{}{
		"session_id": s.ID(),
		"active":     m.repo.Count(),
	})
	return s
}

// Get returns a live session and refreshes its idle expiry.
func (m *Manager) Get(id string) (*Session, error) {
	s, ok := m.repo.Get(id)
	if !ok || !m.repo.Touch(s) {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *Manager) Close(id string) error {
	if _, ok := m.repo.Get(id); !ok {
		return ErrSessionNotFound
	}
	m.repo.Delete(id)

	m.logger.Info(module, "Session closed", map[string]interface{}{
		"session_id": id,
	})
	return nil
}

// Active returns the number of live sessions.
func (m *Manager) Active() int {
	return m.repo.Count()
}

package memory

import (
	"time"

	"virtual-assistant-be/pkg/rag/session"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

// NewSessionRepository keeps sessions for ttl after their last use and
// purges expired ones every ttl/6.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{
		cache: cache.New(ttl, ttl/6),
	}
}

func (r *SessionRepository) Save(s *session.Session) {
	r.cache.Set(s.ID(), s, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*session.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*session.Session), true
	}
	return nil, false
}

// Touch resets the idle expiry without reinserting a session that was
// deleted or has expired since it was read.
func (r *SessionRepository) Touch(s *session.Session) bool {
	return r.cache.Replace(s.ID(), s, cache.DefaultExpiration) == nil
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}

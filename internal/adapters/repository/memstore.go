package repository

import (
	"context"
	"sync"

	"github.com/okian/attrition/internal/domain/model"
	"github.com/okian/attrition/pkg/metrics"
)

const defaultMaxSessions = 256

// MemoryStore is an in-memory Store. Sessions are evicted oldest first.
type MemoryStore struct {
	mu          sync.RWMutex
	sessions    map[string]*model.Session
	order       []string // creation order, oldest first
	maxSessions int
}

// NewMemoryStore creates an empty session store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		sessions:    make(map[string]*model.Session),
		maxSessions: defaultMaxSessions,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Create(_ context.Context, sess *model.Session) (string, error) {
	if sess == nil || sess.ID == "" {
		return "", ErrInvalidSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sess.ID]; exists {
		return "", ErrDuplicate
	}

	var evicted string
	if len(s.sessions) >= s.maxSessions {
		evicted = s.order[0]
		s.order = s.order[1:]
		delete(s.sessions, evicted)
	}
	s.sessions[sess.ID] = sess
	s.order = append(s.order, sess.ID)
	metrics.UpdateActiveSessions(len(s.sessions))
	return evicted, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return nil, ErrNotFound
	}
	return sess, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return ErrNotFound
	}
	delete(s.sessions, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	metrics.UpdateActiveSessions(len(s.sessions))
	return nil
}

func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

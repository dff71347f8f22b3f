// Package model contains domain models passed between layers.
package model

import (
	"sync"
	"time"

	"github.com/okian/attrition/internal/domain/predictor"
	"github.com/okian/attrition/internal/domain/table"
)

// Session is one dashboard visit: a derived dataset plus the predictor
// fitted on it. Computations on a session are serialised with Do.
type Session struct {
	ID        string       // uuid
	Source    string       // dataset name, e.g. the default path or "upload"
	Dataset   string       // cache key of the dataset version
	CreatedAt time.Time    // open time
	Table     *table.Table // derived table, never nil

	mu        sync.Mutex
	predictor *predictor.Predictor
}

// NewSession wraps a derived table.
func NewSession(id, source, dataset string, t *table.Table, now time.Time) *Session {
	if t == nil {
		t = table.Empty()
	}
	return &Session{
		ID:        id,
		Source:    source,
		Dataset:   dataset,
		CreatedAt: now,
		Table:     t,
	}
}

// Do runs fn while holding the session lock.
func (s *Session) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// Predictor returns the session's predictor, or nil before the first build.
// Callers hold the lock via Do.
func (s *Session) Predictor() *predictor.Predictor { return s.predictor }

// SetPredictor replaces the session's predictor. Callers hold the lock via Do.
func (s *Session) SetPredictor(p *predictor.Predictor) { s.predictor = p }

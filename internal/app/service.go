// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/okian/attrition/internal/adapters/cache"
	"github.com/okian/attrition/internal/adapters/repository"
	"github.com/okian/attrition/internal/domain/predictor"
	"github.com/okian/attrition/pkg/logger"
)

// Service implements the API dependencies for the attrition dashboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	datasets cache.DatasetCache
	sessions repository.Store

	// Configuration
	dataPath      string
	cacheSize     int
	maxSessions   int
	predictorOpts []predictor.Option
	now           func() time.Time
	newID         func() string

	// State
	started bool

	logger logger.Logger
}

// Start initializes the dataset cache and session store.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.datasets = cache.NewInMemoryCache(cache.WithMaxSize(s.cacheSize))
	s.sessions = repository.NewMemoryStore(repository.WithMaxSessions(s.maxSessions))

	s.started = true
	s.logger.Info(ctx, "attrition service started",
		logger.String("data_path", s.dataPath),
		logger.Int("cache_size", s.cacheSize),
		logger.Int("max_sessions", s.maxSessions),
	)
	return nil
}

// Stop drops all sessions and cached datasets.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.datasets = nil
	s.sessions = nil
	s.started = false
	s.logger.Info(context.Background(), "attrition service stopped")
}

// components returns the running store and cache, or ErrNotStarted.
func (s *Service) components() (repository.Store, cache.DatasetCache, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.sessions, s.datasets, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"dataPath":    s.dataPath,
		"cacheSize":   s.cacheSize,
		"maxSessions": s.maxSessions,
	}
	if s.started {
		stats["sessions"] = s.sessions.Count(context.Background())
		stats["cachedDatasets"] = s.datasets.Size()
	}
	return stats
}

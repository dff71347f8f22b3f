package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/okian/attrition/internal/domain/predictor"
	"github.com/okian/attrition/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDataPath sets the dataset opened for sessions created without an upload.
func WithDataPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dataPath = path
		}
	}
}

// WithCacheSize bounds the parsed dataset cache. Zero disables it.
func WithCacheSize(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.cacheSize = n
		}
	}
}

// WithMaxSessions bounds the number of open sessions.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithPredictorOptions sets the options used for every predictor build.
func WithPredictorOptions(opts ...predictor.Option) Option {
	return func(s *Service) {
		s.predictorOpts = opts
	}
}

// WithClock overrides the session timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataPath:    "data/employees.csv",
		cacheSize:   16,
		maxSessions: 256,
		now:         time.Now,
		newID:       uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

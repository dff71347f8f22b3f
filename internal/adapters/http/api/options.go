package api

import "github.com/okian/attrition/pkg/logger"

const (
	defaultMaxUploadBytes int64 = 32 << 20
	maxJSONBytes          int64 = 1 << 20
)

type serverConfig struct {
	maxUploadBytes int64
	logger         logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*serverConfig)

// WithMaxUploadBytes caps the size of an uploaded dataset.
func WithMaxUploadBytes(n int64) Option {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxUploadBytes = n
		}
	}
}

// WithLogger sets the logger used for server-side failures.
func WithLogger(l logger.Logger) Option {
	return func(c *serverConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

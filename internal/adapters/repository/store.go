// Package repository defines the session store interface and errors.
package repository

import (
	"context"

	"github.com/okian/attrition/internal/domain/model"
)

// Store provides access to open dashboard sessions.
type Store interface {
	// Create stores a new session. When the store is full the oldest
	// session is evicted and its id returned.
	Create(ctx context.Context, s *model.Session) (evicted string, err error)

	// Get returns the session with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*model.Session, error)

	// Delete removes the session with id, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Count returns the number of open sessions.
	Count(ctx context.Context) int
}

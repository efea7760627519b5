// internal/registry/registry.go
//
// Registry is the keyed store of active game sessions. Implementations may
// be backed by memory (this package) or Redis (redis.go). The registry is
// the single authority for session identity; callers treat session IDs as
// opaque strings.

package registry

import (
	"context"
	"errors"

	"github.com/wurdsmyth/go-server/internal/game"
)

// ErrNotFound is returned by Get for unknown or expired session IDs.
var ErrNotFound = errors.New("session not found")

// Registry defines the persistence interface for game sessions.
type Registry interface {
	// Save persists or updates a session and refreshes its TTL.
	Save(ctx context.Context, s *game.Session) error

	// Get retrieves a session by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*game.Session, error)

	// Delete removes a session. Deleting an absent session is not an error.
	Delete(ctx context.Context, id string) error

	// Count reports the number of live sessions.
	Count(ctx context.Context) (int, error)
}

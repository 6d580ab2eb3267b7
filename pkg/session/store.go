package session

import (
	"context"

	"github.com/google/uuid"
)

// Store defines the interface for session persistence.
// Implementations must be safe for concurrent use with distinct identifiers;
// concurrent writes to one identifier may resolve last-write-wins.
type Store interface {
	// Get retrieves a session by identifier.
	// Missing and expired sessions yield an error matching ErrNotFound.
	Get(ctx context.Context, id string) (Record, error)

	// Set creates or replaces a session
	Set(ctx context.Context, id string, rec Record) error

	// Destroy removes a session. Removing a missing session is not an error.
	Destroy(ctx context.Context, id string) error

	// All returns every live session keyed by identifier. Meant for diagnostics.
	All(ctx context.Context) (map[string]Record, error)
}

// IDGenerator produces new session identifiers.
type IDGenerator func(ctx context.Context) (string, error)

// UUIDGenerator returns random (version 4) UUID strings.
func UUIDGenerator(context.Context) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Package session stores login sessions. A user holds at most one live
// session; creating a new one evicts the previous.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gamingrealm/backend/internal/apperr"
)

// Session is a logged-in user's session
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// newSession creates a session for the given user
func newSession(userID string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
}

// Storage is a session storage backend
type Storage interface {
	// Get returns the session, or (nil, nil) when it does not exist or
	// has expired.
	Get(ctx context.Context, id string) (*Session, error)
	// Create stores a new session for the user, replacing any existing one.
	Create(ctx context.Context, userID string) (*Session, error)
	// Delete removes a session. Deleting an absent session is a
	// not-found error.
	Delete(ctx context.Context, id string) error
}

func errSessionNotFound(id string) error {
	return apperr.NotFound("session %s does not exist", id)
}

// Package session implements session persistence and profile resolution:
// recovery of a cached session on startup, reconciliation with the backend
// as source of truth under bounded waits, and degradation to cached or
// synthesized profiles when the backend is slow or unreachable.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"cleanops/internal/model"
)

// Identity is the user identity embedded in a session. Name is display
// metadata only and must never feed authorization decisions.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name,omitempty"`
}

// Session is the backend-issued proof of authentication plus token material.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         Identity  `json:"user"`
}

// Client is the authentication and data gateway the session engine talks to.
// Implementations must not retain pointers passed to them past the call.
type Client interface {
	SignUp(ctx context.Context, email, password, name string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
	// CurrentSession returns the live session, or (nil, nil) when there is none.
	CurrentSession(ctx context.Context) (*Session, error)
	// SetSession re-establishes a previously issued token bundle so that
	// subsequent calls are authenticated. Returns the refreshed bundle.
	SetSession(ctx context.Context, s *Session) (*Session, error)
	ResetPassword(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, currentPassword, newPassword string) error
	ProfileByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	UpdateProfile(ctx context.Context, p *model.Profile) (*model.Profile, error)
	// OnAuthStateChange registers a callback fired on sign-in, token refresh
	// and sign-out (nil session). Callbacks may fire concurrently with an
	// in-flight Resolve; the facade's generation counter decides the winner.
	OnAuthStateChange(fn func(*Session))
}

// Package backend adapts the service layer to the session engine's Client
// interface, so the resolver and facade talk to the database and token
// machinery the same way a device talks to a hosted backend.
package backend

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"cleanops/internal/model"
	"cleanops/internal/repository"
	"cleanops/internal/service"
	"cleanops/internal/session"
)

// ErrNoSession is returned by operations that need an established session.
var ErrNoSession = errors.New("no established session")

// Client implements session.Client over AuthService and the profile
// repository. One Client carries at most one established session, mirroring
// a device-side SDK instance.
type Client struct {
	auth     service.AuthService
	profiles repository.ProfileRepository

	mu       sync.Mutex
	current  *session.Session
	handlers []func(*session.Session)
}

var _ session.Client = (*Client)(nil)

// New creates a backend client with no established session.
func New(auth service.AuthService, profiles repository.ProfileRepository) *Client {
	return &Client{auth: auth, profiles: profiles}
}

// SignUp registers a profile and establishes the resulting session.
func (c *Client) SignUp(ctx context.Context, email, password, name string) (*session.Session, error) {
	profile, pair, err := c.auth.SignUp(ctx, service.SignUpInput{
		Email:    email,
		Password: password,
		Name:     name,
	})
	if err != nil {
		return nil, err
	}
	s := bundle(profile.ID, profile.Email, profile.Name, pair.AccessToken, pair.RefreshToken, pair.ExpiresAt)
	c.establish(s)
	return s, nil
}

// SignIn authenticates and establishes the resulting session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*session.Session, error) {
	profile, pair, err := c.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s := bundle(profile.ID, profile.Email, profile.Name, pair.AccessToken, pair.RefreshToken, pair.ExpiresAt)
	c.establish(s)
	return s, nil
}

// SignOut revokes the established session's tokens.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	current := c.current
	c.current = nil
	c.mu.Unlock()
	if current == nil {
		return nil
	}

	err := c.auth.SignOut(ctx, current.AccessToken, current.RefreshToken)
	c.notify(nil)
	return err
}

// CurrentSession returns the established session, refreshing it when the
// access token has expired. (nil, nil) means no session.
func (c *Client) CurrentSession(ctx context.Context) (*session.Session, error) {
	c.mu.Lock()
	current := c.current
	c.mu.Unlock()
	if current == nil {
		return nil, nil
	}
	if session.IsSessionValid(current) {
		return current, nil
	}
	return c.refresh(ctx, current)
}

// SetSession re-establishes a previously issued token bundle. An expired
// access token is refreshed; an unknown one is rejected.
func (c *Client) SetSession(ctx context.Context, s *session.Session) (*session.Session, error) {
	if s == nil {
		return nil, ErrNoSession
	}

	claims, err := c.auth.ValidateAccess(ctx, s.AccessToken)
	if err == nil {
		id, perr := uuid.Parse(claims.UserID)
		if perr != nil {
			return nil, perr
		}
		established := bundle(id, claims.Email, claims.Name, s.AccessToken, s.RefreshToken, claims.ExpiresAt.Time)
		c.establish(established)
		return established, nil
	}

	// Access token no longer valid, try the refresh token.
	return c.refresh(ctx, s)
}

func (c *Client) refresh(ctx context.Context, s *session.Session) (*session.Session, error) {
	pair, err := c.auth.Refresh(ctx, s.RefreshToken)
	if err != nil {
		return nil, err
	}

	// A restoring device presents tokens only, so the stale bundle may carry
	// no identity. Who the session belongs to comes from the claims of the
	// freshly minted access token.
	claims, err := c.auth.ValidateAccess(ctx, pair.AccessToken)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, err
	}
	refreshed := bundle(id, claims.Email, claims.Name, pair.AccessToken, pair.RefreshToken, pair.ExpiresAt)
	c.establish(refreshed)
	return refreshed, nil
}

// ResetPassword dispatches a password reset.
func (c *Client) ResetPassword(ctx context.Context, email string) error {
	return c.auth.ResetPassword(ctx, email)
}

// UpdatePassword changes the established user's password.
func (c *Client) UpdatePassword(ctx context.Context, currentPassword, newPassword string) error {
	current := c.session()
	if current == nil {
		return ErrNoSession
	}
	return c.auth.UpdatePassword(ctx, current.User.ID, currentPassword, newPassword)
}

// ProfileByID queries the canonical profile row.
func (c *Client) ProfileByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	return c.profiles.FindByID(ctx, id)
}

// UpdateProfile writes the established user's own profile fields. The role
// column is never written through this path.
func (c *Client) UpdateProfile(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	current := c.session()
	if current == nil {
		return nil, ErrNoSession
	}
	if p.ID != uuid.Nil && p.ID != current.User.ID {
		return nil, errors.New("cannot update another user's profile")
	}

	existing, err := c.profiles.FindByID(ctx, current.User.ID)
	if err != nil {
		return nil, err
	}
	if p.Name != "" {
		existing.Name = p.Name
	}
	if p.Phone != "" {
		existing.Phone = p.Phone
	}
	if p.Address != "" {
		existing.Address = p.Address
	}
	if err := c.profiles.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// OnAuthStateChange registers a callback for session establishment and
// sign-out. Callbacks run on their own goroutine.
func (c *Client) OnAuthStateChange(fn func(*session.Session)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, fn)
}

func (c *Client) establish(s *session.Session) {
	c.mu.Lock()
	c.current = s
	c.mu.Unlock()
	c.notify(s)
}

func (c *Client) session() *session.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Client) notify(s *session.Session) {
	c.mu.Lock()
	handlers := make([]func(*session.Session), len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()
	for _, fn := range handlers {
		go fn(s)
	}
}

func bundle(id uuid.UUID, email, name, accessToken, refreshToken string, expiresAt time.Time) *session.Session {
	return &session.Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User: session.Identity{
			ID:    id,
			Email: email,
			Name:  name,
		},
	}
}

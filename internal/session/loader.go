package session

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"cleanops/internal/model"
)

// Loader resolves the canonical profile for a user, preferring the backend
// row and degrading to the cached profile, then to a synthesized minimal one.
type Loader struct {
	store   *Store
	client  Client
	timeout time.Duration
}

// NewLoader creates a profile loader with the given fetch timeout.
func NewLoader(store *Store, client Client, timeout time.Duration) *Loader {
	return &Loader{store: store, client: client, timeout: timeout}
}

type profileResult struct {
	profile *model.Profile
	err     error
}

// Load returns a usable profile for userID; it never fails outward. The
// backend row is authoritative when it arrives within the timeout; otherwise
// the cached profile is used, else a minimal profile is synthesized from the
// session hint. Synthesis always yields the least-privileged role, but a
// cached profile keeps whatever role it was confirmed with.
func (l *Loader) Load(ctx context.Context, userID uuid.UUID, hint *Session) *model.Profile {
	cached := l.store.LoadProfile(ctx)

	ch := make(chan profileResult, 1)
	go func() {
		p, err := l.client.ProfileByID(ctx, userID)
		ch <- profileResult{profile: p, err: err}
	}()

	select {
	case res := <-ch:
		if res.err == nil && res.profile != nil {
			l.store.SaveProfile(ctx, res.profile)
			return res.profile
		}
	case <-time.After(l.timeout):
		// The fetch is abandoned, not cancelled; a late result lands in the
		// buffered channel and is discarded.
	}

	if cached != nil {
		return cached
	}
	p := DefaultProfile(userID, hint)
	l.store.SaveProfile(ctx, p)
	return p
}

// DefaultProfile synthesizes the minimal profile used whenever no
// authoritative or cached data is available. The role is always RoleUser:
// uncertainty must never grant elevated privileges.
func DefaultProfile(userID uuid.UUID, hint *Session) *model.Profile {
	var name, email string
	if hint != nil {
		name = hint.User.Name
		email = hint.User.Email
	}
	if name == "" && email != "" {
		name = email[:strings.IndexByte(email+"@", '@')]
	}
	if name == "" {
		name = "Usuario"
	}
	return &model.Profile{
		ID:        userID,
		Name:      name,
		Email:     email,
		Role:      model.RoleUser,
		Active:    true,
		CreatedAt: time.Now(),
	}
}

package session

import (
	"context"
	"sync"

	"cleanops/internal/model"
)

// Facade is the single writer for resolved auth state and the read surface
// the rest of the application consumes. Every state write is tagged with a
// monotonically increasing generation; only the highest generation is
// applied, so a stale resolution can never overwrite a newer auth event.
type Facade struct {
	mu     sync.RWMutex
	client Client
	store  *Store
	loader *Loader

	session      *Session
	profile      *model.Profile
	initializing bool
	generation   uint64
	applied      uint64
}

// NewFacade creates a facade subscribed to the client's auth state changes.
func NewFacade(client Client, store *Store, loader *Loader) *Facade {
	f := &Facade{
		client:       client,
		store:        store,
		loader:       loader,
		initializing: true,
	}
	client.OnAuthStateChange(f.onAuthStateChange)
	return f
}

func (f *Facade) nextGeneration() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generation++
	return f.generation
}

// apply installs (session, profile) unless a newer generation already won.
func (f *Facade) apply(gen uint64, s *Session, p *model.Profile) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if gen < f.applied {
		return false
	}
	f.applied = gen
	f.session = s
	f.profile = p
	return true
}

func (f *Facade) applyProfile(gen uint64, p *model.Profile) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if gen < f.applied {
		return false
	}
	f.applied = gen
	f.profile = p
	return true
}

// settle marks initialization complete. Failure paths settle too: the UI
// must never be stuck on a loading state.
func (f *Facade) settle() {
	f.mu.Lock()
	f.initializing = false
	f.mu.Unlock()
}

func (f *Facade) onAuthStateChange(s *Session) {
	gen := f.nextGeneration()
	ctx := context.Background()
	if s == nil {
		f.store.Clear(ctx)
		f.apply(gen, nil, nil)
		return
	}
	f.store.Save(ctx, s)
	p := f.loader.Load(ctx, s.User.ID, s)
	f.apply(gen, s, p)
}

// Session returns the current session, nil when unauthenticated.
func (f *Facade) Session() *Session {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.session
}

// Profile returns the current profile, nil when unauthenticated.
func (f *Facade) Profile() *model.Profile {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.profile
}

// Initializing reports whether startup resolution has not settled yet.
func (f *Facade) Initializing() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.initializing
}

// IsAuthenticated reports whether a session is present.
func (f *Facade) IsAuthenticated() bool {
	return f.Session() != nil
}

// IsAdmin reports whether the resolved profile carries the admin role.
func (f *Facade) IsAdmin() bool {
	p := f.Profile()
	return p != nil && p.Role == model.RoleAdmin
}

// IsUser reports whether the resolved profile carries the user role.
func (f *Facade) IsUser() bool {
	p := f.Profile()
	return p != nil && p.Role == model.RoleUser
}

// HasPermission checks the capability against the static permission table
// for the resolved role. Unknown or missing roles get the user row.
func (f *Facade) HasPermission(c Capability) bool {
	var role model.Role
	if p := f.Profile(); p != nil {
		role = p.Role
	}
	return HasPermission(role, c)
}

// SignUp registers a new account and installs the resulting session.
func (f *Facade) SignUp(ctx context.Context, email, password, name string) error {
	s, err := f.client.SignUp(ctx, email, password, name)
	if err != nil {
		return err
	}
	f.establish(ctx, s)
	return nil
}

// SignIn authenticates and installs the resulting session.
func (f *Facade) SignIn(ctx context.Context, email, password string) error {
	s, err := f.client.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	f.establish(ctx, s)
	return nil
}

// SignOut revokes the session. Both cache slots are cleared and local state
// dropped even when the backend call fails.
func (f *Facade) SignOut(ctx context.Context) error {
	err := f.client.SignOut(ctx)
	f.store.Clear(ctx)
	f.apply(f.nextGeneration(), nil, nil)
	return err
}

// ResetPassword dispatches a password reset for the given email.
func (f *Facade) ResetPassword(ctx context.Context, email string) error {
	return f.client.ResetPassword(ctx, email)
}

// UpdatePassword changes the authenticated user's password.
func (f *Facade) UpdatePassword(ctx context.Context, currentPassword, newPassword string) error {
	return f.client.UpdatePassword(ctx, currentPassword, newPassword)
}

// UpdateProfile writes the profile through the backend. Local state and
// cache are only touched after the write is confirmed.
func (f *Facade) UpdateProfile(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	updated, err := f.client.UpdateProfile(ctx, p)
	if err != nil {
		return nil, err
	}
	f.store.SaveProfile(ctx, updated)
	f.applyProfile(f.nextGeneration(), updated)
	return updated, nil
}

func (f *Facade) establish(ctx context.Context, s *Session) {
	gen := f.nextGeneration()
	f.store.Save(ctx, s)
	p := f.loader.Load(ctx, s.User.ID, s)
	f.apply(gen, s, p)
}

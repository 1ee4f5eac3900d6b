package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"cleanops/internal/model"
)

// Resolver orchestrates startup session recovery: cached state first, then a
// live lookup under a bounded wait. It settles the facade exactly once per
// process lifetime, regardless of the path taken or errors encountered, so
// callers can never be left waiting on initialization.
type Resolver struct {
	store          *Store
	loader         *Loader
	client         Client
	facade         *Facade
	sessionTimeout time.Duration
	once           sync.Once
}

// NewResolver creates a resolver with the given session restore timeout.
func NewResolver(store *Store, loader *Loader, client Client, facade *Facade, sessionTimeout time.Duration) *Resolver {
	return &Resolver{
		store:          store,
		loader:         loader,
		client:         client,
		facade:         facade,
		sessionTimeout: sessionTimeout,
	}
}

// Resolve runs the recovery protocol. Subsequent calls are no-ops; an auth
// state change arriving mid-resolution races with settlement and the highest
// generation wins.
func (r *Resolver) Resolve(ctx context.Context) {
	r.once.Do(func() {
		gen := r.facade.nextGeneration()
		defer r.facade.settle()
		sess, profile := r.recover(ctx)
		r.facade.apply(gen, sess, profile)
	})
}

func (r *Resolver) recover(ctx context.Context) (*Session, *model.Profile) {
	if cached := r.store.Load(ctx); cached != nil {
		established, err := r.client.SetSession(ctx, cached)
		if err == nil && established != nil {
			if p := r.store.LoadProfile(ctx); p != nil {
				// Cached profile wins over a remote fetch on this path:
				// instant paint after a warm restart beats freshness.
				return established, p
			}
			return established, r.loader.Load(ctx, established.User.ID, established)
		}
		// re-establishment failed, fall through to a live lookup
	}

	sess, err := r.currentSession(ctx)
	if err != nil || sess == nil {
		// No retry loop: the user signs in manually.
		return nil, nil
	}
	return sess, r.loader.Load(ctx, sess.User.ID, sess)
}

var errRestoreTimeout = errors.New("session restore timed out")

type sessionResult struct {
	session *Session
	err     error
}

func (r *Resolver) currentSession(ctx context.Context) (*Session, error) {
	ch := make(chan sessionResult, 1)
	go func() {
		s, err := r.client.CurrentSession(ctx)
		ch <- sessionResult{session: s, err: err}
	}()

	select {
	case res := <-ch:
		return res.session, res.err
	case <-time.After(r.sessionTimeout):
		// The lookup is abandoned, not cancelled; a late result lands in
		// the buffered channel and is discarded.
		return nil, errRestoreTimeout
	}
}

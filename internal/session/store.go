package session

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"cleanops/internal/model"
)

// Cache is the subset of cache operations the store needs. Implementations
// are expected to fail safe: a failed read behaves as a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// UserScope is the store scope for a user's cache slots. Every path that
// caches a profile for the same user must share one scope so that writes
// stay last-writer-wins over a single slot.
func UserScope(id uuid.UUID) string {
	return "user:" + id.String()
}

// schemaVersion guards the persisted blob layout. Envelopes with a different
// version are discarded as cache misses and rebuilt from the backend.
const schemaVersion = 1

const (
	sessionSlot = "session"
	profileSlot = "profile"
)

type envelope struct {
	Version int             `json:"version"`
	Payload json.RawMessage `json:"payload"`
}

// Store persists a serialized session and profile under two fixed slots
// scoped by a key prefix. It is a cache, not a durability guarantee: every
// operation swallows failures and a failed read behaves as a miss.
type Store struct {
	cache Cache
	scope string
	ttl   time.Duration
}

// NewStore creates a store whose slots are scoped by the given key, one
// logical store per device or user context.
func NewStore(c Cache, scope string, ttl time.Duration) *Store {
	return &Store{cache: c, scope: scope, ttl: ttl}
}

func (s *Store) key(slot string) string {
	return "session_store:" + s.scope + ":" + slot
}

// Save persists the session, or clears the slot when sess is nil.
func (s *Store) Save(ctx context.Context, sess *Session) {
	s.saveSlot(ctx, sessionSlot, sess)
}

// Load returns the persisted session, or nil on absence or parse failure.
func (s *Store) Load(ctx context.Context) *Session {
	var sess Session
	if !s.loadSlot(ctx, sessionSlot, &sess) {
		return nil
	}
	return &sess
}

// SaveProfile persists the profile, or clears the slot when p is nil.
func (s *Store) SaveProfile(ctx context.Context, p *model.Profile) {
	s.saveSlot(ctx, profileSlot, p)
}

// LoadProfile returns the persisted profile, or nil on absence or parse failure.
func (s *Store) LoadProfile(ctx context.Context) *model.Profile {
	var p model.Profile
	if !s.loadSlot(ctx, profileSlot, &p) {
		return nil
	}
	return &p
}

// Clear removes both slots. Best effort: partial failure leaves stale data,
// which the next resolution replaces with fresh backend state.
func (s *Store) Clear(ctx context.Context) {
	_ = s.cache.Delete(ctx, s.key(sessionSlot))
	_ = s.cache.Delete(ctx, s.key(profileSlot))
}

func (s *Store) saveSlot(ctx context.Context, slot string, v interface{}) {
	key := s.key(slot)
	if v == nil || isNilPointer(v) {
		_ = s.cache.Delete(ctx, key)
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("session store: marshal %s: %v", slot, err)
		return
	}
	blob, err := json.Marshal(envelope{Version: schemaVersion, Payload: payload})
	if err != nil {
		log.Printf("session store: marshal envelope %s: %v", slot, err)
		return
	}
	_ = s.cache.Set(ctx, key, blob, s.ttl)
}

func (s *Store) loadSlot(ctx context.Context, slot string, out interface{}) bool {
	data, _ := s.cache.Get(ctx, s.key(slot))
	if data == nil {
		return false
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Version != schemaVersion {
		return false
	}
	if err := json.Unmarshal(env.Payload, out); err != nil {
		return false
	}
	return true
}

func isNilPointer(v interface{}) bool {
	switch t := v.(type) {
	case *Session:
		return t == nil
	case *model.Profile:
		return t == nil
	}
	return false
}

// IsSessionValid reports whether the session carries an expiry strictly in
// the future. A zero expiry is invalid.
func IsSessionValid(s *Session) bool {
	if s == nil || s.ExpiresAt.IsZero() {
		return false
	}
	return s.ExpiresAt.After(time.Now())
}

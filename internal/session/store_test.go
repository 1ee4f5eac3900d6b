package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"cleanops/internal/model"
)

func TestStore_SessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMemoryCache(), "device:test", time.Hour)

	id := uuid.New()
	sess := testSession(id, "test@example.com", "Test User")
	store.Save(ctx, sess)

	loaded := store.Load(ctx)
	assert.NotNil(t, loaded)
	assert.Equal(t, sess.AccessToken, loaded.AccessToken)
	assert.Equal(t, sess.RefreshToken, loaded.RefreshToken)
	assert.Equal(t, id, loaded.User.ID)
	assert.Equal(t, "test@example.com", loaded.User.Email)
}

func TestStore_ProfileRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMemoryCache(), "user:test", time.Hour)

	profile := testProfile(uuid.New(), model.RoleAdmin)
	store.SaveProfile(ctx, profile)

	loaded := store.LoadProfile(ctx)
	assert.NotNil(t, loaded)
	assert.Equal(t, profile.ID, loaded.ID)
	assert.Equal(t, model.RoleAdmin, loaded.Role)
}

func TestStore_SaveNilClearsSlot(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMemoryCache(), "device:test", time.Hour)

	store.Save(ctx, testSession(uuid.New(), "a@b.com", ""))
	assert.NotNil(t, store.Load(ctx))

	store.Save(ctx, nil)
	assert.Nil(t, store.Load(ctx))

	store.SaveProfile(ctx, testProfile(uuid.New(), model.RoleUser))
	assert.NotNil(t, store.LoadProfile(ctx))

	store.SaveProfile(ctx, nil)
	assert.Nil(t, store.LoadProfile(ctx))
}

func TestStore_EmptyCacheIsMiss(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMemoryCache(), "device:test", time.Hour)

	assert.Nil(t, store.Load(ctx))
	assert.Nil(t, store.LoadProfile(ctx))
}

func TestStore_VersionMismatchIsMiss(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryCache()
	store := NewStore(mem, "device:test", time.Hour)

	payload, _ := json.Marshal(testSession(uuid.New(), "a@b.com", ""))
	blob, _ := json.Marshal(envelope{Version: schemaVersion + 1, Payload: payload})
	_ = mem.Set(ctx, store.key(sessionSlot), blob, time.Hour)

	assert.Nil(t, store.Load(ctx))
}

func TestStore_CorruptBlobIsMiss(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryCache()
	store := NewStore(mem, "device:test", time.Hour)

	_ = mem.Set(ctx, store.key(sessionSlot), []byte("not json at all"), time.Hour)
	assert.Nil(t, store.Load(ctx))

	_ = mem.Set(ctx, store.key(profileSlot), []byte(`{"version":1,"payload":"garbage"}`), time.Hour)
	assert.Nil(t, store.LoadProfile(ctx))
}

func TestStore_ClearRemovesBothSlots(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryCache()
	store := NewStore(mem, "device:test", time.Hour)

	store.Save(ctx, testSession(uuid.New(), "a@b.com", ""))
	store.SaveProfile(ctx, testProfile(uuid.New(), model.RoleUser))
	assert.Equal(t, 2, mem.len())

	store.Clear(ctx)
	assert.Equal(t, 0, mem.len())
	assert.Nil(t, store.Load(ctx))
	assert.Nil(t, store.LoadProfile(ctx))
}

func TestStore_ScopesAreIsolated(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryCache()
	storeA := NewStore(mem, "device:a", time.Hour)
	storeB := NewStore(mem, "device:b", time.Hour)

	storeA.Save(ctx, testSession(uuid.New(), "a@b.com", ""))
	assert.NotNil(t, storeA.Load(ctx))
	assert.Nil(t, storeB.Load(ctx))
}

func TestIsSessionValid(t *testing.T) {
	tests := []struct {
		name    string
		session *Session
		want    bool
	}{
		{
			name:    "nil session",
			session: nil,
			want:    false,
		},
		{
			name:    "zero expiry",
			session: &Session{AccessToken: "t"},
			want:    false,
		},
		{
			name:    "expired",
			session: &Session{AccessToken: "t", ExpiresAt: time.Now().Add(-time.Minute)},
			want:    false,
		},
		{
			name:    "valid",
			session: &Session{AccessToken: "t", ExpiresAt: time.Now().Add(time.Minute)},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSessionValid(tt.session))
		})
	}
}

package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"cleanops/internal/model"
)

// memoryCache is an in-process Cache for tests.
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// MockClient is a mock implementation of Client.
type MockClient struct {
	mock.Mock

	handlerMu sync.Mutex
	handlers  []func(*Session)
}

func (m *MockClient) SignUp(ctx context.Context, email, password, name string) (*Session, error) {
	args := m.Called(ctx, email, password, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockClient) SignOut(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockClient) CurrentSession(ctx context.Context) (*Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockClient) SetSession(ctx context.Context, s *Session) (*Session, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockClient) ResetPassword(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockClient) UpdatePassword(ctx context.Context, currentPassword, newPassword string) error {
	args := m.Called(ctx, currentPassword, newPassword)
	return args.Error(0)
}

func (m *MockClient) ProfileByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockClient) UpdateProfile(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

// OnAuthStateChange records the handler so tests can fire auth events
// directly. It is registration, not behavior, so it bypasses the mock
// expectation machinery.
func (m *MockClient) OnAuthStateChange(fn func(*Session)) {
	m.handlerMu.Lock()
	defer m.handlerMu.Unlock()
	m.handlers = append(m.handlers, fn)
}

func (m *MockClient) fireAuthStateChange(s *Session) {
	m.handlerMu.Lock()
	handlers := append([]func(*Session){}, m.handlers...)
	m.handlerMu.Unlock()
	for _, fn := range handlers {
		fn(s)
	}
}

func testSession(id uuid.UUID, email, name string) *Session {
	return &Session{
		AccessToken:  "access-" + id.String(),
		RefreshToken: "refresh-" + id.String(),
		ExpiresAt:    time.Now().Add(15 * time.Minute),
		User:         Identity{ID: id, Email: email, Name: name},
	}
}

func testProfile(id uuid.UUID, role model.Role) *model.Profile {
	return &model.Profile{
		ID:     id,
		Name:   "Test User",
		Email:  "test@example.com",
		Role:   role,
		Active: true,
	}
}

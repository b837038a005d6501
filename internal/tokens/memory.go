package tokens

import (
	"context"
	"sync"
)

// MemoryStorage keeps tokens in process memory
type MemoryStorage struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

// NewMemoryStorage creates an empty in-memory token storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) AccessToken(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.access, nil
}

func (m *MemoryStorage) SetAccessToken(_ context.Context, token string) error {
	m.mu.Lock()
	m.access = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) ClearAccessToken(_ context.Context) error {
	return m.SetAccessToken(context.Background(), "")
}

func (m *MemoryStorage) RefreshToken(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refresh, nil
}

func (m *MemoryStorage) SetRefreshToken(_ context.Context, token string) error {
	m.mu.Lock()
	m.refresh = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) ClearRefreshToken(_ context.Context) error {
	return m.SetRefreshToken(context.Background(), "")
}

var _ Storage = (*MemoryStorage)(nil)

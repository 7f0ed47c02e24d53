package creator

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// PhotoStore persists photo bytes.
type PhotoStore interface {
	Backend() string
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// MemoryPhotoStore keeps photos in memory. It backs the "none" photo
// backend and tests.
type MemoryPhotoStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	baseURL string
}

// NewMemoryPhotoStore returns an empty store whose URLs start with baseURL.
func NewMemoryPhotoStore(baseURL string) *MemoryPhotoStore {
	return &MemoryPhotoStore{objects: make(map[string][]byte), baseURL: strings.TrimRight(baseURL, "/")}
}

// Backend implements PhotoStore.
func (m *MemoryPhotoStore) Backend() string { return "memory" }

// Put implements PhotoStore.
func (m *MemoryPhotoStore) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), data...)
	return m.baseURL + "/photos/" + key, nil
}

// Get implements PhotoStore.
func (m *MemoryPhotoStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPhotoNotFound, key)
	}
	return data, nil
}

// Delete implements PhotoStore.
func (m *MemoryPhotoStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Keys returns the stored keys.
func (m *MemoryPhotoStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	return keys
}

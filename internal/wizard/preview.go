package wizard

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/imamik/rentwise/internal/property"
	"github.com/imamik/rentwise/internal/util/naming"
)

// PreviewHandle is a scoped reference to a previewable copy of a photo.
// It stays valid until released.
type PreviewHandle struct {
	ID  string `json:"id"`
	URI string `json:"uri"`
}

// PreviewStore hands out preview handles. Every acquired handle must be
// released; Close releases whatever is still live.
type PreviewStore interface {
	Acquire(photo property.Photo) (PreviewHandle, error)
	Release(h PreviewHandle) error
	Open(h PreviewHandle) (io.ReadCloser, error)
	Live() int
	Close() error
}

// TempDirStore writes each preview to its own file in a private temporary
// directory. The directory is created on first use and removed on Close.
type TempDirStore struct {
	mu     sync.Mutex
	parent string
	dir    string
	live   map[string]string
}

// NewTempDirStore returns a store rooted under parent ("" for os.TempDir).
func NewTempDirStore(parent string) *TempDirStore {
	return &TempDirStore{parent: parent, live: make(map[string]string)}
}

// Acquire implements PreviewStore.
func (s *TempDirStore) Acquire(photo property.Photo) (PreviewHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dir == "" {
		dir, err := os.MkdirTemp(s.parent, "rentwise-preview-*")
		if err != nil {
			return PreviewHandle{}, fmt.Errorf("failed to create preview dir: %w", err)
		}
		s.dir = dir
	}

	id := uuid.NewString()
	path := filepath.Join(s.dir, naming.PreviewFile(id, photo.Name))
	if err := os.WriteFile(path, photo.Data, 0o600); err != nil {
		return PreviewHandle{}, fmt.Errorf("failed to write preview: %w", err)
	}
	s.live[id] = path
	return PreviewHandle{ID: id, URI: path}, nil
}

// Release implements PreviewStore.
func (s *TempDirStore) Release(h PreviewHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, ok := s.live[h.ID]
	if !ok {
		return ErrUnknownHandle
	}
	delete(s.live, h.ID)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove preview: %w", err)
	}
	return nil
}

// Open implements PreviewStore.
func (s *TempDirStore) Open(h PreviewHandle) (io.ReadCloser, error) {
	s.mu.Lock()
	path, ok := s.live[h.ID]
	s.mu.Unlock()
	if !ok {
		return nil, ErrUnknownHandle
	}
	return os.Open(path)
}

// Live implements PreviewStore.
func (s *TempDirStore) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// Dir returns the preview directory, or "" before the first Acquire.
func (s *TempDirStore) Dir() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dir
}

// Close implements PreviewStore.
func (s *TempDirStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.live = make(map[string]string)
	if s.dir == "" {
		return nil
	}
	dir := s.dir
	s.dir = ""
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove preview dir: %w", err)
	}
	return nil
}

// MemoryStore keeps previews in memory. Used by the HTTP server and tests.
type MemoryStore struct {
	mu       sync.Mutex
	live     map[string][]byte
	released int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{live: make(map[string][]byte)}
}

// Acquire implements PreviewStore.
func (s *MemoryStore) Acquire(photo property.Photo) (PreviewHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.live[id] = photo.Data
	return PreviewHandle{ID: id, URI: "mem://" + id}, nil
}

// Release implements PreviewStore.
func (s *MemoryStore) Release(h PreviewHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.live[h.ID]; !ok {
		return ErrUnknownHandle
	}
	delete(s.live, h.ID)
	s.released++
	return nil
}

// Open implements PreviewStore.
func (s *MemoryStore) Open(h PreviewHandle) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.live[h.ID]
	if !ok {
		return nil, ErrUnknownHandle
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Live implements PreviewStore.
func (s *MemoryStore) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// Released returns how many handles have been released, including by Close.
func (s *MemoryStore) Released() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}

// Close implements PreviewStore.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.released += len(s.live)
	s.live = make(map[string][]byte)
	return nil
}

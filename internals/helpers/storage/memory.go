package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryStore: BlobStore di memori, dipakai di test. PutErr bisa diisi untuk simulasi gagal upload.
type MemoryStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Types   map[string]string
	PutErr  error
	Base    string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Objects: map[string][]byte{},
		Types:   map[string]string{},
		Base:    "https://cdn.test",
	}
}

func (m *MemoryStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return m.PutErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if size >= 0 && int64(len(b)) != size {
		return fmt.Errorf("size mismatch: %d != %d", len(b), size)
	}
	m.Objects[key] = b
	m.Types[key] = contentType
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, key)
	delete(m.Types, key)
	return nil
}

func (m *MemoryStore) PublicURL(key string) string {
	return m.Base + "/" + key
}

func (m *MemoryStore) KeyFromURL(publicURL string) (string, error) {
	return keyFromBase(m.Base, publicURL)
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Objects)
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

var ErrStagedNotFound = errors.New("berkas sementara tidak ditemukan")

// StagedMeta: metadata binary yang belum durable.
type StagedMeta struct {
	Handle      string    `json:"handle"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Staging menampung binary lampiran form sampai submit (atau sampai kedaluwarsa).
type Staging interface {
	Stage(ctx context.Context, data []byte, meta StagedMeta) (StagedMeta, error)
	Load(ctx context.Context, handle string) ([]byte, StagedMeta, error)
	Release(ctx context.Context, handle string) error
	// Touch memperbarui umur handle yang masih dipakai sesi aktif agar tidak ikut disapu.
	Touch(ctx context.Context, handles ...string) error
	Sweep(ctx context.Context, olderThan time.Time) (int, error)
}

func validHandle(h string) bool {
	_, err := uuid.Parse(h)
	return err == nil
}

/* =======================================================================
   Filesystem staging: {dir}/{handle}.bin + {handle}.json
======================================================================= */

type FSStaging struct {
	Dir string
	now func() time.Time
}

func NewFSStaging(dir string) (*FSStaging, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir staging: %w", err)
	}
	return &FSStaging{Dir: dir, now: time.Now}, nil
}

func (s *FSStaging) paths(handle string) (bin, meta string) {
	return filepath.Join(s.Dir, handle+".bin"), filepath.Join(s.Dir, handle+".json")
}

func (s *FSStaging) Stage(ctx context.Context, data []byte, meta StagedMeta) (StagedMeta, error) {
	meta.Handle = uuid.NewString()
	meta.Size = int64(len(data))
	meta.CreatedAt = s.now()

	bin, mp := s.paths(meta.Handle)
	if err := os.WriteFile(bin, data, 0o644); err != nil {
		return StagedMeta{}, err
	}
	raw, err := sonic.Marshal(meta)
	if err != nil {
		os.Remove(bin)
		return StagedMeta{}, err
	}
	if err := os.WriteFile(mp, raw, 0o644); err != nil {
		os.Remove(bin)
		return StagedMeta{}, err
	}
	return meta, nil
}

func (s *FSStaging) Load(ctx context.Context, handle string) ([]byte, StagedMeta, error) {
	if !validHandle(handle) {
		return nil, StagedMeta{}, ErrStagedNotFound
	}
	bin, mp := s.paths(handle)
	raw, err := os.ReadFile(mp)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, StagedMeta{}, ErrStagedNotFound
		}
		return nil, StagedMeta{}, err
	}
	var meta StagedMeta
	if err := sonic.Unmarshal(raw, &meta); err != nil {
		return nil, StagedMeta{}, err
	}
	data, err := os.ReadFile(bin)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, StagedMeta{}, ErrStagedNotFound
		}
		return nil, StagedMeta{}, err
	}
	return data, meta, nil
}

func (s *FSStaging) Release(ctx context.Context, handle string) error {
	if !validHandle(handle) {
		return nil
	}
	bin, mp := s.paths(handle)
	for _, p := range []string{bin, mp} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Touch: umur staging dibaca dari mtime berkas meta.
func (s *FSStaging) Touch(ctx context.Context, handles ...string) error {
	now := s.now()
	for _, h := range handles {
		if !validHandle(h) {
			continue
		}
		_, mp := s.paths(h)
		if err := os.Chtimes(mp, now, now); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func (s *FSStaging) Sweep(ctx context.Context, olderThan time.Time) (int, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if ctx.Err() != nil {
			return n, ctx.Err()
		}
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(olderThan) {
			continue
		}
		if err := s.Release(ctx, strings.TrimSuffix(name, ".json")); err == nil {
			n++
		}
	}
	return n, nil
}

/* =======================================================================
   Memory staging (test / dev)
======================================================================= */

type memItem struct {
	data    []byte
	meta    StagedMeta
	touched time.Time
}

type MemoryStaging struct {
	mu    sync.Mutex
	items map[string]memItem
	Now   func() time.Time
}

func NewMemoryStaging() *MemoryStaging {
	return &MemoryStaging{items: map[string]memItem{}, Now: time.Now}
}

func (m *MemoryStaging) Stage(ctx context.Context, data []byte, meta StagedMeta) (StagedMeta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	meta.Handle = uuid.NewString()
	meta.Size = int64(len(data))
	meta.CreatedAt = m.Now()
	m.items[meta.Handle] = memItem{data: append([]byte(nil), data...), meta: meta, touched: meta.CreatedAt}
	return meta, nil
}

func (m *MemoryStaging) Load(ctx context.Context, handle string) ([]byte, StagedMeta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[handle]
	if !ok {
		return nil, StagedMeta{}, ErrStagedNotFound
	}
	return it.data, it.meta, nil
}

func (m *MemoryStaging) Release(ctx context.Context, handle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, handle)
	return nil
}

func (m *MemoryStaging) Touch(ctx context.Context, handles ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.Now()
	for _, h := range handles {
		if it, ok := m.items[h]; ok {
			it.touched = now
			m.items[h] = it
		}
	}
	return nil
}

func (m *MemoryStaging) Sweep(ctx context.Context, olderThan time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for h, it := range m.items {
		if it.touched.Before(olderThan) {
			delete(m.items, h)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStaging) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

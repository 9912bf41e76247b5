package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/bytedance/sonic"
)

const (
	ModeCreate = "create"
	ModeEdit   = "edit"
)

// Session state form wizard per pengguna. Values selalu milik sesi ini (bukan referensi record tersimpan).
type Session[T any] struct {
	ID          string    `json:"id"`
	Entity      string    `json:"entity"`
	Mode        string    `json:"mode"`
	RecordID    string    `json:"recordId,omitempty"`
	CurrentStep int       `json:"currentStep"`
	TotalSteps  int       `json:"totalSteps"`
	Values      T         `json:"values"`
	Submitting  bool      `json:"isSubmitting"`
	LastError   string    `json:"lastError,omitempty"`
	Handles     []string  `json:"handles,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (s *Session[T]) IsLastStep() bool { return s.CurrentStep == s.TotalSteps }

func (s *Session[T]) ownedHandles() map[string]bool {
	m := make(map[string]bool, len(s.Handles))
	for _, h := range s.Handles {
		m[h] = true
	}
	return m
}

func (s *Session[T]) dropHandle(h string) {
	for i, x := range s.Handles {
		if x == h {
			s.Handles = append(s.Handles[:i], s.Handles[i+1:]...)
			return
		}
	}
}

// SessionStore penyimpanan sesi. Lock menserialkan mutasi per sesi.
type SessionStore[T any] interface {
	Create(ctx context.Context, s *Session[T]) error
	Get(ctx context.Context, id string) (*Session[T], error)
	Put(ctx context.Context, s *Session[T]) error
	Delete(ctx context.Context, id string) error
	Lock(ctx context.Context, id string) (func(), error)
	// Sweep membuang sesi yang tidak diubah sejak cutoff dan mengembalikannya.
	Sweep(ctx context.Context, cutoff time.Time) ([]*Session[T], error)
}

/* =======================================================================
   In-memory store (dev/test). Disimpan sebagai JSON agar tiap Get
   mengembalikan salinan independen.
======================================================================= */

type MemorySessionStore[T any] struct {
	TTL time.Duration
	Now func() time.Time

	mu    sync.Mutex
	data  map[string][]byte
	locks map[string]chan struct{}
}

func NewMemorySessionStore[T any](ttl time.Duration) *MemorySessionStore[T] {
	return &MemorySessionStore[T]{
		TTL:   ttl,
		Now:   time.Now,
		data:  map[string][]byte{},
		locks: map[string]chan struct{}{},
	}
}

func (m *MemorySessionStore[T]) Create(ctx context.Context, s *Session[T]) error {
	return m.Put(ctx, s)
}

func (m *MemorySessionStore[T]) Get(ctx context.Context, id string) (*Session[T], error) {
	m.mu.Lock()
	raw, ok := m.data[id]
	m.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	var s Session[T]
	if err := sonic.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	if m.TTL > 0 && m.Now().Sub(s.UpdatedAt) > m.TTL {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (m *MemorySessionStore[T]) Put(ctx context.Context, s *Session[T]) error {
	raw, err := sonic.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[s.ID] = raw
	m.mu.Unlock()
	return nil
}

func (m *MemorySessionStore[T]) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.data, id)
	delete(m.locks, id)
	m.mu.Unlock()
	return nil
}

func (m *MemorySessionStore[T]) Lock(ctx context.Context, id string) (func(), error) {
	m.mu.Lock()
	ch, ok := m.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		m.locks[id] = ch
	}
	m.mu.Unlock()

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *MemorySessionStore[T]) Sweep(ctx context.Context, cutoff time.Time) ([]*Session[T], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Session[T]
	for id, raw := range m.data {
		var s Session[T]
		if err := sonic.Unmarshal(raw, &s); err != nil {
			delete(m.data, id)
			continue
		}
		if s.UpdatedAt.Before(cutoff) && !s.Submitting {
			out = append(out, &s)
			delete(m.data, id)
			delete(m.locks, id)
		}
	}
	return out, nil
}

func (m *MemorySessionStore[T]) lockCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

func (m *MemorySessionStore[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

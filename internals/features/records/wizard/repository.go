package wizard

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type ListFilter struct {
	Q      string
	Status string
	Offset int
	Limit  int
}

// Repository penyimpanan record durable per entitas.
// Save: ID kosong = buat baru (ID dibuat di sini); ID terisi = ganti record yang ada.
type Repository[T any] interface {
	List(ctx context.Context, f ListFilter) ([]T, int64, error)
	Get(ctx context.Context, id string) (*T, error)
	Save(ctx context.Context, rec *T) (*T, error)
	Delete(ctx context.Context, id string) error
}

/* =======================================================================
   In-memory repository (driver "memory" & test)
======================================================================= */

type MemoryRepository[T any] struct {
	// SearchText teks yang dicocokkan dengan filter Q.
	SearchText func(*T) string
	// UniqueKey kunci bisnis (mis. NISN); kosong = tidak dicek.
	UniqueKey func(*T) string
	// SaveErr dipakai test untuk mensimulasikan kegagalan simpan.
	SaveErr error
	Now     func() time.Time

	mu    sync.RWMutex
	items map[string]*T
	order []string
}

func NewMemoryRepository[T any](search, unique func(*T) string) *MemoryRepository[T] {
	return &MemoryRepository[T]{
		SearchText: search,
		UniqueKey:  unique,
		Now:        time.Now,
		items:      map[string]*T{},
	}
}

func (r *MemoryRepository[T]) List(ctx context.Context, f ListFilter) ([]T, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(f.Q))
	var hits []T
	for _, id := range r.order {
		rec := r.items[id]
		m := metaOf(rec)
		if f.Status != "" && string(m.Status) != f.Status {
			continue
		}
		if q != "" && r.SearchText != nil && !strings.Contains(strings.ToLower(r.SearchText(rec)), q) {
			continue
		}
		c, err := clone(rec)
		if err != nil {
			return nil, 0, err
		}
		hits = append(hits, *c)
	}
	sort.SliceStable(hits, func(i, j int) bool {
		a, b := metaOf(&hits[i]), metaOf(&hits[j])
		return a.CreatedAt != nil && b.CreatedAt != nil && a.CreatedAt.After(*b.CreatedAt)
	})

	total := int64(len(hits))
	off := max(f.Offset, 0)
	if off > len(hits) {
		return []T{}, total, nil
	}
	hits = hits[off:]
	if f.Limit > 0 && len(hits) > f.Limit {
		hits = hits[:f.Limit]
	}
	return hits, total, nil
}

func (r *MemoryRepository[T]) Get(ctx context.Context, id string) (*T, error) {
	r.mu.RLock()
	rec, ok := r.items[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrRecordNotFound
	}
	return clone(rec)
}

func (r *MemoryRepository[T]) Save(ctx context.Context, rec *T) (*T, error) {
	if r.SaveErr != nil {
		return nil, r.SaveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	next, err := clone(rec)
	if err != nil {
		return nil, err
	}
	m := metaOf(next)
	now := r.Now()

	if m.ID == "" {
		m.ID = uuid.NewString()
		m.CreatedAt = &now
		m.UpdatedAt = nil
	} else {
		prev, ok := r.items[m.ID]
		if !ok {
			return nil, ErrRecordNotFound
		}
		m.CreatedAt = metaOf(prev).CreatedAt
		m.UpdatedAt = &now
	}

	if r.UniqueKey != nil {
		if k := r.UniqueKey(next); k != "" {
			for id, other := range r.items {
				if id != m.ID && r.UniqueKey(other) == k {
					return nil, ErrDuplicate
				}
			}
		}
	}

	if _, exists := r.items[m.ID]; !exists {
		r.order = append(r.order, m.ID)
	}
	r.items[m.ID] = next
	return clone(next)
}

func (r *MemoryRepository[T]) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrRecordNotFound
	}
	delete(r.items, id)
	for i, x := range r.order {
		if x == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryRepository[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

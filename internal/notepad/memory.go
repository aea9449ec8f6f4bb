package notepad

import (
	"context"
	"sync"
)

// MemoryRepository keeps notes in process memory. It is used when no Redis is
// configured and in tests.
type MemoryRepository struct {
	mu    sync.Mutex
	pages map[string][]Entry
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{pages: map[string][]Entry{}}
}

func (r *MemoryRepository) List(_ context.Context, page string) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry{}, r.pages[key(page)]...), nil
}

func (r *MemoryRepository) Update(_ context.Context, page string, fn func([]Entry) ([]Entry, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, err := fn(append([]Entry{}, r.pages[key(page)]...))
	if err != nil {
		return err
	}
	if len(next) == 0 {
		delete(r.pages, key(page))
		return nil
	}
	r.pages[key(page)] = next
	return nil
}

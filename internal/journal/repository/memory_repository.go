package repository

import (
	"context"
	"sort"
	"sync"

	"voice-journal/internal/journal/domain"
)

type memoryEntryRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.Entry
}

// NewMemoryEntryRepository keeps entries in process memory. Used when no
// database is configured.
func NewMemoryEntryRepository() EntryRepository {
	return &memoryEntryRepository{entries: make(map[string]*domain.Entry)}
}

func (r *memoryEntryRepository) Create(_ context.Context, entry *domain.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.ID] = copyEntry(entry)
	return nil
}

func (r *memoryEntryRepository) FindByIDs(_ context.Context, userID string, ids []string) ([]*domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Entry, 0, len(ids))
	for _, id := range ids {
		if e, ok := r.entries[id]; ok && e.UserID == userID {
			out = append(out, copyEntry(e))
		}
	}
	return out, nil
}

func (r *memoryEntryRepository) Recent(_ context.Context, userID, category string, limit int) ([]*domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Entry
	for _, e := range r.entries {
		if e.UserID != userID || (category != "" && !e.HasCategory(category)) {
			continue
		}
		out = append(out, copyEntry(e))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryEntryRepository) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; !ok || e.UserID != userID {
		return ErrEntryNotFound
	}
	delete(r.entries, id)
	return nil
}

func copyEntry(e *domain.Entry) *domain.Entry {
	c := *e
	c.Categories = append([]string(nil), e.Categories...)
	return &c
}

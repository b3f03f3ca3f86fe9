package roster

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is an in-memory Repository used for unit tests and for
// running the console without MongoDB.
type MemoryRepository struct {
	mu       sync.RWMutex
	store    map[string]UserRecord
	watchers []chan struct{}
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: map[string]UserRecord{}}
}

// Put inserts or replaces a record and notifies watchers.
func (m *MemoryRepository) Put(u UserRecord) {
	if u.ID == "" {
		u.ID = "user_" + time.Now().Format("20060102T150405.000000000")
	}
	m.mu.Lock()
	m.store[u.ID] = u
	m.mu.Unlock()
	m.notify()
}

func (m *MemoryRepository) List(ctx context.Context) ([]UserRecord, error) {
	m.mu.RLock()
	out := make([]UserRecord, 0, len(m.store))
	for _, u := range m.store {
		out = append(out, u)
	}
	m.mu.RUnlock()
	// descending createdAt, records without a timestamp last
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].CreatedAt, out[j].CreatedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return out, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	if _, ok := m.store[id]; !ok {
		m.mu.Unlock()
		return ErrNotFound
	}
	delete(m.store, id)
	m.mu.Unlock()
	m.notify()
	return nil
}

func (m *MemoryRepository) Watch(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)
	m.mu.Lock()
	m.watchers = append(m.watchers, ch)
	m.mu.Unlock()
	go func() {
		<-ctx.Done()
		m.mu.Lock()
		for i, w := range m.watchers {
			if w == ch {
				m.watchers = append(m.watchers[:i], m.watchers[i+1:]...)
				close(ch)
				break
			}
		}
		m.mu.Unlock()
	}()
	return ch, nil
}

func (m *MemoryRepository) notify() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, w := range m.watchers {
		select {
		case w <- struct{}{}:
		default:
		}
	}
}

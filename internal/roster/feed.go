package roster

import (
	"context"
	"sync"

	"github.com/platefront/platefront/backend/admin-console/pkg/logger"
)

// Feed turns the repository's change ticks into full roster snapshots and
// fans them out to dashboard subscribers. One Feed watches the store;
// each browser stream holds its own subscription with its own
// cancellation handle.
type Feed struct {
	repo Repository

	mu      sync.Mutex
	subs    map[int]chan Snapshot
	nextID  int
	current Snapshot
	started bool
}

func NewFeed(repo Repository) *Feed {
	return &Feed{repo: repo, subs: map[int]chan Snapshot{}}
}

// Start loads the initial snapshot and begins watching the store. The
// feed runs until ctx is done.
func (f *Feed) Start(ctx context.Context) error {
	snap, err := f.refresh(ctx)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.current = snap
	f.started = true
	f.mu.Unlock()

	ticks, err := f.repo.Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ticks:
				if !ok {
					return
				}
				snap, err := f.refresh(ctx)
				if err != nil {
					if ctx.Err() == nil {
						logger.Errorf("roster feed: refresh failed: %v", err)
					}
					continue
				}
				f.broadcast(snap)
			}
		}
	}()
	return nil
}

// refresh re-reads the whole collection and derives a fresh snapshot.
func (f *Feed) refresh(ctx context.Context) (Snapshot, error) {
	users, err := f.repo.List(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return NewSnapshot(users), nil
}

func (f *Feed) broadcast(snap Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = snap
	for _, ch := range f.subs {
		// drop the stale pending snapshot, if any, and queue the new one:
		// each delivery fully supersedes the previous
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

// Current returns the most recently materialized snapshot.
func (f *Feed) Current() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Subscribe registers a listener. The returned channel immediately
// carries the current snapshot, then one entry per subsequent update.
// The cancel func releases the subscription; after it returns no further
// deliveries happen and the channel is closed.
func (f *Feed) Subscribe() (<-chan Snapshot, func()) {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	ch := make(chan Snapshot, 1)
	if f.started {
		ch <- f.current
	}
	f.subs[id] = ch
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if c, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(c)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

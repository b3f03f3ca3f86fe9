package roster

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_ListOrdersDescending(t *testing.T) {
	repo := NewMemoryRepository()
	repo.Put(UserRecord{ID: "old", Name: "Old", CreatedAt: ts(2024, 1, 1)})
	repo.Put(UserRecord{ID: "new", Name: "New", CreatedAt: ts(2024, 3, 1)})
	repo.Put(UserRecord{ID: "mid", Name: "Mid", CreatedAt: ts(2024, 2, 1)})
	repo.Put(UserRecord{ID: "undated", Name: "Undated"})

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 4)
	require.Equal(t, "new", got[0].ID)
	require.Equal(t, "mid", got[1].ID)
	require.Equal(t, "old", got[2].ID)
	// records without createdAt sort last
	require.Equal(t, "undated", got[3].ID)
}

func TestMemoryRepository_Delete(t *testing.T) {
	repo := NewMemoryRepository()
	repo.Put(UserRecord{ID: "a", Name: "Alice", CreatedAt: ts(2024, 1, 2)})

	require.NoError(t, repo.Delete(context.Background(), "a"))
	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, got)

	require.ErrorIs(t, repo.Delete(context.Background(), "a"), ErrNotFound)
}

func TestMemoryRepository_WatchDeliversAndStops(t *testing.T) {
	repo := NewMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())

	ticks, err := repo.Watch(ctx)
	require.NoError(t, err)

	repo.Put(UserRecord{ID: "a", CreatedAt: ts(2024, 1, 2)})
	select {
	case <-ticks:
	case <-time.After(time.Second):
		t.Fatal("expected a change tick after Put")
	}

	cancel()
	select {
	case _, open := <-ticks:
		require.False(t, open, "channel should be closed after cancellation")
	case <-time.After(time.Second):
		t.Fatal("expected channel close after cancellation")
	}
}

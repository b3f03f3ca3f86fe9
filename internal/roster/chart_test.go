package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func ts(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 10, 30, 0, 0, time.UTC)
	return &t
}

func TestDailySeries_GroupsByDay(t *testing.T) {
	users := []UserRecord{
		{ID: "c", Name: "Cara", CreatedAt: ts(2024, 1, 3)},
		{ID: "a", Name: "Alice", CreatedAt: ts(2024, 1, 2)},
		{ID: "b", Name: "Bob", CreatedAt: ts(2024, 1, 2)},
	}

	series := DailySeries(users)
	require.Len(t, series, 2)

	counts := map[string]int{}
	sum := 0
	for _, p := range series {
		counts[p.Date] = p.Count
		sum += p.Count
	}
	require.Equal(t, len(users), sum)
	require.Equal(t, 1, counts["1/3/2024"])
	require.Equal(t, 2, counts["1/2/2024"])
}

func TestDailySeries_SkipsRecordsWithoutCreatedAt(t *testing.T) {
	users := []UserRecord{
		{ID: "a", CreatedAt: ts(2024, 5, 1)},
		{ID: "b"}, // registered before createdAt existed
		{ID: "c"},
	}

	series := DailySeries(users)
	require.Len(t, series, 1)
	require.Equal(t, 1, series[0].Count)
}

func TestDailySeries_Empty(t *testing.T) {
	require.Empty(t, DailySeries(nil))
	require.Empty(t, DailySeries([]UserRecord{}))
}

func TestNewSnapshot_SummaryFields(t *testing.T) {
	users := []UserRecord{
		{ID: "a", Name: "Alice", CreatedAt: ts(2024, 1, 2)},
		{ID: "b", Name: "Bob", CreatedAt: ts(2024, 1, 2)},
		{ID: "c", CreatedAt: ts(2024, 1, 1)}, // no name
	}

	snap := NewSnapshot(users)
	require.Equal(t, 3, snap.Total)
	require.Equal(t, "Alice", snap.LatestUser)
	require.Len(t, snap.Chart, 2)
}

func TestNewSnapshot_EmptyRoster(t *testing.T) {
	snap := NewSnapshot(nil)
	require.Equal(t, 0, snap.Total)
	require.Equal(t, "No users yet", snap.LatestUser)
	require.Empty(t, snap.Chart)
}

func TestDisplayName_Fallback(t *testing.T) {
	require.Equal(t, "No Name", UserRecord{Email: "x@y.z"}.DisplayName())
	require.Equal(t, "Zed", UserRecord{Name: "Zed"}.DisplayName())
}

package export

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/platefront/platefront/backend/admin-console/internal/roster"
)

func TestCSV(t *testing.T) {
	created := time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC)
	users := []roster.UserRecord{
		{ID: "a", Name: "Alice", Email: "alice@example.com", CreatedAt: &created},
		{ID: "b", Email: "bob@example.com"}, // no name, no createdAt
	}

	data, err := CSV(users)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"id", "name", "email", "createdAt"}, rows[0])
	require.Equal(t, []string{"a", "Alice", "alice@example.com", "2024-01-02T10:30:00Z"}, rows[1])
	require.Equal(t, []string{"b", "", "bob@example.com", ""}, rows[2])
}

func TestCSV_EmptyRoster(t *testing.T) {
	data, err := CSV(nil)
	require.NoError(t, err)
	require.Equal(t, "id,name,email,createdAt\n", string(data))
}

func TestObjectKey(t *testing.T) {
	at := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	require.Equal(t, "roster/20240304T050607Z.csv", ObjectKey(at))
}

package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/platefront/platefront/backend/admin-console/internal/roster"
)

// Record is the persisted metadata of one roster export.
type Record struct {
	ExportID  string    `bson:"exportId" json:"exportId"`
	ObjectKey string    `bson:"objectKey" json:"objectKey"`
	Count     int       `bson:"count" json:"count"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	CreatedBy string    `bson:"createdBy" json:"createdBy"`
}

// CSV renders a roster snapshot as a CSV archive. Records without a
// registration date get an empty createdAt column.
func CSV(users []roster.UserRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "name", "email", "createdAt"}); err != nil {
		return nil, err
	}
	for _, u := range users {
		createdAt := ""
		if u.CreatedAt != nil {
			createdAt = u.CreatedAt.UTC().Format(time.RFC3339)
		}
		if err := w.Write([]string{u.ID, u.Name, u.Email, createdAt}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ObjectKey builds the storage key for an export taken at the given time.
func ObjectKey(at time.Time) string {
	return fmt.Sprintf("roster/%s.csv", at.UTC().Format("20060102T150405Z"))
}

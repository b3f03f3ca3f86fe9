package roster

import "time"

// UserRecord is a registered end-user of the ordering app as stored in the
// "users" collection. Records are created by the customer-facing app; the
// console only reads and deletes them.
//
// CreatedAt is a pointer because early records were written without the
// field; such records still belong to the roster but carry no
// registration date.
type UserRecord struct {
	ID        string     `bson:"_id,omitempty" json:"id"`
	Name      string     `bson:"name,omitempty" json:"name,omitempty"`
	Email     string     `bson:"email" json:"email"`
	CreatedAt *time.Time `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// DisplayName returns the label shown in the user list.
func (u UserRecord) DisplayName() string {
	if u.Name == "" {
		return "No Name"
	}
	return u.Name
}

// Snapshot is a complete materialization of the roster at one point in
// time, ordered descending by createdAt (records without createdAt last).
// Every update from the store produces a fresh Snapshot that fully
// supersedes the previous one.
type Snapshot struct {
	Users []UserRecord `json:"users"`
	Chart []DailyCount `json:"chart"`
	Total int          `json:"total"`
	// LatestUser is the display name of the first (most recent) record,
	// or "No users yet" when the roster is empty.
	LatestUser string `json:"latestUser"`
}

// NewSnapshot derives the summary fields and chart series for an ordered
// roster. The input slice is taken as-is: ordering is the store's concern.
func NewSnapshot(users []UserRecord) Snapshot {
	s := Snapshot{
		Users:      users,
		Chart:      DailySeries(users),
		Total:      len(users),
		LatestUser: "No users yet",
	}
	if len(users) > 0 {
		s.LatestUser = users[0].DisplayName()
	}
	return s
}

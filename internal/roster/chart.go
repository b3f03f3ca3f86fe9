package roster

// DailyCount is one point of the registrations-per-day series.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// dateLayout matches the short locale form the dashboard has always shown
// (e.g. "1/3/2024").
const dateLayout = "1/2/2006"

// DailySeries groups records by calendar date of registration and counts
// membership. The series is recomputed from scratch on every snapshot;
// roster sizes are UI-bounded so incremental maintenance is not worth it.
// Records without a createdAt are skipped entirely.
func DailySeries(users []UserRecord) []DailyCount {
	grouped := map[string]int{}
	order := []string{}
	for _, u := range users {
		if u.CreatedAt == nil {
			continue
		}
		d := u.CreatedAt.Format(dateLayout)
		if _, ok := grouped[d]; !ok {
			order = append(order, d)
		}
		grouped[d]++
	}
	out := make([]DailyCount, 0, len(order))
	for _, d := range order {
		out = append(out, DailyCount{Date: d, Count: grouped[d]})
	}
	return out
}

package actions

import "time"

const expiryWindow = 30 * 24 * time.Hour

// CalculateDays returns the inclusive day count between from and to,
// rounded to whole days and never below one.
func CalculateDays(from, to time.Time) (int, error) {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return 0, ErrInvalidRange
	}
	days := int(to.Sub(from).Round(24*time.Hour).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	return days, nil
}

// ComputeView derives the aggregates for the self-service dashboard.
func ComputeView(state State, now time.Time) View {
	view := View{ExpiringWithin30Days: []DocumentMeta{}}
	for _, n := range state.Notifications {
		if !n.Read {
			view.UnreadCount++
		}
	}
	cutoff := now.Add(expiryWindow)
	for _, docs := range [][]DocumentMeta{state.Documents.Mine, state.Documents.Company} {
		for _, doc := range docs {
			if doc.Expiry == nil {
				continue
			}
			if doc.Expiry.Before(now) || doc.Expiry.After(cutoff) {
				continue
			}
			view.ExpiringWithin30Days = append(view.ExpiringWithin30Days, doc)
		}
	}
	return view
}

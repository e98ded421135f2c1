// Package mergediff compares the chats of two Skype databases and applies
// the left-to-right delta: new participants, new messages, and shared files
// missing on the right, transactionally per chat.
package mergediff

import "time"

// MatchTime reports whether d1 and d2 might be the same moment recorded
// under different timezones: the comparison walks hourly offsets within a
// single day and accepts a match once the residual falls under slack.
// Grounded on the original engine's day-bucketed timezone-slack comparator.
func MatchTime(d1, d2 time.Time, slack time.Duration) bool {
	if d1.IsZero() || d2.IsZero() {
		return false
	}
	if d2.Before(d1) {
		d1, d2 = d2, d1
	}
	delta := d2.Sub(d1)
	if delta > 24*time.Hour {
		return false
	}
	hours := int(delta / time.Hour)
	for hour := 0; hour <= hours; hour++ {
		d1plus := d1.Add(time.Duration(hour) * time.Hour)
		if d2.Sub(d1plus) < slack {
			return true
		}
	}
	return false
}

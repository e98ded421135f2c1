package msgparse

import (
	"fmt"
	"sort"
	"time"

	"skyperious/internal/skypedata"
)

// TimelineBucket is one entry of the adaptive-unit timeline.
type TimelineBucket struct {
	Datetime  time.Time
	Label     string
	Label2    string
	Count     int
	MessageIDs []int64
}

// timelineUnit names the (primary, secondary) grouping granularity chosen
// by BuildTimeline based on the conversation's total time span.
type timelineUnit int

const (
	unitYearMonth timelineUnit = iota
	unitMonthWeek
	unitMonthDate
	unitDayHour
)

func chooseUnit(span time.Duration) timelineUnit {
	const day = 24 * time.Hour
	switch {
	case span > 2*365*day:
		return unitYearMonth
	case span > 90*day:
		return unitMonthWeek
	case span > 14*day:
		return unitMonthWeek
	case span > 2*day:
		return unitMonthDate
	default:
		return unitDayHour
	}
}

// BuildTimeline groups messages by an adaptive unit chosen from the span
// between the earliest and latest message, per spec.md §4.2's table.
func BuildTimeline(messages []skypedata.Message) []TimelineBucket {
	if len(messages) == 0 {
		return nil
	}
	sorted := make([]skypedata.Message, len(messages))
	copy(sorted, messages)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp < sorted[j].Timestamp })

	span := sorted[len(sorted)-1].Time().Sub(sorted[0].Time())
	unit := chooseUnit(span)

	buckets := map[string]*TimelineBucket{}
	var order []string
	for _, m := range sorted {
		t := m.Time()
		key, label, label2, bucketTime := bucketKey(t, unit)
		b, ok := buckets[key]
		if !ok {
			b = &TimelineBucket{Datetime: bucketTime, Label: label, Label2: label2}
			buckets[key] = b
			order = append(order, key)
		}
		b.Count++
		b.MessageIDs = append(b.MessageIDs, m.ID)
	}

	out := make([]TimelineBucket, 0, len(order))
	for _, key := range order {
		out = append(out, *buckets[key])
	}
	return out
}

func bucketKey(t time.Time, unit timelineUnit) (key, label, label2 string, bucketTime time.Time) {
	switch unit {
	case unitYearMonth:
		bucketTime = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		key = bucketTime.Format("2006-01")
		label = bucketTime.Format("January 2006")
	case unitMonthWeek:
		year, week := t.ISOWeek()
		bucketTime = t
		key = fmt.Sprintf("%04d-W%02d", year, week)
		label = t.Format("January 2006")
		label2 = fmt.Sprintf("Week %d", week)
	case unitMonthDate:
		bucketTime = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		key = bucketTime.Format("2006-01-02")
		label = bucketTime.Format("Jan 2")
		label2 = t.Format("January 2006")
	default: // unitDayHour
		bucketTime = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC)
		key = bucketTime.Format("2006-01-02T15")
		label = bucketTime.Format("15:00")
		label2 = t.Format("Jan 2")
	}
	return key, label, label2, bucketTime
}

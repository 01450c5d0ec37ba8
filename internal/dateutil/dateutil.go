package dateutil

import (
	"fmt"
	"time"
)

// KeyLayout is the canonical YYYY-MM-DD form used as the date identity
// everywhere in the app. Zero-padded, so lexicographic order equals
// chronological order.
const KeyLayout = "2006-01-02"

// CanonicalKey formats a date as its canonical YYYY-MM-DD key using the
// local calendar fields of t. Never goes through UTC: the user's "today"
// must not shift across timezone boundaries.
func CanonicalKey(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

// ParseKey parses a canonical YYYY-MM-DD key back into a local-midnight date.
func ParseKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(KeyLayout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return t, nil
}

// WeekOf returns the 7 consecutive dates of the week containing t,
// Monday first. If t falls on a Sunday the week started 6 days earlier.
func WeekOf(t time.Time) []time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())

	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset = 6 // Sunday
	}
	monday := day.AddDate(0, 0, -offset)

	week := make([]time.Time, 7)
	for i := range week {
		week[i] = monday.AddDate(0, 0, i)
	}
	return week
}

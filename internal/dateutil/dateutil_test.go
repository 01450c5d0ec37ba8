package dateutil

import (
	"testing"
	"time"
)

func TestCanonicalKeyPadding(t *testing.T) {
	d := time.Date(2026, time.March, 5, 14, 30, 0, 0, time.Local)
	if got := CanonicalKey(d); got != "2026-03-05" {
		t.Errorf("CanonicalKey = %q, want 2026-03-05", got)
	}
}

func TestCanonicalKeyRoundTrip(t *testing.T) {
	keys := []string{"2026-01-01", "2026-02-28", "2026-12-31", "2024-02-29"}
	for _, key := range keys {
		d, err := ParseKey(key)
		if err != nil {
			t.Fatalf("ParseKey(%q): %v", key, err)
		}
		if got := CanonicalKey(d); got != key {
			t.Errorf("round trip %q -> %q", key, got)
		}
	}
}

func TestCanonicalKeyMonotonic(t *testing.T) {
	d := time.Date(2025, time.December, 20, 0, 0, 0, 0, time.Local)
	prev := CanonicalKey(d)
	for i := 0; i < 60; i++ {
		d = d.AddDate(0, 0, 1)
		next := CanonicalKey(d)
		if next <= prev {
			t.Fatalf("key %q not greater than %q", next, prev)
		}
		prev = next
	}
}

func TestParseKeyRejectsGarbage(t *testing.T) {
	if _, err := ParseKey("not-a-date"); err == nil {
		t.Error("expected error for invalid key")
	}
}

func TestWeekOfStartsMonday(t *testing.T) {
	// Walk a full year of dates; every week must be Monday..Sunday
	// and contain its reference date.
	d := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.Local)
	for i := 0; i < 365; i++ {
		week := WeekOf(d)
		if len(week) != 7 {
			t.Fatalf("WeekOf returned %d dates", len(week))
		}
		if week[0].Weekday() != time.Monday {
			t.Errorf("WeekOf(%s)[0] = %s, want Monday", CanonicalKey(d), week[0].Weekday())
		}
		if week[6].Weekday() != time.Sunday {
			t.Errorf("WeekOf(%s)[6] = %s, want Sunday", CanonicalKey(d), week[6].Weekday())
		}
		found := false
		for _, wd := range week {
			if CanonicalKey(wd) == CanonicalKey(d) {
				found = true
			}
		}
		if !found {
			t.Errorf("WeekOf(%s) does not contain the reference date", CanonicalKey(d))
		}
		d = d.AddDate(0, 0, 1)
	}
}

func TestWeekOfSundayWalksBackSixDays(t *testing.T) {
	// 2026-03-01 is a Sunday; its week starts 2026-02-23.
	sunday := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.Local)
	week := WeekOf(sunday)
	if got := CanonicalKey(week[0]); got != "2026-02-23" {
		t.Errorf("week start = %s, want 2026-02-23", got)
	}
	if got := CanonicalKey(week[6]); got != "2026-03-01" {
		t.Errorf("week end = %s, want 2026-03-01", got)
	}
}

func TestWeekOfConsecutiveDates(t *testing.T) {
	week := WeekOf(time.Date(2026, time.July, 15, 0, 0, 0, 0, time.Local))
	for i := 1; i < 7; i++ {
		want := week[i-1].AddDate(0, 0, 1)
		if !week[i].Equal(want) {
			t.Errorf("week[%d] = %s, want %s", i, week[i], want)
		}
	}
}

package plan

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidProgram marks a malformed or incomplete weekly program
	// (missing weekday, unknown day type or item category, duplicate keys).
	ErrInvalidProgram = errors.New("invalid weekly program")
)

// DayType classifies a day within the weekly program.
type DayType string

const (
	DayWorkout DayType = "workout"
	DayWalk    DayType = "walk"
	DayRest    DayType = "rest"
)

// Label returns the display name of a day type.
func (t DayType) Label() string {
	switch t {
	case DayWorkout:
		return "Workout Day"
	case DayWalk:
		return "Walk Day"
	case DayRest:
		return "Rest Day"
	}
	return string(t)
}

// Valid reports whether t is a known day type.
func (t DayType) Valid() bool {
	switch t {
	case DayWorkout, DayWalk, DayRest:
		return true
	}
	return false
}

// Category classifies a checklist item.
type Category string

const (
	CategoryHabit   Category = "habit"
	CategoryWorkout Category = "workout"
	CategoryWalk    Category = "walk"
)

// Label returns the display name of an item category.
func (c Category) Label() string {
	switch c {
	case CategoryHabit:
		return "Daily habit"
	case CategoryWorkout:
		return "Workout"
	case CategoryWalk:
		return "Walk"
	}
	return string(c)
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryHabit, CategoryWorkout, CategoryWalk:
		return true
	}
	return false
}

// ChecklistItem is a single prescribed activity. Key is the item's identity:
// stable across days that share the item (a recurring habit carries the same
// key every day), unique within a day program. Completion is tracked per
// (date, key), never globally.
type ChecklistItem struct {
	Key      string
	Label    string
	Category Category
}

// DayProgram is the checklist prescribed for one weekday. Immutable once
// resolved for a given plan version.
type DayProgram struct {
	Type  DayType
	Items []ChecklistItem
}

// KeySet returns the set of item keys in the program.
func (d DayProgram) KeySet() map[string]struct{} {
	keys := make(map[string]struct{}, len(d.Items))
	for _, item := range d.Items {
		keys[item.Key] = struct{}{}
	}
	return keys
}

// WeeklyProgram maps every weekday to its day program.
type WeeklyProgram struct {
	Name string
	Days map[time.Weekday]DayProgram
}

// DayProgramFor returns the program for the weekday of date. The built-in
// default always has all 7 entries; an externally supplied program is
// validated on parse, so a missing weekday here means a corrupted program.
func (p WeeklyProgram) DayProgramFor(date time.Time) (DayProgram, error) {
	day, ok := p.Days[date.Weekday()]
	if !ok {
		return DayProgram{}, fmt.Errorf("%w: no program for %s", ErrInvalidProgram, date.Weekday())
	}
	return day, nil
}

// Validate checks that the program has all 7 weekdays, known day types and
// categories, and no duplicate item keys within a day.
func (p WeeklyProgram) Validate() error {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		day, ok := p.Days[wd]
		if !ok {
			return fmt.Errorf("%w: missing %s", ErrInvalidProgram, wd)
		}
		if !day.Type.Valid() {
			return fmt.Errorf("%w: unknown day type %q on %s", ErrInvalidProgram, day.Type, wd)
		}
		seen := make(map[string]bool, len(day.Items))
		for _, item := range day.Items {
			if item.Key == "" {
				return fmt.Errorf("%w: empty item key on %s", ErrInvalidProgram, wd)
			}
			if seen[item.Key] {
				return fmt.Errorf("%w: duplicate item key %q on %s", ErrInvalidProgram, item.Key, wd)
			}
			seen[item.Key] = true
			if !item.Category.Valid() {
				return fmt.Errorf("%w: unknown category %q for item %q", ErrInvalidProgram, item.Category, item.Key)
			}
		}
	}
	return nil
}

// Package week joins the active program with completion and food facts to
// produce per-day statistics and the weekly check-in report.
package week

import (
	"fmt"
	"time"

	"github.com/markdg/habit-hub/internal/dateutil"
	"github.com/markdg/habit-hub/internal/plan"
	"github.com/markdg/habit-hub/internal/storage"
)

// DaySummary is the completion state of one date in the week.
type DaySummary struct {
	Date           string       `json:"date"` // YYYY-MM-DD
	Weekday        string       `json:"weekday"`
	DayType        plan.DayType `json:"day_type"`
	CompletedCount int          `json:"completed_count"`
	TotalCount     int          `json:"total_count"`
	HasFood        bool         `json:"has_food"`
	IsToday        bool         `json:"is_today"`
	IsFuture       bool         `json:"is_future"`
	AllDone        bool         `json:"all_done"`
}

// WeekSummary aggregates one Monday-start week.
type WeekSummary struct {
	WeekStart string       `json:"week_start"` // YYYY-MM-DD, a Monday
	WeekEnd   string       `json:"week_end"`
	Days      []DaySummary `json:"days"` // always 7, Monday first

	WorkoutDaysDone  int `json:"workout_days_done"`
	WorkoutDaysTotal int `json:"workout_days_total"`
	WalkDaysDone     int `json:"walk_days_done"`
	WalkDaysTotal    int `json:"walk_days_total"`
	FoodLoggedDays   int `json:"food_logged_days"`
	PastDays         int `json:"past_days"` // days up to and including today
	ItemsCompleted   int `json:"items_completed"`
	ItemsTotal       int `json:"items_total"`
}

// Summarize computes the week containing today. completions maps date key to
// the set of completed item keys; foodByDate maps date key to that day's
// entries. Completed counts only count keys present in the day's program, so
// records left over from an older plan do not inflate the tallies.
//
// Day-type denominators span the whole week; the fully-completed numerators
// and the food denominator only consider days up to and including today. The
// aggregate item tally spans the whole week, matching the week header of the
// summary view.
func Summarize(program plan.WeeklyProgram, today time.Time,
	completions map[string]map[string]struct{},
	foodByDate map[string][]storage.FoodEntry) (WeekSummary, error) {

	dates := dateutil.WeekOf(today)
	todayKey := dateutil.CanonicalKey(today)

	summary := WeekSummary{
		WeekStart: dateutil.CanonicalKey(dates[0]),
		WeekEnd:   dateutil.CanonicalKey(dates[6]),
		Days:      make([]DaySummary, 0, 7),
	}

	for _, date := range dates {
		dayProgram, err := program.DayProgramFor(date)
		if err != nil {
			return WeekSummary{}, err
		}

		key := dateutil.CanonicalKey(date)
		done := completions[key]

		day := DaySummary{
			Date:       key,
			Weekday:    date.Weekday().String(),
			DayType:    dayProgram.Type,
			TotalCount: len(dayProgram.Items),
			HasFood:    len(foodByDate[key]) > 0,
			IsToday:    key == todayKey,
			IsFuture:   key > todayKey,
		}
		for _, item := range dayProgram.Items {
			if _, ok := done[item.Key]; ok {
				day.CompletedCount++
			}
		}
		// A zero-item day never counts as fully done, and neither does a
		// day that has not happened yet.
		day.AllDone = day.TotalCount > 0 &&
			day.CompletedCount == day.TotalCount &&
			!day.IsFuture

		summary.ItemsCompleted += day.CompletedCount
		summary.ItemsTotal += day.TotalCount

		switch dayProgram.Type {
		case plan.DayWorkout:
			summary.WorkoutDaysTotal++
			if day.AllDone {
				summary.WorkoutDaysDone++
			}
		case plan.DayWalk:
			summary.WalkDaysTotal++
			if day.AllDone {
				summary.WalkDaysDone++
			}
		}

		if !day.IsFuture {
			summary.PastDays++
			if day.HasFood {
				summary.FoodLoggedDays++
			}
		}

		summary.Days = append(summary.Days, day)
	}

	return summary, nil
}

// RenderCheckinReport serializes the week as the plain-text check-in format.
// The output is a stable, line-oriented contract: per past-or-today day a
// header line "Weekday, Mon D (Type Day)", a "completed/total items" line,
// one "[x]"/"[ ]" line per checklist item in program order, a food line, and
// a blank separator. Future dates are omitted entirely. A totals block
// closes the report.
func RenderCheckinReport(program plan.WeeklyProgram, today time.Time,
	completions map[string]map[string]struct{},
	foodByDate map[string][]storage.FoodEntry) (string, error) {

	summary, err := Summarize(program, today, completions, foodByDate)
	if err != nil {
		return "", err
	}

	dates := dateutil.WeekOf(today)

	var b []byte
	for i, day := range summary.Days {
		if day.IsFuture {
			continue
		}
		date := dates[i]
		dayProgram, err := program.DayProgramFor(date)
		if err != nil {
			return "", err
		}

		b = fmt.Appendf(b, "%s, %s %d (%s)\n",
			day.Weekday, date.Month().String()[:3], date.Day(), day.DayType.Label())
		b = fmt.Appendf(b, "%d/%d items\n", day.CompletedCount, day.TotalCount)

		done := completions[day.Date]
		for _, item := range dayProgram.Items {
			marker := "[ ]"
			if _, ok := done[item.Key]; ok {
				marker = "[x]"
			}
			b = fmt.Appendf(b, "%s %s\n", marker, item.Label)
		}

		entries := foodByDate[day.Date]
		if len(entries) == 0 {
			b = append(b, "Food: no food logged\n"...)
		} else {
			b = append(b, "Food: "...)
			for j, e := range entries {
				if j > 0 {
					b = append(b, " | "...)
				}
				b = append(b, e.EntryText...)
			}
			b = append(b, '\n')
		}
		b = append(b, '\n')
	}

	b = append(b, "Totals\n"...)
	b = fmt.Appendf(b, "Workout days: %d/%d\n", summary.WorkoutDaysDone, summary.WorkoutDaysTotal)
	b = fmt.Appendf(b, "Walk days: %d/%d\n", summary.WalkDaysDone, summary.WalkDaysTotal)
	b = fmt.Appendf(b, "Food logged: %d/%d days\n", summary.FoodLoggedDays, summary.PastDays)
	b = fmt.Appendf(b, "Items: %d/%d\n", summary.ItemsCompleted, summary.ItemsTotal)

	return string(b), nil
}

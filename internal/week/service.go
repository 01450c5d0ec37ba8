package week

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/markdg/habit-hub/internal/dateutil"
	"github.com/markdg/habit-hub/internal/plan"
	"github.com/markdg/habit-hub/internal/storage"
)

var ErrInvalidDate = errors.New("invalid date format")

// Programs provides the currently active weekly program.
type Programs interface {
	Active() plan.WeeklyProgram
}

// Service loads the week's facts from storage and aggregates them.
type Service struct {
	completions storage.CompletionsStorage
	foodlog     storage.FoodLogStorage
	programs    Programs
}

// NewService creates a new week service
func NewService(completions storage.CompletionsStorage, foodlog storage.FoodLogStorage, programs Programs) *Service {
	return &Service{
		completions: completions,
		foodlog:     foodlog,
		programs:    programs,
	}
}

// Summary aggregates the week containing date. date doubles as "today" for
// the future/past split, so a caller asking about a past week sees every day
// up to that date as past.
func (s *Service) Summary(ctx context.Context, date string) (WeekSummary, error) {
	program, today, completions, food, err := s.load(ctx, date)
	if err != nil {
		return WeekSummary{}, err
	}
	return Summarize(program, today, completions, food)
}

// Report renders the plain-text check-in report for the week containing date.
func (s *Service) Report(ctx context.Context, date string) (string, error) {
	program, today, completions, food, err := s.load(ctx, date)
	if err != nil {
		return "", err
	}
	return RenderCheckinReport(program, today, completions, food)
}

func (s *Service) load(ctx context.Context, date string) (plan.WeeklyProgram, time.Time, map[string]map[string]struct{}, map[string][]storage.FoodEntry, error) {
	today, err := dateutil.ParseKey(date)
	if err != nil {
		return plan.WeeklyProgram{}, time.Time{}, nil, nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	dates := dateutil.WeekOf(today)
	from := dateutil.CanonicalKey(dates[0])
	to := dateutil.CanonicalKey(dates[6])

	records, err := s.completions.ListCompletions(ctx, from, to)
	if err != nil {
		return plan.WeeklyProgram{}, time.Time{}, nil, nil, err
	}
	completions := make(map[string]map[string]struct{})
	for _, r := range records {
		keys, ok := completions[r.Date]
		if !ok {
			keys = make(map[string]struct{})
			completions[r.Date] = keys
		}
		keys[r.ItemKey] = struct{}{}
	}

	entries, err := s.foodlog.ListEntriesInRange(ctx, from, to)
	if err != nil {
		return plan.WeeklyProgram{}, time.Time{}, nil, nil, err
	}
	food := make(map[string][]storage.FoodEntry)
	for _, e := range entries {
		food[e.Date] = append(food[e.Date], e)
	}

	return s.programs.Active(), today, completions, food, nil
}

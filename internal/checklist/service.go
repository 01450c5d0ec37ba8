package checklist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/markdg/habit-hub/internal/dateutil"
	"github.com/markdg/habit-hub/internal/plan"
	"github.com/markdg/habit-hub/internal/storage"
)

var (
	ErrInvalidDate = errors.New("invalid date format")
	ErrEmptyKey    = errors.New("item key is required")
)

// Programs provides the currently active weekly program.
type Programs interface {
	Active() plan.WeeklyProgram
}

// Service handles checklist business logic on the server side.
type Service struct {
	storage  storage.CompletionsStorage
	programs Programs
}

// NewService creates a new checklist service
func NewService(st storage.CompletionsStorage, programs Programs) *Service {
	return &Service{
		storage:  st,
		programs: programs,
	}
}

// DayView resolves the checklist for a date: the program's items for that
// weekday joined with the stored completions. Completions for keys the
// current program does not contain are ignored, so the view stays consistent
// after a plan change.
func (s *Service) DayView(ctx context.Context, date string) (DayView, error) {
	day, err := dateutil.ParseKey(date)
	if err != nil {
		return DayView{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	program, err := s.programs.Active().DayProgramFor(day)
	if err != nil {
		return DayView{}, err
	}

	records, err := s.storage.ListCompletions(ctx, date, date)
	if err != nil {
		return DayView{}, err
	}
	completed := make(map[string]struct{}, len(records))
	for _, r := range records {
		completed[r.ItemKey] = struct{}{}
	}

	view := DayView{
		Date:     date,
		DayType:  string(program.Type),
		DayLabel: program.Type.Label(),
		Items:    make([]ItemState, 0, len(program.Items)),
	}
	for _, item := range program.Items {
		_, done := completed[item.Key]
		view.Items = append(view.Items, ItemState{
			Key:       item.Key,
			Label:     item.Label,
			Category:  string(item.Category),
			Completed: done,
		})
		view.TotalCount++
		if done {
			view.CompletedCount++
		}
	}
	// A day with no items is never counted as fully done.
	view.AllDone = view.TotalCount > 0 && view.CompletedCount == view.TotalCount

	return view, nil
}

// ListCompletions returns all completion records with from <= date <= to.
func (s *Service) ListCompletions(ctx context.Context, from, to string) ([]storage.CompletionRecord, error) {
	if _, err := dateutil.ParseKey(from); err != nil {
		return nil, fmt.Errorf("%w: from: %v", ErrInvalidDate, err)
	}
	if _, err := dateutil.ParseKey(to); err != nil {
		return nil, fmt.Errorf("%w: to: %v", ErrInvalidDate, err)
	}
	return s.storage.ListCompletions(ctx, from, to)
}

// SetCompletion marks (date, itemKey) as completed. Idempotent: repeating
// the call returns the existing record.
func (s *Service) SetCompletion(ctx context.Context, date, itemKey string) (storage.CompletionRecord, error) {
	if _, err := dateutil.ParseKey(date); err != nil {
		return storage.CompletionRecord{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	itemKey = strings.TrimSpace(itemKey)
	if itemKey == "" {
		return storage.CompletionRecord{}, ErrEmptyKey
	}
	return s.storage.UpsertCompletion(ctx, date, itemKey)
}

// ClearCompletion removes the completion for (date, itemKey). Clearing a
// completion that does not exist is not an error.
func (s *Service) ClearCompletion(ctx context.Context, date, itemKey string) error {
	if _, err := dateutil.ParseKey(date); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	itemKey = strings.TrimSpace(itemKey)
	if itemKey == "" {
		return ErrEmptyKey
	}
	return s.storage.DeleteCompletion(ctx, date, itemKey)
}

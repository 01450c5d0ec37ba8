package foodlog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/markdg/habit-hub/internal/dateutil"
	"github.com/markdg/habit-hub/internal/storage"
)

var (
	ErrInvalidDate = errors.New("invalid date format")
	ErrEmptyEntry  = errors.New("entry text is required")
)

// Service handles food log business logic. The log is append-only: entries
// are never edited or deleted, a correction is just another entry.
type Service struct {
	storage storage.FoodLogStorage
}

// NewService creates a new food log service
func NewService(st storage.FoodLogStorage) *Service {
	return &Service{storage: st}
}

// Entries returns one date's entries, newest first, for display.
func (s *Service) Entries(ctx context.Context, date string) ([]storage.FoodEntry, error) {
	if _, err := dateutil.ParseKey(date); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	return s.storage.ListEntries(ctx, date)
}

// EntriesByDate returns entries for from <= date <= to grouped by date key,
// each day's entries in logged order. Used by the week summary and the
// check-in report, which both read oldest first.
func (s *Service) EntriesByDate(ctx context.Context, from, to string) (map[string][]storage.FoodEntry, error) {
	if _, err := dateutil.ParseKey(from); err != nil {
		return nil, fmt.Errorf("%w: from: %v", ErrInvalidDate, err)
	}
	if _, err := dateutil.ParseKey(to); err != nil {
		return nil, fmt.Errorf("%w: to: %v", ErrInvalidDate, err)
	}

	entries, err := s.storage.ListEntriesInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]storage.FoodEntry)
	for _, e := range entries {
		byDate[e.Date] = append(byDate[e.Date], e)
	}
	return byDate, nil
}

// Append records one new entry. Leading and trailing whitespace is trimmed;
// an entry that is empty after trimming is rejected.
func (s *Service) Append(ctx context.Context, date, text string) (storage.FoodEntry, error) {
	if _, err := dateutil.ParseKey(date); err != nil {
		return storage.FoodEntry{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return storage.FoodEntry{}, ErrEmptyEntry
	}
	return s.storage.InsertEntry(ctx, date, text)
}

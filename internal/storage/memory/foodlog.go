package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/markdg/habit-hub/internal/storage"
)

// FoodLogStorage implements storage.FoodLogStorage in memory.
type FoodLogStorage struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]storage.FoodEntry
}

func NewFoodLogStorage() *FoodLogStorage {
	return &FoodLogStorage{
		entries: make(map[uuid.UUID]storage.FoodEntry),
	}
}

func (s *FoodLogStorage) ListEntries(ctx context.Context, date string) ([]storage.FoodEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []storage.FoodEntry{}
	for _, e := range s.entries {
		if e.Date == date {
			result = append(result, e)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].LoggedAt.After(result[j].LoggedAt)
	})

	return result, nil
}

func (s *FoodLogStorage) ListEntriesInRange(ctx context.Context, from, to string) ([]storage.FoodEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []storage.FoodEntry{}
	for _, e := range s.entries {
		if e.Date < from || e.Date > to {
			continue
		}
		result = append(result, e)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		return result[i].LoggedAt.Before(result[j].LoggedAt)
	})

	return result, nil
}

func (s *FoodLogStorage) InsertEntry(ctx context.Context, date, text string) (storage.FoodEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := storage.FoodEntry{
		ID:        uuid.New(),
		Date:      date,
		EntryText: text,
		LoggedAt:  time.Now(),
	}
	s.entries[entry.ID] = entry

	return entry, nil
}

package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/markdg/habit-hub/internal/storage"
)

// CompletionsStorage implements storage.CompletionsStorage in memory.
type CompletionsStorage struct {
	mu      sync.RWMutex
	records map[string]storage.CompletionRecord // "date:item_key" -> record
}

func NewCompletionsStorage() *CompletionsStorage {
	return &CompletionsStorage{
		records: make(map[string]storage.CompletionRecord),
	}
}

func (s *CompletionsStorage) ListCompletions(ctx context.Context, from, to string) ([]storage.CompletionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []storage.CompletionRecord{}
	for _, r := range s.records {
		if r.Date < from || r.Date > to {
			continue
		}
		result = append(result, r)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		return result[i].ItemKey < result[j].ItemKey
	})

	return result, nil
}

func (s *CompletionsStorage) UpsertCompletion(ctx context.Context, date, itemKey string) (storage.CompletionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := date + ":" + itemKey
	if existing, ok := s.records[key]; ok {
		return existing, nil
	}

	record := storage.CompletionRecord{
		ID:        uuid.New(),
		Date:      date,
		ItemKey:   itemKey,
		CreatedAt: time.Now(),
	}
	s.records[key] = record

	return record, nil
}

func (s *CompletionsStorage) DeleteCompletion(ctx context.Context, date, itemKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, date+":"+itemKey)
	return nil
}

package checklist

import (
	"context"
	"sync"

	"github.com/markdg/habit-hub/internal/storage"
)

// Gateway is the remote persistence surface the store mutates. Implemented
// by storage.Storage; tests substitute their own.
type Gateway interface {
	ListCompletions(ctx context.Context, from, to string) ([]storage.CompletionRecord, error)
	UpsertCompletion(ctx context.Context, date, itemKey string) (storage.CompletionRecord, error)
	DeleteCompletion(ctx context.Context, date, itemKey string) error
}

// ToggleResult is the eventual outcome of an optimistic toggle. Completed is
// the settled membership: the optimistic value on success, the pre-toggle
// value after a rollback.
type ToggleResult struct {
	Date      string
	ItemKey   string
	Completed bool
	Err       error
}

// Store caches the per-date sets of completed item keys and applies toggles
// optimistically: the local flip is visible immediately, the remote mutation
// runs in the background, and a failed mutation rolls the flip back.
//
// At most one mutation per (date, item key) is in flight at a time. A second
// toggle for the same key while one is unresolved is ignored, not queued,
// because a queued toggle-of-a-toggle against an eventually consistent store
// can settle in the wrong final state. Unrelated keys stay independent.
type Store struct {
	gateway Gateway

	mu       sync.Mutex
	byDate   map[string]map[string]struct{} // date key -> completed item keys
	inflight map[string]struct{}            // "date:item_key" -> mutation pending

	results chan ToggleResult
}

func NewStore(gateway Gateway) *Store {
	return &Store{
		gateway:  gateway,
		byDate:   make(map[string]map[string]struct{}),
		inflight: make(map[string]struct{}),
		results:  make(chan ToggleResult, 16),
	}
}

// Load reads completions for from <= date <= to in a single gateway call and
// replaces the cached sets for that range. On error the cache is left
// untouched, so the caller can tell "confirmed empty" from "unknown".
func (s *Store) Load(ctx context.Context, from, to string) error {
	records, err := s.gateway.ListCompletions(ctx, from, to)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for date := range s.byDate {
		if date >= from && date <= to {
			delete(s.byDate, date)
		}
	}
	for _, r := range records {
		keys, ok := s.byDate[r.Date]
		if !ok {
			keys = make(map[string]struct{})
			s.byDate[r.Date] = keys
		}
		keys[r.ItemKey] = struct{}{}
	}

	return nil
}

// IsCompleted reports the cached membership of (date, itemKey).
func (s *Store) IsCompleted(date, itemKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.byDate[date][itemKey]
	return ok
}

// CompletedKeys returns a copy of the cached completed-key set for a date.
func (s *Store) CompletedKeys(date string) map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyKeys(s.byDate[date])
}

// Snapshot returns a copy of every cached set with from <= date <= to.
func (s *Store) Snapshot(from, to string) map[string]map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[string]map[string]struct{})
	for date, keys := range s.byDate {
		if date >= from && date <= to {
			snapshot[date] = copyKeys(keys)
		}
	}
	return snapshot
}

// Toggle flips the cached membership of (date, itemKey) immediately and
// issues the matching remote mutation in the background: an idempotent upsert
// when newly completed, a delete when newly uncompleted. Returns false without
// doing anything if a mutation for the same key is still in flight.
//
// The eventual outcome is delivered on Results. The mutation is detached from
// ctx's cancellation: a caller that goes away mid-request must not abort the
// write and force a spurious rollback. ctx's values still flow through.
func (s *Store) Toggle(ctx context.Context, date, itemKey string) bool {
	guard := date + ":" + itemKey

	s.mu.Lock()
	if _, busy := s.inflight[guard]; busy {
		s.mu.Unlock()
		return false
	}
	s.inflight[guard] = struct{}{}

	keys, ok := s.byDate[date]
	if !ok {
		keys = make(map[string]struct{})
		s.byDate[date] = keys
	}
	_, wasCompleted := keys[itemKey]
	if wasCompleted {
		delete(keys, itemKey)
	} else {
		keys[itemKey] = struct{}{}
	}
	s.mu.Unlock()

	go s.mutate(context.WithoutCancel(ctx), date, itemKey, wasCompleted)
	return true
}

// Results delivers toggle outcomes. Delivery is best-effort: if nobody is
// receiving and the buffer is full, the result is discarded, matching a
// caller that went away mid-request.
func (s *Store) Results() <-chan ToggleResult {
	return s.results
}

func (s *Store) mutate(ctx context.Context, date, itemKey string, wasCompleted bool) {
	var err error
	if wasCompleted {
		err = s.gateway.DeleteCompletion(ctx, date, itemKey)
	} else {
		_, err = s.gateway.UpsertCompletion(ctx, date, itemKey)
	}

	guard := date + ":" + itemKey
	completed := !wasCompleted

	s.mu.Lock()
	delete(s.inflight, guard)
	if err != nil {
		// Roll back the optimistic flip.
		keys, ok := s.byDate[date]
		if !ok {
			keys = make(map[string]struct{})
			s.byDate[date] = keys
		}
		if wasCompleted {
			keys[itemKey] = struct{}{}
		} else {
			delete(keys, itemKey)
		}
		completed = wasCompleted
	}
	s.mu.Unlock()

	select {
	case s.results <- ToggleResult{Date: date, ItemKey: itemKey, Completed: completed, Err: err}:
	default:
	}
}

func copyKeys(keys map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(keys))
	for k := range keys {
		out[k] = struct{}{}
	}
	return out
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/markdg/habit-hub/internal/storage"
)

// FoodLogStorage implements storage.FoodLogStorage for Postgres.
type FoodLogStorage struct {
	pool *pgxpool.Pool
}

func NewFoodLogStorage(pool *pgxpool.Pool) *FoodLogStorage {
	return &FoodLogStorage{pool: pool}
}

// ListEntries returns one date's entries, newest first.
func (s *FoodLogStorage) ListEntries(ctx context.Context, date string) ([]storage.FoodEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, to_char(date, 'YYYY-MM-DD'), entry_text, logged_at
		FROM food_log
		WHERE date = $1
		ORDER BY logged_at DESC
	`

	return s.queryEntries(ctx, query, date)
}

// ListEntriesInRange returns entries in a date range, oldest first
// within each date, for report generation.
func (s *FoodLogStorage) ListEntriesInRange(ctx context.Context, from, to string) ([]storage.FoodEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, to_char(date, 'YYYY-MM-DD'), entry_text, logged_at
		FROM food_log
		WHERE date >= $1 AND date <= $2
		ORDER BY date ASC, logged_at ASC
	`

	return s.queryEntries(ctx, query, from, to)
}

// InsertEntry persists a new entry; id and logged_at are assigned by the DB.
func (s *FoodLogStorage) InsertEntry(ctx context.Context, date, text string) (storage.FoodEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO food_log (date, entry_text)
		VALUES ($1, $2)
		RETURNING id, to_char(date, 'YYYY-MM-DD'), entry_text, logged_at
	`

	var e storage.FoodEntry
	err := s.pool.QueryRow(ctx, query, date, text).Scan(&e.ID, &e.Date, &e.EntryText, &e.LoggedAt)
	if err != nil {
		return storage.FoodEntry{}, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	return e, nil
}

func (s *FoodLogStorage) queryEntries(ctx context.Context, query string, args ...any) ([]storage.FoodEntry, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	defer rows.Close()

	entries := []storage.FoodEntry{}
	for rows.Next() {
		var e storage.FoodEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.EntryText, &e.LoggedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	return entries, nil
}

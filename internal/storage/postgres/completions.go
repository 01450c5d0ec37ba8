package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/markdg/habit-hub/internal/storage"
)

const queryTimeout = 5 * time.Second

// CompletionsStorage implements storage.CompletionsStorage for Postgres.
type CompletionsStorage struct {
	pool *pgxpool.Pool
}

func NewCompletionsStorage(pool *pgxpool.Pool) *CompletionsStorage {
	return &CompletionsStorage{pool: pool}
}

// ListCompletions returns completion records in a date range.
func (s *CompletionsStorage) ListCompletions(ctx context.Context, from, to string) ([]storage.CompletionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, to_char(date, 'YYYY-MM-DD'), item_key, created_at
		FROM checklist_completions
		WHERE date >= $1 AND date <= $2
		ORDER BY date ASC, item_key ASC
	`

	rows, err := s.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	defer rows.Close()

	completions := []storage.CompletionRecord{}
	for rows.Next() {
		var c storage.CompletionRecord
		if err := rows.Scan(&c.ID, &c.Date, &c.ItemKey, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
		}
		completions = append(completions, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	return completions, nil
}

// UpsertCompletion creates the (date, item_key) record if absent.
func (s *CompletionsStorage) UpsertCompletion(ctx context.Context, date, itemKey string) (storage.CompletionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO checklist_completions (date, item_key)
		VALUES ($1, $2)
		ON CONFLICT (date, item_key)
		DO UPDATE SET item_key = EXCLUDED.item_key
		RETURNING id, to_char(date, 'YYYY-MM-DD'), item_key, created_at
	`

	var c storage.CompletionRecord
	err := s.pool.QueryRow(ctx, query, date, itemKey).Scan(&c.ID, &c.Date, &c.ItemKey, &c.CreatedAt)
	if err != nil {
		return storage.CompletionRecord{}, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	return c, nil
}

// DeleteCompletion removes the (date, item_key) record if present.
func (s *CompletionsStorage) DeleteCompletion(ctx context.Context, date, itemKey string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `DELETE FROM checklist_completions WHERE date = $1 AND item_key = $2`

	if _, err := s.pool.Exec(ctx, query, date, itemKey); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	return nil
}

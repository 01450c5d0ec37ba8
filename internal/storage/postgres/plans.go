package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/markdg/habit-hub/internal/storage"
)

// PlansStorage implements storage.PlansStorage for Postgres.
type PlansStorage struct {
	pool *pgxpool.Pool
}

func NewPlansStorage(pool *pgxpool.Pool) *PlansStorage {
	return &PlansStorage{pool: pool}
}

// GetActivePlan returns the single active plan, or false if none is stored.
func (s *PlansStorage) GetActivePlan(ctx context.Context) (storage.StoredPlan, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, name, plan_data, is_active, created_at, updated_at
		FROM plans
		WHERE is_active = true
		LIMIT 1
	`

	var p storage.StoredPlan
	err := s.pool.QueryRow(ctx, query).Scan(
		&p.ID,
		&p.Name,
		&p.PlanData,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return storage.StoredPlan{}, false, nil
	}
	if err != nil {
		return storage.StoredPlan{}, false, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	return p, true, nil
}

// SaveActivePlan stores a new plan and makes it the only active one.
func (s *PlansStorage) SaveActivePlan(ctx context.Context, name string, planData []byte) (storage.StoredPlan, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return storage.StoredPlan{}, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	defer tx.Rollback(ctx)

	// Deactivate the previous active plan
	_, err = tx.Exec(ctx, `
		UPDATE plans
		SET is_active = false, updated_at = now()
		WHERE is_active = true
	`)
	if err != nil {
		return storage.StoredPlan{}, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	query := `
		INSERT INTO plans (name, plan_data, is_active)
		VALUES ($1, $2, true)
		RETURNING id, name, plan_data, is_active, created_at, updated_at
	`

	var p storage.StoredPlan
	err = tx.QueryRow(ctx, query, name, planData).Scan(
		&p.ID,
		&p.Name,
		&p.PlanData,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return storage.StoredPlan{}, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return storage.StoredPlan{}, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	return p, nil
}

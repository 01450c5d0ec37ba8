package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/markdg/habit-hub/internal/storage"
)

// PostgresStorage is the Postgres implementation of storage.Storage.
type PostgresStorage struct {
	pool        *pgxpool.Pool
	completions *CompletionsStorage
	foodLog     *FoodLogStorage
	plans       *PlansStorage
	reports     *ReportsStorage
}

// New connects to Postgres and verifies the connection with a ping.
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStorage{
		pool:        pool,
		completions: NewCompletionsStorage(pool),
		foodLog:     NewFoodLogStorage(pool),
		plans:       NewPlansStorage(pool),
		reports:     NewReportsStorage(pool),
	}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// CompletionsStorage methods - delegate to embedded completions storage.

func (p *PostgresStorage) ListCompletions(ctx context.Context, from, to string) ([]storage.CompletionRecord, error) {
	return p.completions.ListCompletions(ctx, from, to)
}

func (p *PostgresStorage) UpsertCompletion(ctx context.Context, date, itemKey string) (storage.CompletionRecord, error) {
	return p.completions.UpsertCompletion(ctx, date, itemKey)
}

func (p *PostgresStorage) DeleteCompletion(ctx context.Context, date, itemKey string) error {
	return p.completions.DeleteCompletion(ctx, date, itemKey)
}

// FoodLogStorage methods - delegate to embedded food log storage.

func (p *PostgresStorage) ListEntries(ctx context.Context, date string) ([]storage.FoodEntry, error) {
	return p.foodLog.ListEntries(ctx, date)
}

func (p *PostgresStorage) ListEntriesInRange(ctx context.Context, from, to string) ([]storage.FoodEntry, error) {
	return p.foodLog.ListEntriesInRange(ctx, from, to)
}

func (p *PostgresStorage) InsertEntry(ctx context.Context, date, text string) (storage.FoodEntry, error) {
	return p.foodLog.InsertEntry(ctx, date, text)
}

// PlansStorage methods - delegate to embedded plans storage.

func (p *PostgresStorage) GetActivePlan(ctx context.Context) (storage.StoredPlan, bool, error) {
	return p.plans.GetActivePlan(ctx)
}

func (p *PostgresStorage) SaveActivePlan(ctx context.Context, name string, planData []byte) (storage.StoredPlan, error) {
	return p.plans.SaveActivePlan(ctx, name, planData)
}

// ReportsStorage methods - delegate to embedded reports storage.

func (p *PostgresStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	return p.reports.CreateReport(ctx, report)
}

func (p *PostgresStorage) GetReport(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	return p.reports.GetReport(ctx, id)
}

func (p *PostgresStorage) ListReports(ctx context.Context, limit, offset int) ([]storage.ReportMeta, error) {
	return p.reports.ListReports(ctx, limit, offset)
}

func (p *PostgresStorage) DeleteReport(ctx context.Context, id uuid.UUID) error {
	return p.reports.DeleteReport(ctx, id)
}

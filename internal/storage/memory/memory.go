package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/markdg/habit-hub/internal/storage"
)

// MemoryStorage is the in-memory implementation of storage.Storage.
// Used when no DATABASE_URL is configured and as the test double.
type MemoryStorage struct {
	completions *CompletionsStorage
	foodLog     *FoodLogStorage
	plans       *PlansStorage
	reports     *ReportsStorage
}

func New() *MemoryStorage {
	return &MemoryStorage{
		completions: NewCompletionsStorage(),
		foodLog:     NewFoodLogStorage(),
		plans:       NewPlansStorage(),
		reports:     NewReportsStorage(),
	}
}

func (m *MemoryStorage) Close() error {
	return nil
}

// CompletionsStorage methods - delegate to embedded completions storage.

func (m *MemoryStorage) ListCompletions(ctx context.Context, from, to string) ([]storage.CompletionRecord, error) {
	return m.completions.ListCompletions(ctx, from, to)
}

func (m *MemoryStorage) UpsertCompletion(ctx context.Context, date, itemKey string) (storage.CompletionRecord, error) {
	return m.completions.UpsertCompletion(ctx, date, itemKey)
}

func (m *MemoryStorage) DeleteCompletion(ctx context.Context, date, itemKey string) error {
	return m.completions.DeleteCompletion(ctx, date, itemKey)
}

// FoodLogStorage methods - delegate to embedded food log storage.

func (m *MemoryStorage) ListEntries(ctx context.Context, date string) ([]storage.FoodEntry, error) {
	return m.foodLog.ListEntries(ctx, date)
}

func (m *MemoryStorage) ListEntriesInRange(ctx context.Context, from, to string) ([]storage.FoodEntry, error) {
	return m.foodLog.ListEntriesInRange(ctx, from, to)
}

func (m *MemoryStorage) InsertEntry(ctx context.Context, date, text string) (storage.FoodEntry, error) {
	return m.foodLog.InsertEntry(ctx, date, text)
}

// PlansStorage methods - delegate to embedded plans storage.

func (m *MemoryStorage) GetActivePlan(ctx context.Context) (storage.StoredPlan, bool, error) {
	return m.plans.GetActivePlan(ctx)
}

func (m *MemoryStorage) SaveActivePlan(ctx context.Context, name string, planData []byte) (storage.StoredPlan, error) {
	return m.plans.SaveActivePlan(ctx, name, planData)
}

// ReportsStorage methods - delegate to embedded reports storage.

func (m *MemoryStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	return m.reports.CreateReport(ctx, report)
}

func (m *MemoryStorage) GetReport(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	return m.reports.GetReport(ctx, id)
}

func (m *MemoryStorage) ListReports(ctx context.Context, limit, offset int) ([]storage.ReportMeta, error) {
	return m.reports.ListReports(ctx, limit, offset)
}

func (m *MemoryStorage) DeleteReport(ctx context.Context, id uuid.UUID) error {
	return m.reports.DeleteReport(ctx, id)
}

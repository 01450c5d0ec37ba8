package checklist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/markdg/habit-hub/internal/plan"
	"github.com/markdg/habit-hub/internal/storage"
)

type mockCompletions struct {
	records []storage.CompletionRecord
	err     error
}

func (m *mockCompletions) ListCompletions(ctx context.Context, from, to string) ([]storage.CompletionRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []storage.CompletionRecord
	for _, r := range m.records {
		if r.Date >= from && r.Date <= to {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockCompletions) UpsertCompletion(ctx context.Context, date, itemKey string) (storage.CompletionRecord, error) {
	if m.err != nil {
		return storage.CompletionRecord{}, m.err
	}
	for _, r := range m.records {
		if r.Date == date && r.ItemKey == itemKey {
			return r, nil
		}
	}
	rec := storage.CompletionRecord{ID: uuid.New(), Date: date, ItemKey: itemKey, CreatedAt: time.Now()}
	m.records = append(m.records, rec)
	return rec, nil
}

func (m *mockCompletions) DeleteCompletion(ctx context.Context, date, itemKey string) error {
	if m.err != nil {
		return m.err
	}
	kept := m.records[:0]
	for _, r := range m.records {
		if r.Date != date || r.ItemKey != itemKey {
			kept = append(kept, r)
		}
	}
	m.records = kept
	return nil
}

type fakePrograms struct {
	program plan.WeeklyProgram
}

func (f *fakePrograms) Active() plan.WeeklyProgram { return f.program }

func TestDayViewCounts(t *testing.T) {
	// 2026-08-31 is a Monday, a workout day in the default program.
	st := &mockCompletions{records: []storage.CompletionRecord{
		{ID: uuid.New(), Date: "2026-08-31", ItemKey: "protein_shake"},
		{ID: uuid.New(), Date: "2026-08-31", ItemKey: "wall_pushups"},
	}}
	service := NewService(st, &fakePrograms{program: plan.Default()})

	view, err := service.DayView(context.Background(), "2026-08-31")
	if err != nil {
		t.Fatalf("DayView: %v", err)
	}
	if view.DayType != string(plan.DayWorkout) {
		t.Errorf("day type = %q", view.DayType)
	}
	if view.CompletedCount != 2 || view.TotalCount != 5 {
		t.Errorf("counts = %d/%d, want 2/5", view.CompletedCount, view.TotalCount)
	}
	if view.AllDone {
		t.Error("partially completed day reported as all done")
	}

	for _, item := range view.Items {
		want := item.Key == "protein_shake" || item.Key == "wall_pushups"
		if item.Completed != want {
			t.Errorf("item %s completed = %v", item.Key, item.Completed)
		}
	}
}

func TestDayViewIgnoresUnknownKeys(t *testing.T) {
	st := &mockCompletions{records: []storage.CompletionRecord{
		{ID: uuid.New(), Date: "2026-08-31", ItemKey: "left_over_from_old_plan"},
	}}
	service := NewService(st, &fakePrograms{program: plan.Default()})

	view, err := service.DayView(context.Background(), "2026-08-31")
	if err != nil {
		t.Fatalf("DayView: %v", err)
	}
	if view.CompletedCount != 0 {
		t.Errorf("completed count = %d, want 0", view.CompletedCount)
	}
}

func TestDayViewEmptyDayNeverAllDone(t *testing.T) {
	program := plan.Default()
	program.Days[time.Saturday] = plan.DayProgram{Type: plan.DayRest}
	service := NewService(&mockCompletions{}, &fakePrograms{program: program})

	// 2026-09-05 is a Saturday.
	view, err := service.DayView(context.Background(), "2026-09-05")
	if err != nil {
		t.Fatalf("DayView: %v", err)
	}
	if view.TotalCount != 0 {
		t.Fatalf("total count = %d, want 0", view.TotalCount)
	}
	if view.AllDone {
		t.Error("zero-item day must not be all done")
	}
}

func TestDayViewInvalidDate(t *testing.T) {
	service := NewService(&mockCompletions{}, &fakePrograms{program: plan.Default()})
	if _, err := service.DayView(context.Background(), "31/08/2026"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}

func TestSetCompletionValidation(t *testing.T) {
	service := NewService(&mockCompletions{}, &fakePrograms{program: plan.Default()})
	ctx := context.Background()

	if _, err := service.SetCompletion(ctx, "not-a-date", "protein_shake"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
	if _, err := service.SetCompletion(ctx, "2026-08-31", "   "); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("expected ErrEmptyKey, got %v", err)
	}

	rec, err := service.SetCompletion(ctx, "2026-08-31", "protein_shake")
	if err != nil {
		t.Fatalf("SetCompletion: %v", err)
	}
	again, err := service.SetCompletion(ctx, "2026-08-31", "protein_shake")
	if err != nil {
		t.Fatalf("SetCompletion repeat: %v", err)
	}
	if again.ID != rec.ID {
		t.Error("repeated set should return the existing record")
	}
}

func TestClearCompletionIdempotent(t *testing.T) {
	st := &mockCompletions{records: []storage.CompletionRecord{
		{ID: uuid.New(), Date: "2026-08-31", ItemKey: "protein_shake"},
	}}
	service := NewService(st, &fakePrograms{program: plan.Default()})
	ctx := context.Background()

	if err := service.ClearCompletion(ctx, "2026-08-31", "protein_shake"); err != nil {
		t.Fatalf("ClearCompletion: %v", err)
	}
	// Clearing again is a no-op, not an error.
	if err := service.ClearCompletion(ctx, "2026-08-31", "protein_shake"); err != nil {
		t.Fatalf("ClearCompletion repeat: %v", err)
	}
}

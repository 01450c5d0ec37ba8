package checklist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/markdg/habit-hub/internal/storage"
)

type mockGateway struct {
	mu        sync.Mutex
	upserts   []string
	deletes   []string
	failNext  error
	listErr   error
	records   []storage.CompletionRecord
	blockOn   string        // "date:key" to hold mutations for
	blockGate chan struct{} // closed to release blocked mutations
}

func newMockGateway() *mockGateway {
	return &mockGateway{blockGate: make(chan struct{})}
}

func (m *mockGateway) ListCompletions(ctx context.Context, from, to string) ([]storage.CompletionRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []storage.CompletionRecord
	for _, r := range m.records {
		if r.Date >= from && r.Date <= to {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockGateway) UpsertCompletion(ctx context.Context, date, itemKey string) (storage.CompletionRecord, error) {
	m.maybeBlock(date + ":" + itemKey)
	if err := ctx.Err(); err != nil {
		return storage.CompletionRecord{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return storage.CompletionRecord{}, err
	}
	m.upserts = append(m.upserts, date+":"+itemKey)
	return storage.CompletionRecord{ID: uuid.New(), Date: date, ItemKey: itemKey, CreatedAt: time.Now()}, nil
}

func (m *mockGateway) DeleteCompletion(ctx context.Context, date, itemKey string) error {
	m.maybeBlock(date + ":" + itemKey)
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	m.deletes = append(m.deletes, date+":"+itemKey)
	return nil
}

func (m *mockGateway) maybeBlock(guard string) {
	m.mu.Lock()
	blocked := m.blockOn == guard
	m.mu.Unlock()
	if blocked {
		<-m.blockGate
	}
}

func (m *mockGateway) mutationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.upserts) + len(m.deletes)
}

func waitResult(t *testing.T, store *Store) ToggleResult {
	t.Helper()
	select {
	case r := <-store.Results():
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for toggle result")
		return ToggleResult{}
	}
}

func TestToggleRoundTrip(t *testing.T) {
	gw := newMockGateway()
	store := NewStore(gw)
	ctx := context.Background()

	if !store.Toggle(ctx, "2026-08-31", "protein_shake") {
		t.Fatal("first toggle rejected")
	}
	if !store.IsCompleted("2026-08-31", "protein_shake") {
		t.Error("expected optimistic completion")
	}
	r := waitResult(t, store)
	if r.Err != nil || !r.Completed {
		t.Fatalf("unexpected result %+v", r)
	}

	if !store.Toggle(ctx, "2026-08-31", "protein_shake") {
		t.Fatal("second toggle rejected")
	}
	if store.IsCompleted("2026-08-31", "protein_shake") {
		t.Error("expected optimistic removal")
	}
	r = waitResult(t, store)
	if r.Err != nil || r.Completed {
		t.Fatalf("unexpected result %+v", r)
	}

	gw.mu.Lock()
	defer gw.mu.Unlock()
	if len(gw.upserts) != 1 || len(gw.deletes) != 1 {
		t.Errorf("expected one upsert and one delete, got %v / %v", gw.upserts, gw.deletes)
	}
}

func TestToggleRollbackOnFailure(t *testing.T) {
	gw := newMockGateway()
	gw.failNext = errors.New("connection refused")
	store := NewStore(gw)

	if !store.Toggle(context.Background(), "2026-08-31", "dead_bug") {
		t.Fatal("toggle rejected")
	}
	r := waitResult(t, store)
	if r.Err == nil {
		t.Fatal("expected error result")
	}
	if r.Completed {
		t.Error("result should report the rolled-back state")
	}
	if store.IsCompleted("2026-08-31", "dead_bug") {
		t.Error("optimistic flip was not rolled back")
	}
}

func TestToggleDeleteRollback(t *testing.T) {
	gw := newMockGateway()
	store := NewStore(gw)
	ctx := context.Background()

	store.Toggle(ctx, "2026-09-01", "band_rows")
	waitResult(t, store)

	gw.mu.Lock()
	gw.failNext = errors.New("timeout")
	gw.mu.Unlock()

	store.Toggle(ctx, "2026-09-01", "band_rows")
	r := waitResult(t, store)
	if r.Err == nil {
		t.Fatal("expected error result")
	}
	if !r.Completed {
		t.Error("rolled-back state should still be completed")
	}
	if !store.IsCompleted("2026-09-01", "band_rows") {
		t.Error("delete failure should restore the completion")
	}
}

func TestToggleInFlightGuard(t *testing.T) {
	gw := newMockGateway()
	gw.blockOn = "2026-08-31:wall_pushups"
	store := NewStore(gw)
	ctx := context.Background()

	if !store.Toggle(ctx, "2026-08-31", "wall_pushups") {
		t.Fatal("first toggle rejected")
	}
	if store.Toggle(ctx, "2026-08-31", "wall_pushups") {
		t.Error("second toggle should be ignored while the first is in flight")
	}
	// The ignored toggle must not undo the optimistic flip.
	if !store.IsCompleted("2026-08-31", "wall_pushups") {
		t.Error("cache changed by an ignored toggle")
	}

	close(gw.blockGate)
	waitResult(t, store)

	if got := gw.mutationCount(); got != 1 {
		t.Errorf("expected exactly one mutation, got %d", got)
	}

	// Guard released: the key can be toggled again.
	if !store.Toggle(ctx, "2026-08-31", "wall_pushups") {
		t.Error("toggle rejected after the guard was released")
	}
	waitResult(t, store)
}

func TestToggleSurvivesCallerCancel(t *testing.T) {
	gw := newMockGateway()
	gw.blockOn = "2026-08-31:protein_shake"
	store := NewStore(gw)

	ctx, cancel := context.WithCancel(context.Background())
	if !store.Toggle(ctx, "2026-08-31", "protein_shake") {
		t.Fatal("toggle rejected")
	}

	// The caller goes away while the mutation is still in flight.
	cancel()
	close(gw.blockGate)

	r := waitResult(t, store)
	if r.Err != nil {
		t.Fatalf("mutation aborted by caller cancellation: %v", r.Err)
	}
	if !r.Completed || !store.IsCompleted("2026-08-31", "protein_shake") {
		t.Error("completion lost to a spurious rollback")
	}
	if got := gw.mutationCount(); got != 1 {
		t.Errorf("expected the mutation to be persisted, got %d", got)
	}
}

func TestToggleIndependentKeys(t *testing.T) {
	gw := newMockGateway()
	gw.blockOn = "2026-08-31:protein_shake"
	store := NewStore(gw)
	ctx := context.Background()

	store.Toggle(ctx, "2026-08-31", "protein_shake")

	// A different key on the same date is not held up by the pending one.
	if !store.Toggle(ctx, "2026-08-31", "bodyweight_squats") {
		t.Fatal("unrelated key blocked by another key's mutation")
	}
	r := waitResult(t, store)
	if r.ItemKey != "bodyweight_squats" || r.Err != nil {
		t.Fatalf("unexpected result %+v", r)
	}

	close(gw.blockGate)
	waitResult(t, store)
}

func TestLoadReplacesRange(t *testing.T) {
	gw := newMockGateway()
	gw.records = []storage.CompletionRecord{
		{ID: uuid.New(), Date: "2026-08-31", ItemKey: "protein_shake"},
		{ID: uuid.New(), Date: "2026-09-01", ItemKey: "stretch_10min"},
	}
	store := NewStore(gw)
	ctx := context.Background()

	if err := store.Load(ctx, "2026-08-31", "2026-09-06"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !store.IsCompleted("2026-08-31", "protein_shake") {
		t.Error("loaded completion missing")
	}
	if !store.IsCompleted("2026-09-01", "stretch_10min") {
		t.Error("loaded completion missing")
	}

	// A reload reflects remote deletions within the range.
	gw.records = gw.records[:1]
	if err := store.Load(ctx, "2026-08-31", "2026-09-06"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if store.IsCompleted("2026-09-01", "stretch_10min") {
		t.Error("stale completion survived reload")
	}
}

func TestLoadFailureKeepsCache(t *testing.T) {
	gw := newMockGateway()
	gw.records = []storage.CompletionRecord{
		{ID: uuid.New(), Date: "2026-08-31", ItemKey: "protein_shake"},
	}
	store := NewStore(gw)
	ctx := context.Background()

	if err := store.Load(ctx, "2026-08-31", "2026-09-06"); err != nil {
		t.Fatalf("Load: %v", err)
	}

	gw.listErr = storage.ErrUnavailable
	if err := store.Load(ctx, "2026-08-31", "2026-09-06"); err == nil {
		t.Fatal("expected error")
	}
	if !store.IsCompleted("2026-08-31", "protein_shake") {
		t.Error("cache cleared by a failed load")
	}
}

func TestSnapshotCopies(t *testing.T) {
	gw := newMockGateway()
	gw.records = []storage.CompletionRecord{
		{ID: uuid.New(), Date: "2026-08-31", ItemKey: "protein_shake"},
	}
	store := NewStore(gw)
	if err := store.Load(context.Background(), "2026-08-31", "2026-09-06"); err != nil {
		t.Fatalf("Load: %v", err)
	}

	snap := store.Snapshot("2026-08-31", "2026-09-06")
	delete(snap["2026-08-31"], "protein_shake")
	if !store.IsCompleted("2026-08-31", "protein_shake") {
		t.Error("snapshot mutation leaked into the store")
	}
}

package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrUnavailable wraps transport/backend failures on any gateway call.
	// Callers should treat the affected range as "unknown", not "empty".
	ErrUnavailable = errors.New("store unavailable")

	// ErrNotFound is returned when a single requested record does not exist.
	ErrNotFound = errors.New("record not found")
)

// CompletionRecord marks one checklist item as completed on one date.
// Presence = completed; the record is deleted when the item is unchecked.
// At most one record exists per (date, item_key).
type CompletionRecord struct {
	ID        uuid.UUID
	Date      string // YYYY-MM-DD
	ItemKey   string
	CreatedAt time.Time
}

// FoodEntry is one immutable free-text food log record.
type FoodEntry struct {
	ID        uuid.UUID
	Date      string // YYYY-MM-DD
	EntryText string
	LoggedAt  time.Time
}

// StoredPlan is a persisted weekly program. At most one plan is active.
type StoredPlan struct {
	ID        uuid.UUID
	Name      string
	PlanData  []byte // JSON, see plan.ParseProgram
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReportMeta describes an archived weekly check-in report.
type ReportMeta struct {
	ID        uuid.UUID
	Format    string // "txt" or "pdf"
	WeekStart string // YYYY-MM-DD (Monday)
	ObjectKey *string
	SizeBytes int64
	Status    string // "ready" or "failed"
	Error     *string
	CreatedAt time.Time
	Data      []byte // report bytes in local blob mode; nil when archived to S3
}

// CompletionsStorage manages checklist completion records.
type CompletionsStorage interface {
	// ListCompletions returns completions with from <= date <= to.
	ListCompletions(ctx context.Context, from, to string) ([]CompletionRecord, error)
	// UpsertCompletion creates the (date, itemKey) record if absent.
	// Idempotent: re-upserting an existing pair returns the stored record.
	UpsertCompletion(ctx context.Context, date, itemKey string) (CompletionRecord, error)
	// DeleteCompletion removes the (date, itemKey) record. Deleting an
	// absent pair is not an error.
	DeleteCompletion(ctx context.Context, date, itemKey string) error
}

// FoodLogStorage manages food log entries.
type FoodLogStorage interface {
	// ListEntries returns one date's entries, newest first.
	ListEntries(ctx context.Context, date string) ([]FoodEntry, error)
	// ListEntriesInRange returns entries with from <= date <= to,
	// ordered by date then logged_at ascending.
	ListEntriesInRange(ctx context.Context, from, to string) ([]FoodEntry, error)
	// InsertEntry persists one new record; the store assigns id and
	// logged_at and returns the stored row.
	InsertEntry(ctx context.Context, date, text string) (FoodEntry, error)
}

// PlansStorage manages stored weekly programs.
type PlansStorage interface {
	// GetActivePlan returns the single active plan. Returns false if none.
	GetActivePlan(ctx context.Context) (StoredPlan, bool, error)
	// SaveActivePlan stores a new plan and makes it the active one.
	SaveActivePlan(ctx context.Context, name string, planData []byte) (StoredPlan, error)
}

// ReportsStorage manages archived report metadata.
type ReportsStorage interface {
	CreateReport(ctx context.Context, report *ReportMeta) error
	GetReport(ctx context.Context, id uuid.UUID) (*ReportMeta, error)
	ListReports(ctx context.Context, limit, offset int) ([]ReportMeta, error)
	DeleteReport(ctx context.Context, id uuid.UUID) error
}

// Storage is the full persistence gateway.
type Storage interface {
	CompletionsStorage
	FoodLogStorage
	PlansStorage
	ReportsStorage

	// Close releases the underlying connection (Postgres).
	Close() error
}

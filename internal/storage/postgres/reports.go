package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/markdg/habit-hub/internal/storage"
)

// ReportsStorage implements storage.ReportsStorage for Postgres.
type ReportsStorage struct {
	pool *pgxpool.Pool
}

func NewReportsStorage(pool *pgxpool.Pool) *ReportsStorage {
	return &ReportsStorage{pool: pool}
}

// object_key, error and data are nullable: object_key and data are mutually
// exclusive (S3 vs local blob mode), error is only set for failed reports.
const insertReportQuery = `
	INSERT INTO checkin_reports (id, format, week_start, object_key, data, size_bytes, status, error)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING created_at
`

func (s *ReportsStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}

	err := s.pool.QueryRow(ctx, insertReportQuery,
		report.ID,
		report.Format,
		report.WeekStart,
		report.ObjectKey,
		report.Data,
		report.SizeBytes,
		report.Status,
		report.Error,
	).Scan(&report.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	return nil
}

func (s *ReportsStorage) GetReport(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, format, to_char(week_start, 'YYYY-MM-DD'), object_key, data, size_bytes, status, error, created_at
		FROM checkin_reports
		WHERE id = $1
	`

	var r storage.ReportMeta
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&r.ID,
		&r.Format,
		&r.WeekStart,
		&r.ObjectKey,
		&r.Data,
		&r.SizeBytes,
		&r.Status,
		&r.Error,
		&r.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	return &r, nil
}

func (s *ReportsStorage) ListReports(ctx context.Context, limit, offset int) ([]storage.ReportMeta, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, format, to_char(week_start, 'YYYY-MM-DD'), object_key, size_bytes, status, error, created_at
		FROM checkin_reports
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	defer rows.Close()

	reports := []storage.ReportMeta{}
	for rows.Next() {
		var r storage.ReportMeta
		err := rows.Scan(
			&r.ID,
			&r.Format,
			&r.WeekStart,
			&r.ObjectKey,
			&r.SizeBytes,
			&r.Status,
			&r.Error,
			&r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
		}
		reports = append(reports, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	return reports, nil
}

func (s *ReportsStorage) DeleteReport(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := s.pool.Exec(ctx, `DELETE FROM checkin_reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

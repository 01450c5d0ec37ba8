package reports

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/markdg/habit-hub/internal/blob"
	"github.com/markdg/habit-hub/internal/dateutil"
	"github.com/markdg/habit-hub/internal/storage"
)

// WeekReports renders the check-in text for the week containing a date.
// Implemented by week.Service.
type WeekReports interface {
	Report(ctx context.Context, date string) (string, error)
}

// Service handles report archive business logic
type Service struct {
	reportsStorage  storage.ReportsStorage
	weeks           WeekReports
	generator       *Generator
	blobStore       blob.Store
	presignTTL      int
	localMode       bool   // true if no S3 configured
	publicBaseURL   string // S3 public base URL (if prefer_public_url mode)
	preferPublicURL bool   // if true, use public URLs instead of presigned
	keepPerWeek     int    // 0 = keep all
}

// NewService creates a new reports service
func NewService(
	reportsStorage storage.ReportsStorage,
	weeks WeekReports,
	blobStore blob.Store,
	presignTTL int,
	publicBaseURL string,
	preferPublicURL bool,
	keepPerWeek int,
) *Service {
	return &Service{
		reportsStorage:  reportsStorage,
		weeks:           weeks,
		generator:       NewGenerator(),
		blobStore:       blobStore,
		presignTTL:      presignTTL,
		localMode:       blobStore == nil,
		publicBaseURL:   publicBaseURL,
		preferPublicURL: preferPublicURL,
		keepPerWeek:     keepPerWeek,
	}
}

// CreateReport renders the check-in report for the week containing req.Date
// and archives it.
func (s *Service) CreateReport(ctx context.Context, req CreateReportRequest) (*Report, error) {
	if req.Format != FormatTXT && req.Format != FormatPDF {
		return nil, ErrInvalidFormat
	}

	date, err := dateutil.ParseKey(req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	weekStart := dateutil.CanonicalKey(dateutil.WeekOf(date)[0])

	text, err := s.weeks.Report(ctx, req.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	data, err := s.generator.Generate(req.Format, weekStart, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}

	report := &storage.ReportMeta{
		Format:    req.Format,
		WeekStart: weekStart,
		SizeBytes: int64(len(data)),
		Status:    StatusReady,
	}

	if s.localMode {
		// Local mode: keep the bytes with the metadata row
		report.Data = data
	} else {
		objectKey := fmt.Sprintf("checkins/%s_%s.%s",
			weekStart,
			uuid.New().String(),
			req.Format,
		)

		if _, err := s.blobStore.PutObject(ctx, objectKey, data, contentTypeFor(req.Format)); err != nil {
			return nil, fmt.Errorf("failed to upload to S3: %w", err)
		}

		report.ObjectKey = &objectKey
	}

	if err := s.reportsStorage.CreateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save report metadata: %w", err)
	}

	s.pruneWeek(ctx, weekStart, report.ID)

	return s.toReport(report), nil
}

// pruneWeek drops the oldest archived reports for a week once the cap is
// exceeded. Best-effort: a failed prune never fails the create that
// triggered it.
func (s *Service) pruneWeek(ctx context.Context, weekStart string, justCreated uuid.UUID) {
	if s.keepPerWeek <= 0 {
		return
	}

	metaList, err := s.reportsStorage.ListReports(ctx, 1000, 0)
	if err != nil {
		fmt.Printf("warning: report prune skipped, list failed: %v\n", err)
		return
	}

	// metaList is newest first; collect this week's reports beyond the cap.
	kept := 0
	for _, meta := range metaList {
		if meta.WeekStart != weekStart {
			continue
		}
		kept++
		if kept <= s.keepPerWeek || meta.ID == justCreated {
			continue
		}
		if err := s.DeleteReport(ctx, meta.ID); err != nil {
			fmt.Printf("warning: failed to prune report %s: %v\n", meta.ID, err)
		}
	}
}

// GetReport retrieves a report by ID
func (s *Service) GetReport(ctx context.Context, id uuid.UUID) (*Report, error) {
	meta, err := s.reportsStorage.GetReport(ctx, id)
	if err != nil {
		return nil, ErrReportNotFound
	}
	return s.toReport(meta), nil
}

// ListReports lists archived reports, newest first
func (s *Service) ListReports(ctx context.Context, limit, offset int) ([]Report, error) {
	metaList, err := s.reportsStorage.ListReports(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	reports := make([]Report, len(metaList))
	for i, meta := range metaList {
		reports[i] = *s.toReport(&meta)
	}

	return reports, nil
}

// DeleteReport deletes a report and its archived object
func (s *Service) DeleteReport(ctx context.Context, id uuid.UUID) error {
	meta, err := s.reportsStorage.GetReport(ctx, id)
	if err != nil {
		return ErrReportNotFound
	}

	if !s.localMode && meta.ObjectKey != nil {
		if err := s.blobStore.DeleteObject(ctx, *meta.ObjectKey); err != nil {
			// Log but don't fail - metadata deletion is more important
			fmt.Printf("warning: failed to delete S3 object: %v\n", err)
		}
	}

	if err := s.reportsStorage.DeleteReport(ctx, id); err != nil {
		return fmt.Errorf("failed to delete report metadata: %w", err)
	}

	return nil
}

// GetReportDownloadURL generates a download URL for a report
func (s *Service) GetReportDownloadURL(ctx context.Context, id uuid.UUID, baseURL string) (string, error) {
	meta, err := s.reportsStorage.GetReport(ctx, id)
	if err != nil {
		return "", ErrReportNotFound
	}

	if s.localMode {
		// Local mode: direct download endpoint
		return fmt.Sprintf("%s/v1/reports/%s/download", strings.TrimSuffix(baseURL, "/"), id.String()), nil
	}

	if meta.ObjectKey == nil {
		return "", fmt.Errorf("object key is missing")
	}

	if s.preferPublicURL && s.publicBaseURL != "" {
		return strings.TrimSuffix(s.publicBaseURL, "/") + "/" + *meta.ObjectKey, nil
	}

	presignedURL, err := s.blobStore.PresignGet(ctx, *meta.ObjectKey, s.presignTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return presignedURL, nil
}

// GetReportData retrieves the raw report data (for local mode download)
func (s *Service) GetReportData(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	meta, err := s.reportsStorage.GetReport(ctx, id)
	if err != nil {
		return nil, "", ErrReportNotFound
	}

	contentType := contentTypeFor(meta.Format)

	if s.localMode {
		return meta.Data, contentType, nil
	}

	if meta.ObjectKey == nil {
		return nil, "", fmt.Errorf("object key is missing")
	}

	data, err := s.blobStore.GetObject(ctx, *meta.ObjectKey)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch object: %w", err)
	}
	return data, contentType, nil
}

func contentTypeFor(format string) string {
	if format == FormatPDF {
		return "application/pdf"
	}
	return "text/plain; charset=utf-8"
}

// toReport converts ReportMeta to Report model
func (s *Service) toReport(meta *storage.ReportMeta) *Report {
	return &Report{
		ID:        meta.ID,
		Format:    meta.Format,
		WeekStart: meta.WeekStart,
		ObjectKey: meta.ObjectKey,
		SizeBytes: meta.SizeBytes,
		Status:    meta.Status,
		Error:     meta.Error,
		CreatedAt: meta.CreatedAt,
		Data:      meta.Data,
	}
}

// Errors
var (
	ErrInvalidFormat  = fmt.Errorf("invalid format")
	ErrInvalidDate    = fmt.Errorf("invalid date format")
	ErrReportNotFound = fmt.Errorf("report not found")
)

package reports

import (
	"time"

	"github.com/google/uuid"
)

// Report represents an archived check-in report's metadata
type Report struct {
	ID        uuid.UUID
	Format    string // "txt" or "pdf"
	WeekStart string // YYYY-MM-DD, always a Monday
	ObjectKey *string
	SizeBytes int64
	Status    string // "ready" or "failed"
	Error     *string
	CreatedAt time.Time
	Data      []byte // Only used in local mode
}

// CreateReportRequest is the request to archive a report
type CreateReportRequest struct {
	Date   string `json:"date"`   // any date inside the target week
	Format string `json:"format"` // "txt" or "pdf"
}

// ReportDTO is the response representation of a report
type ReportDTO struct {
	ID          uuid.UUID `json:"id"`
	Format      string    `json:"format"`
	WeekStart   string    `json:"week_start"`
	DownloadURL string    `json:"download_url"`
	SizeBytes   int64     `json:"size_bytes"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReportsResponse is the list response
type ReportsResponse struct {
	Reports []ReportDTO `json:"reports"`
}

// Constants for validation
const (
	FormatTXT = "txt"
	FormatPDF = "pdf"

	StatusReady  = "ready"
	StatusFailed = "failed"
)

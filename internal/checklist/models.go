package checklist

import (
	"time"

	"github.com/google/uuid"
	"github.com/markdg/habit-hub/internal/storage"
)

// ItemState is one checklist item for a given date with its completion flag.
type ItemState struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Category  string `json:"category"`
	Completed bool   `json:"completed"`
}

// DayView is the resolved checklist for a single date.
type DayView struct {
	Date           string      `json:"date"` // YYYY-MM-DD
	DayType        string      `json:"day_type"`
	DayLabel       string      `json:"day_label"`
	Items          []ItemState `json:"items"`
	CompletedCount int         `json:"completed_count"`
	TotalCount     int         `json:"total_count"`
	AllDone        bool        `json:"all_done"`
}

// CompletionDTO is the API representation of one completion record
type CompletionDTO struct {
	ID        uuid.UUID `json:"id"`
	Date      string    `json:"date"`
	ItemKey   string    `json:"item_key"`
	CreatedAt time.Time `json:"created_at"`
}

// CompletionsResponse is the response for listing completions
type CompletionsResponse struct {
	Completions []CompletionDTO `json:"completions"`
}

func toDTO(r storage.CompletionRecord) CompletionDTO {
	return CompletionDTO{
		ID:        r.ID,
		Date:      r.Date,
		ItemKey:   r.ItemKey,
		CreatedAt: r.CreatedAt,
	}
}

// SetCompletionRequest is the request body for PUT /v1/checklist/completions
type SetCompletionRequest struct {
	Date    string `json:"date"`
	ItemKey string `json:"item_key"`
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

package foodlog

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/markdg/habit-hub/internal/storage"
)

// AppendEntryRequest is the request body for POST /v1/food
type AppendEntryRequest struct {
	Date      string `json:"date"`
	EntryText string `json:"entry_text"`
}

// FoodEntryDTO is the API representation of one food log entry
type FoodEntryDTO struct {
	ID        uuid.UUID `json:"id"`
	Date      string    `json:"date"`
	EntryText string    `json:"entry_text"`
	LoggedAt  time.Time `json:"logged_at"`
}

// EntriesResponse is the response for listing one day's entries
type EntriesResponse struct {
	Entries []FoodEntryDTO `json:"entries"`
}

// RangeResponse is the response for a date-range listing, grouped by date
type RangeResponse struct {
	Days map[string][]FoodEntryDTO `json:"days"`
}

func toDTO(e storage.FoodEntry) FoodEntryDTO {
	return FoodEntryDTO{
		ID:        e.ID,
		Date:      e.Date,
		EntryText: e.EntryText,
		LoggedAt:  e.LoggedAt,
	}
}

func toDTOs(entries []storage.FoodEntry) []FoodEntryDTO {
	dtos := make([]FoodEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toDTO(e)
	}
	return dtos
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

// HandleList handles GET /v1/food?date=
func HandleList(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if date == "" {
			writeError(w, http.StatusBadRequest, "missing_params", "date is required")
			return
		}

		entries, err := service.Entries(r.Context(), date)
		if err != nil {
			if errors.Is(err, ErrInvalidDate) {
				writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(EntriesResponse{Entries: toDTOs(entries)})
	}
}

// HandleListRange handles GET /v1/food/range?from=&to=
func HandleListRange(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from := r.URL.Query().Get("from")
		to := r.URL.Query().Get("to")
		if from == "" || to == "" {
			writeError(w, http.StatusBadRequest, "missing_params", "from and to are required")
			return
		}

		days, err := service.EntriesByDate(r.Context(), from, to)
		if err != nil {
			if errors.Is(err, ErrInvalidDate) {
				writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		grouped := make(map[string][]FoodEntryDTO, len(days))
		for date, entries := range days {
			grouped[date] = toDTOs(entries)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(RangeResponse{Days: grouped})
	}
}

// HandleAppend handles POST /v1/food
func HandleAppend(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AppendEntryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
			return
		}

		entry, err := service.Append(r.Context(), req.Date, req.EntryText)
		if err != nil {
			if errors.Is(err, ErrInvalidDate) {
				writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
				return
			}
			if errors.Is(err, ErrEmptyEntry) {
				writeError(w, http.StatusBadRequest, "empty_entry", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(toDTO(entry))
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

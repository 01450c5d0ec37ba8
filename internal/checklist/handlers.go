package checklist

import (
	"encoding/json"
	"errors"
	"net/http"
)

// HandleDay handles GET /v1/checklist/day?date=
func HandleDay(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if date == "" {
			writeError(w, http.StatusBadRequest, "missing_params", "date is required")
			return
		}

		view, err := service.DayView(r.Context(), date)
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
		json.NewEncoder(w).Encode(view)
	}
}

// HandleListCompletions handles GET /v1/checklist/completions?from=&to=
func HandleListCompletions(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from := r.URL.Query().Get("from")
		to := r.URL.Query().Get("to")
		if from == "" || to == "" {
			writeError(w, http.StatusBadRequest, "missing_params", "from and to are required")
			return
		}

		records, err := service.ListCompletions(r.Context(), from, to)
		if err != nil {
			if errors.Is(err, ErrInvalidDate) {
				writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		dtos := make([]CompletionDTO, len(records))
		for i, r := range records {
			dtos[i] = toDTO(r)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(CompletionsResponse{Completions: dtos})
	}
}

// HandleSetCompletion handles PUT /v1/checklist/completions
func HandleSetCompletion(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SetCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
			return
		}

		record, err := service.SetCompletion(r.Context(), req.Date, req.ItemKey)
		if err != nil {
			if errors.Is(err, ErrInvalidDate) {
				writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
				return
			}
			if errors.Is(err, ErrEmptyKey) {
				writeError(w, http.StatusBadRequest, "missing_item_key", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(toDTO(record))
	}
}

// HandleClearCompletion handles DELETE /v1/checklist/completions?date=&item_key=
func HandleClearCompletion(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		itemKey := r.URL.Query().Get("item_key")
		if date == "" || itemKey == "" {
			writeError(w, http.StatusBadRequest, "missing_params", "date and item_key are required")
			return
		}

		if err := service.ClearCompletion(r.Context(), date, itemKey); err != nil {
			if errors.Is(err, ErrInvalidDate) {
				writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		w.WriteHeader(http.StatusNoContent)
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

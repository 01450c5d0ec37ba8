package plan

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// PlanResponse is the API representation of the active plan.
type PlanResponse struct {
	Name   string          `json:"name"`
	Source string          `json:"source"`
	Days   json.RawMessage `json:"days"`
}

// UpdatePlanRequest is the request body for PUT /v1/plan
type UpdatePlanRequest struct {
	Name string          `json:"name"`
	Days json.RawMessage `json:"days"`
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

// HandleGet handles GET /v1/plan
func HandleGet(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		program := service.Active()

		days, err := EncodeProgram(program)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(PlanResponse{
			Name:   program.Name,
			Source: string(service.ActiveSource()),
			Days:   days,
		})
	}
}

// HandleUpdate handles PUT /v1/plan
func HandleUpdate(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdatePlanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			writeError(w, http.StatusBadRequest, "missing_name", "plan name is required")
			return
		}
		if len(req.Days) == 0 {
			writeError(w, http.StatusBadRequest, "missing_days", "days payload is required")
			return
		}

		program, err := service.Update(r.Context(), name, req.Days)
		if err != nil {
			if errors.Is(err, ErrInvalidProgram) {
				writeError(w, http.StatusBadRequest, "invalid_plan", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		days, err := EncodeProgram(program)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(PlanResponse{
			Name:   program.Name,
			Source: string(SourceRemote),
			Days:   days,
		})
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

package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/snowdash/snowdash/core/infrastructure/logging"
	"github.com/snowdash/snowdash/core/infrastructure/transport/http/dto"
	"github.com/snowdash/snowdash/core/shared/errors"
	"github.com/snowdash/snowdash/core/tabular"
)

// QueryService runs one warehouse query per call.
type QueryService interface {
	Run(ctx context.Context, query string, params map[string]any) (*tabular.Result, error)
}

var validate = validator.New()

// decodeQueryRequest parses and validates the request body, writing the
// error response itself when the body is unusable.
func decodeQueryRequest(w http.ResponseWriter, r *http.Request) (*dto.QueryRequest, bool) {
	var req dto.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ValidationErrorResponse{
			Error: "invalid JSON body",
		})
		return nil, false
	}

	if err := validate.Struct(&req); err != nil {
		resp := dto.ValidationErrorResponse{Error: "validation failed"}
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrs {
				resp.Details = append(resp.Details, dto.ErrorDetail{
					Field:   fieldErr.Field(),
					Message: fieldErr.Error(),
					Tag:     fieldErr.Tag(),
				})
			}
		}
		writeJSON(w, http.StatusBadRequest, resp)
		return nil, false
	}

	return &req, true
}

// handleQuery runs a statement and returns the materialized rows.
func handleQuery(service QueryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logging.New("handler")

		req, ok := decodeQueryRequest(w, r)
		if !ok {
			return
		}

		result, err := service.Run(r.Context(), req.Query, req.Params)
		if err != nil {
			log.Errorf("Query failed: %v", err)
			writeJSON(w, errors.Status(err), dto.QueryResponse{
				Success: false,
				Error:   err.Error(),
				Columns: []string{},
				Rows:    []tabular.Row{},
			})
			return
		}

		// Rows is always a non-nil slice so the JSON field is never null.
		rows := result.Rows
		if rows == nil {
			rows = []tabular.Row{}
		}
		columns := result.Columns
		if columns == nil {
			columns = []string{}
		}

		log.Debugf("Query returned %d row(s)", result.Len())
		writeJSON(w, http.StatusOK, dto.QueryResponse{
			Success: true,
			Columns: columns,
			Rows:    rows,
			Count:   result.Len(),
		})
	}
}

// handleHealth reports liveness.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.HealthResponse{Success: true})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

package dto

import "github.com/snowdash/snowdash/core/tabular"

// QueryRequest is the body of POST /api/query and POST /api/export.
type QueryRequest struct {
	Query  string         `json:"query" validate:"required,min=1,max=10000"`
	Params map[string]any `json:"params"`
}

// QueryResponse represents a query execution response
type QueryResponse struct {
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
	Columns []string      `json:"columns"`
	Rows    []tabular.Row `json:"rows"`
	Count   int           `json:"count"`
}

package http

import (
	"net/http"

	"github.com/snowdash/snowdash/core/infrastructure/logging"
	"github.com/snowdash/snowdash/core/shared/errors"
	"github.com/snowdash/snowdash/core/tabular"
)

// ExportFilename is the download name for the CSV export.
const ExportFilename = "v_america.csv"

// handleExport re-runs the statement and streams the result as a CSV
// attachment. Results are never cached server-side, so export always
// performs its own warehouse call.
func handleExport(service QueryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logging.New("handler")

		req, ok := decodeQueryRequest(w, r)
		if !ok {
			return
		}

		result, err := service.Run(r.Context(), req.Query, req.Params)
		if err != nil {
			log.Errorf("Export query failed: %v", err)
			writeJSON(w, errors.Status(err), map[string]any{
				"success": false,
				"error":   err.Error(),
			})
			return
		}

		// Encode before writing headers so a late failure can still
		// produce an error response.
		body, err := tabular.CSVBytes(result)
		if err != nil {
			log.Errorf("CSV encoding failed: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"success": false,
				"error":   err.Error(),
			})
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+ExportFilename+`"`)
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	}
}

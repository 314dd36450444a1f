package http

import (
	"embed"
	"net/http"

	"github.com/snowdash/snowdash/core/infrastructure/logging"
)

// staticFS holds the embedded dashboard page.
//
//go:embed static/index.html
var staticFS embed.FS

// handleDashboard serves the single-page dashboard.
func handleDashboard() http.HandlerFunc {
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		// Embedded asset missing means a broken build.
		logging.New("http").Errorf("dashboard page not embedded: %v", err)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(page)
	}
}

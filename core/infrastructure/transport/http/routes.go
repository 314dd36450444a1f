package http

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes registers all dashboard routes on the server.
func RegisterRoutes(s *Server, service QueryService) {
	r := s.Router()

	r.Get("/", handleDashboard())
	r.Get("/healthz", handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/query", handleQuery(service))
	r.Post("/api/export", handleExport(service))
}

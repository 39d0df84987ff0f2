package endpoints

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alqor-ug/qlued-go/pkg/server"
)

// RegisterStatusEndpoints registers the health and metrics endpoints
// (no auth required).
func RegisterStatusEndpoints(s *server.Server) {
	s.Router.HandleFunc("/healthz", handleHealth(s)).Methods("GET")

	s.Router.Handle(
		"/metrics",
		promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{}),
	).Methods("GET")
}

func handleHealth(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := s.DB.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "error",
				"error":  "database connectivity check failed",
			})
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

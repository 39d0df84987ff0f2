package endpoints

import (
	"github.com/alqor-ug/qlued-go/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(s *server.Server) {
	v3 := s.Router.PathPrefix("/api/v3").Subrouter()
	v2 := s.Router.PathPrefix("/api/v2").Subrouter()

	// v3: bearer auth on the job endpoints
	RegisterBackendsEndpoints(s, v3)
	RegisterJobsEndpoints(s, v3)

	// v2: same backend surface, token in the body or query
	RegisterBackendsEndpoints(s, v2)
	RegisterJobsV2Endpoints(s, v2)

	RegisterStatusEndpoints(s)
	RegisterDocsEndpoints(s)
}

package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/alqor-ug/qlued-go/pkg/identity"
	"github.com/alqor-ug/qlued-go/pkg/schemes"
	"github.com/alqor-ug/qlued-go/pkg/server"
	"github.com/alqor-ug/qlued-go/pkg/server/middleware"
)

// jobWithToken is the v2 request body: the job document is a JSON string
// and the API token travels in the body instead of a header.
type jobWithToken struct {
	Job   string `json:"job"`
	Token string `json:"token"`
}

// RegisterJobsV2Endpoints registers the legacy job endpoints. They differ
// from v3 only in how the credentials are transported.
func RegisterJobsV2Endpoints(s *server.Server, router *mux.Router) {
	resolver := backendResolver{providers: s.Providers, window: s.Config.OperationalWindow()}

	// POST /{backend_name}/post_job - Submit a job, token in the body
	router.HandleFunc("/{backend_name}/post_job", handlePostJobV2(s, resolver)).Methods("POST")

	// GET /{backend_name}/get_job_status - Job status, token in the query
	router.HandleFunc("/{backend_name}/get_job_status", handleJobQueryV2(s, handleGetJobStatus(resolver))).Methods("GET")

	// GET /{backend_name}/get_job_result - Job result, token in the query
	router.HandleFunc("/{backend_name}/get_job_result", handleJobQueryV2(s, handleGetJobResult(resolver))).Methods("GET")
}

func handlePostJobV2(s *server.Server, resolver backendResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		backendName := mux.Vars(r)["backend_name"]

		var body jobWithToken
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Job == "" {
			respondWithJSON(
				w,
				http.StatusUnprocessableEntity,
				schemes.ErrorStatus("", "Invalid request body!"),
			)
			return
		}

		id, err := s.Auth.Authenticate(body.Token)
		if err != nil {
			middleware.Unauthorized(w)
			return
		}

		if !json.Valid([]byte(body.Job)) {
			respondWithJSON(
				w,
				http.StatusUnprocessableEntity,
				schemes.ErrorStatus("", "The job is not a valid json document!"),
			)
			return
		}

		provider, _, device, err := resolver.resolve(ctx, backendName)
		if err != nil {
			respondWithJSON(w, http.StatusNotFound, unknownBackendStatus())
			return
		}
		if !hostsDevice(ctx, provider, device) {
			respondWithJSON(w, http.StatusNotFound, unknownBackendStatus())
			return
		}

		jobID, err := provider.UploadJob(ctx, json.RawMessage(body.Job), device, id.Username)
		if err != nil {
			respondWithJSON(
				w,
				http.StatusNotAcceptable,
				schemes.ErrorStatus("", "Error saving json data to database!"),
			)
			return
		}

		status, err := provider.UploadStatus(ctx, device, id.Username, jobID)
		if err != nil {
			respondWithJSON(
				w,
				http.StatusNotAcceptable,
				schemes.ErrorStatus("", "Error saving json data to database!"),
			)
			return
		}

		s.Metrics.JobsSubmitted.WithLabelValues(device).Inc()
		respondWithJSON(w, http.StatusOK, status)
	}
}

// handleJobQueryV2 authenticates through the token query parameter and then
// defers to the shared v3 handler, with the identity in the context.
func handleJobQueryV2(s *server.Server, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		id, err := s.Auth.Authenticate(token)
		if err != nil {
			middleware.Unauthorized(w)
			return
		}
		next(w, r.WithContext(identity.Set(r.Context(), id)))
	}
}

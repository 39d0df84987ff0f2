package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/alqor-ug/qlued-go/pkg/identity"
	"github.com/alqor-ug/qlued-go/pkg/log"
	"github.com/alqor-ug/qlued-go/pkg/schemes"
	"github.com/alqor-ug/qlued-go/pkg/server"
)

// jobPayload is the request body of post_job: the circuit description is
// wrapped into a payload field.
type jobPayload struct {
	Payload json.RawMessage `json:"payload"`
}

// RegisterJobsEndpoints registers the authenticated job endpoints on the
// given router.
func RegisterJobsEndpoints(s *server.Server, router *mux.Router) {
	resolver := backendResolver{providers: s.Providers, window: s.Config.OperationalWindow()}

	jobsRouter := router.NewRoute().Subrouter()
	jobsRouter.Use(s.Auth.Middleware)

	// POST /{backend_name}/post_job - Submit a job
	jobsRouter.HandleFunc("/{backend_name}/post_job", handlePostJob(s, resolver)).Methods("POST")

	// GET /{backend_name}/get_job_status - Status of a submitted job
	jobsRouter.HandleFunc("/{backend_name}/get_job_status", handleGetJobStatus(resolver)).Methods("GET")

	// GET /{backend_name}/get_job_result - Result of a finished job
	jobsRouter.HandleFunc("/{backend_name}/get_job_result", handleGetJobResult(resolver)).Methods("GET")
}

func handlePostJob(s *server.Server, resolver backendResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		backendName := mux.Vars(r)["backend_name"]

		var body jobPayload
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Payload) == 0 {
			respondWithJSON(
				w,
				http.StatusUnprocessableEntity,
				schemes.ErrorStatus("", "Invalid request body!"),
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

		id, ok := identity.Get(ctx)
		if !ok {
			respondWithJSON(
				w,
				http.StatusNotAcceptable,
				schemes.ErrorStatus("", "Error saving json data to database!"),
			)
			return
		}

		jobID, err := provider.UploadJob(ctx, body.Payload, device, id.Username)
		if err != nil {
			logger := log.WithComponent("endpoints")
			logger.Error().Err(err).
				Str("backend", backendName).Msg("uploading job")
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

func handleGetJobStatus(resolver backendResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		backendName := mux.Vars(r)["backend_name"]
		jobID := r.URL.Query().Get("job_id")

		if jobID == "" {
			respondWithJSON(
				w,
				http.StatusUnprocessableEntity,
				schemes.ErrorStatus("", "The job_id is missing!"),
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

		id, ok := identity.Get(ctx)
		if !ok {
			respondWithJSON(
				w,
				http.StatusNotAcceptable,
				schemes.ErrorStatus(jobID, "Error getting status from database!"),
			)
			return
		}

		status, err := provider.GetStatus(ctx, device, id.Username, jobID)
		if err != nil {
			respondWithJSON(
				w,
				http.StatusNotAcceptable,
				schemes.ErrorStatus(jobID, "Error getting status from database!"),
			)
			return
		}
		if status.Status == schemes.JobStatusError {
			respondWithJSON(w, http.StatusNotAcceptable, status)
			return
		}
		respondWithJSON(w, http.StatusOK, status)
	}
}

func handleGetJobResult(resolver backendResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		backendName := mux.Vars(r)["backend_name"]
		jobID := r.URL.Query().Get("job_id")

		if jobID == "" {
			respondWithJSON(
				w,
				http.StatusUnprocessableEntity,
				schemes.ErrorStatus("", "The job_id is missing!"),
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

		id, ok := identity.Get(ctx)
		if !ok {
			respondWithJSON(
				w,
				http.StatusNotAcceptable,
				schemes.ErrorStatus(jobID, "Error getting status from database!"),
			)
			return
		}

		status, err := provider.GetStatus(ctx, device, id.Username, jobID)
		if err != nil {
			respondWithJSON(
				w,
				http.StatusNotAcceptable,
				schemes.ErrorStatus(jobID, "Error getting status from database!"),
			)
			return
		}
		if status.Status == schemes.JobStatusError {
			respondWithJSON(w, http.StatusNotAcceptable, status)
			return
		}
		if status.Status != schemes.JobStatusDone {
			// Not finished yet, hand the status back instead of a result.
			respondWithJSON(w, http.StatusOK, status)
			return
		}

		result, err := provider.GetResult(ctx, device, id.Username, jobID)
		if err != nil {
			respondWithJSON(
				w,
				http.StatusNotAcceptable,
				schemes.ErrorStatus(jobID, "Error getting result from database!"),
			)
			return
		}
		respondWithJSON(w, http.StatusOK, result)
	}
}

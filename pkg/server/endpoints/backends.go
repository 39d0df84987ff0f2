package endpoints

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/alqor-ug/qlued-go/pkg/log"
	"github.com/alqor-ug/qlued-go/pkg/model"
	"github.com/alqor-ug/qlued-go/pkg/schemes"
	"github.com/alqor-ug/qlued-go/pkg/server"
	"github.com/alqor-ug/qlued-go/pkg/server/store"
	"github.com/alqor-ug/qlued-go/pkg/storage"
)

// RegisterBackendsEndpoints registers the backend listing and inspection
// endpoints on the given router.
func RegisterBackendsEndpoints(s *server.Server, router *mux.Router) {
	resolver := backendResolver{providers: s.Providers, window: s.Config.OperationalWindow()}
	baseURL := s.Config.BaseURL

	// GET /backends - List all backends (no auth required)
	router.HandleFunc("/backends", handleListBackends(s.Providers, resolver, baseURL)).Methods("GET")

	// GET /{backend_name}/get_config - Backend configuration (no auth required)
	router.HandleFunc("/{backend_name}/get_config", handleGetConfig(resolver, baseURL)).Methods("GET")

	// GET /{backend_name}/get_backend_status - Backend status (no auth required)
	router.HandleFunc("/{backend_name}/get_backend_status", handleGetBackendStatus(resolver)).Methods("GET")
}

// backendDict assembles the outward-facing configuration document of a
// device: the stored config plus the full name, the v2 URL and the
// operational flag derived from the queue heartbeat.
func backendDict(
	ctx context.Context,
	provider storage.Provider,
	entry *model.StorageProvider,
	device string,
	baseURL string,
) (*schemes.BackendConfig, error) {
	config, err := provider.GetConfig(ctx, device)
	if err != nil {
		return nil, err
	}

	fullName := config.FullName(entry.Name)
	config.Name = fullName
	config.URL = baseURL + "/api/v2/" + fullName + "/"

	if status, err := provider.GetBackendStatus(ctx, device); err == nil {
		config.Operational = status.Operational
	}
	return config, nil
}

func handleListBackends(
	providers store.ProvidersStore,
	resolver backendResolver,
	baseURL string,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := log.WithComponent("endpoints")

		backendList := []*schemes.BackendConfig{}

		entries, err := providers.ListActive()
		if err != nil {
			logger.Error().Err(err).Msg("listing storage providers")
			respondWithError(w, http.StatusInternalServerError, "failed to list backends")
			return
		}

		for i := range entries {
			entry := &entries[i]
			provider, err := storage.FromEntry(entry, resolver.window)
			if err != nil {
				logger.Warn().Err(err).
					Str("provider", entry.Name).Msg("skipping unreachable storage provider")
				continue
			}
			backends, err := provider.GetBackends(ctx)
			if err != nil {
				continue
			}
			for _, device := range backends {
				// Devices called dummy are test systems and are not listed.
				if strings.Contains(device, "dummy") {
					continue
				}
				config, err := backendDict(ctx, provider, entry, device, baseURL)
				if err != nil {
					continue
				}
				backendList = append(backendList, config)
			}
		}

		respondWithJSON(w, http.StatusOK, backendList)
	}
}

func handleGetConfig(resolver backendResolver, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		backendName := mux.Vars(r)["backend_name"]

		provider, entry, device, err := resolver.resolve(ctx, backendName)
		if err != nil {
			respondWithJSON(w, http.StatusNotFound, badBackendNameStatus(backendName))
			return
		}

		config, err := backendDict(ctx, provider, entry, device, baseURL)
		if err != nil {
			respondWithJSON(w, http.StatusNotFound, badBackendNameStatus(backendName))
			return
		}

		respondWithJSON(w, http.StatusOK, config)
	}
}

func handleGetBackendStatus(resolver backendResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		backendName := mux.Vars(r)["backend_name"]

		provider, _, device, err := resolver.resolve(ctx, backendName)
		if err != nil {
			status := unknownBackendStatus()
			status.Detail = "Unknown back-end! The string should have 1 or three parts separated by `_`!"
			respondWithJSON(w, http.StatusNotFound, status)
			return
		}

		backendStatus, err := provider.GetBackendStatus(ctx, device)
		if err != nil {
			status := unknownBackendStatus()
			status.Detail = "Unknown back-end! The string should have 1 or three parts separated by `_`!"
			respondWithJSON(w, http.StatusNotFound, status)
			return
		}

		respondWithJSON(w, http.StatusOK, backendStatus)
	}
}

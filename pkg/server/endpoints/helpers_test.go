package endpoints

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/alqor-ug/qlued-go/pkg/config"
	"github.com/alqor-ug/qlued-go/pkg/model"
	"github.com/alqor-ug/qlued-go/pkg/schemes"
	"github.com/alqor-ug/qlued-go/pkg/server"
	"github.com/alqor-ug/qlued-go/pkg/server/middleware"
	"github.com/alqor-ug/qlued-go/pkg/server/store"
	"github.com/alqor-ug/qlued-go/pkg/storage"
	"github.com/alqor-ug/qlued-go/pkg/storage/local"
)

const testBaseURL = "https://qlued.example.com"

// newTestServer builds a server around mock stores, without a database.
func newTestServer(tokens *MockTokensStore, providers *MockProvidersStore) *server.Server {
	registry := prometheus.NewRegistry()
	s := &server.Server{
		Router:    mux.NewRouter().UseEncodedPath(),
		Tokens:    tokens,
		Providers: providers,
		Auth:      middleware.NewTokenAuth(tokens),
		Config: &config.QluedConfig{
			BaseURL:                  testBaseURL,
			OperationalWindowSeconds: 300,
		},
		Metrics:  server.NewMetrics(registry),
		Registry: registry,
	}
	return s
}

// newLocalProviderEntry seeds a local storage provider in a temp directory
// with a single simulator device and returns the database entry.
func newLocalProviderEntry(t *testing.T, name, device string) *model.StorageProvider {
	t.Helper()

	basePath := t.TempDir()
	login, err := json.Marshal(schemes.LocalLogin{BasePath: basePath})
	require.NoError(t, err)

	entry := &model.StorageProvider{
		ID:          1,
		StorageType: schemes.StorageTypeLocal,
		Name:        name,
		IsActive:    true,
		Login:       string(login),
	}

	provider := local.New(basePath, 5*time.Minute)
	config := &schemes.BackendConfig{
		DisplayName:  device,
		Version:      "0.2",
		ColdAtomType: "fermion",
		MaxShots:     100,
		Simulator:    true,
		NumWires:     8,
	}
	require.NoError(t, provider.UploadConfig(context.Background(), config, device))
	return entry
}

// openProvider opens the storage behind an entry for seeding test state.
func openProvider(t *testing.T, entry *model.StorageProvider) storage.Provider {
	t.Helper()

	provider, err := storage.FromEntry(entry, 5*time.Minute)
	require.NoError(t, err)
	return provider
}

func activeToken(key, username string) *MockTokensStore {
	tokens := NewMockTokensStore()
	tokens.On("FetchByKey", key).Return(&store.Token{
		Key:      key,
		Username: username,
		IsActive: true,
	}, nil)
	return tokens
}

package endpoints

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alqor-ug/qlued-go/pkg/model"
	"github.com/alqor-ug/qlued-go/pkg/schemes"
	"github.com/alqor-ug/qlued-go/pkg/server/store"
)

func TestListBackends(t *testing.T) {
	entry := newLocalProviderEntry(t, "alqor", "fermions")
	providers := NewMockProvidersStore()
	providers.On("ListActive").Return([]model.StorageProvider{*entry}, nil)

	s := newTestServer(NewMockTokensStore(), providers)
	RegisterAll(s)

	req := httptest.NewRequest("GET", "/api/v3/backends", nil)
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)

	var backends []schemes.BackendConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &backends))
	require.Len(t, backends, 1)
	assert.Equal(t, "alqor_fermions_simulator", backends[0].Name)
	assert.Equal(t, testBaseURL+"/api/v2/alqor_fermions_simulator/", backends[0].URL)
	assert.False(t, backends[0].Operational)
}

func TestListBackendsStoreError(t *testing.T) {
	providers := NewMockProvidersStore()
	providers.On("ListActive").Return(nil, errors.New("connection refused"))

	s := newTestServer(NewMockTokensStore(), providers)
	RegisterAll(s)

	req := httptest.NewRequest("GET", "/api/v3/backends", nil)
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	assert.Equal(t, 500, w.Code)
}

func TestListBackendsExcludesDummies(t *testing.T) {
	entry := newLocalProviderEntry(t, "alqor", "fermions")
	provider := openProvider(t, entry)
	dummy := &schemes.BackendConfig{DisplayName: "dummyfermions", Version: "0.1", Simulator: true}
	require.NoError(t, provider.UploadConfig(context.Background(), dummy, "dummyfermions"))

	providers := NewMockProvidersStore()
	providers.On("ListActive").Return([]model.StorageProvider{*entry}, nil)

	s := newTestServer(NewMockTokensStore(), providers)
	RegisterAll(s)

	req := httptest.NewRequest("GET", "/api/v3/backends", nil)
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)

	var backends []schemes.BackendConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &backends))
	require.Len(t, backends, 1)
	assert.Equal(t, "alqor_fermions_simulator", backends[0].Name)
}

func TestGetConfigFullName(t *testing.T) {
	entry := newLocalProviderEntry(t, "alqor", "fermions")
	providers := NewMockProvidersStore()
	providers.On("FetchActiveByName", "alqor").Return(entry, nil)

	s := newTestServer(NewMockTokensStore(), providers)
	RegisterAll(s)

	req := httptest.NewRequest("GET", "/api/v3/alqor_fermions_simulator/get_config", nil)
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)

	var config schemes.BackendConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &config))
	assert.Equal(t, "alqor_fermions_simulator", config.Name)
	assert.Equal(t, "fermions", config.DisplayName)
	assert.Equal(t, testBaseURL+"/api/v2/alqor_fermions_simulator/", config.URL)
}

func TestGetConfigShortName(t *testing.T) {
	entry := newLocalProviderEntry(t, "alqor", "fermions")
	providers := NewMockProvidersStore()
	providers.On("ListActive").Return([]model.StorageProvider{*entry}, nil)

	s := newTestServer(NewMockTokensStore(), providers)
	RegisterAll(s)

	req := httptest.NewRequest("GET", "/api/v3/fermions/get_config", nil)
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)

	var config schemes.BackendConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &config))
	assert.Equal(t, "alqor_fermions_simulator", config.Name)
}

func TestGetConfigBadName(t *testing.T) {
	s := newTestServer(NewMockTokensStore(), NewMockProvidersStore())
	RegisterAll(s)

	req := httptest.NewRequest("GET", "/api/v3/alqor_fermions/get_config", nil)
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	require.Equal(t, 404, w.Code)

	var status schemes.StatusMsg
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, schemes.JobStatusError, status.Status)
	assert.Equal(t, "Unknown back-end!", status.ErrorMessage)
	assert.Contains(t, status.Detail, "1 or three parts")
}

func TestGetBackendStatus(t *testing.T) {
	entry := newLocalProviderEntry(t, "alqor", "fermions")
	provider := openProvider(t, entry)
	require.NoError(t, provider.TimestampQueue(context.Background(), "fermions"))

	providers := NewMockProvidersStore()
	providers.On("FetchActiveByName", "alqor").Return(entry, nil)

	s := newTestServer(NewMockTokensStore(), providers)
	RegisterAll(s)

	req := httptest.NewRequest("GET", "/api/v3/alqor_fermions_simulator/get_backend_status", nil)
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)

	var status schemes.BackendStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "fermions", status.BackendName)
	assert.Equal(t, "0.2", status.BackendVersion)
	assert.True(t, status.Operational)
	assert.Equal(t, 0, status.PendingJobs)
}

func TestGetBackendStatusUnknownProvider(t *testing.T) {
	providers := NewMockProvidersStore()
	providers.On("FetchActiveByName", "nosuch").Return(nil, store.ErrProviderNotFound)

	s := newTestServer(NewMockTokensStore(), providers)
	RegisterAll(s)

	req := httptest.NewRequest("GET", "/api/v3/nosuch_fermions_simulator/get_backend_status", nil)
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
}

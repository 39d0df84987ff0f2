package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/alqor-ug/qlued-go/pkg/identity"
	"github.com/alqor-ug/qlued-go/pkg/server/store"
)

// MockTokensStore implements store.TokensStore for testing using testify/mock
type MockTokensStore struct {
	mock.Mock
}

func (m *MockTokensStore) FetchByKey(key string) (*store.Token, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Token), args.Error(1)
}

func protectedHandler(t *testing.T, called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		id, ok := identity.Get(r.Context())
		require.True(t, ok)
		assert.Equal(t, "alice", id.Username)
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddlewareValidToken(t *testing.T) {
	tokens := &MockTokensStore{}
	tokens.On("FetchByKey", "good-key").Return(&store.Token{
		Key:      "good-key",
		Username: "alice",
		IsActive: true,
	}, nil)

	called := false
	handler := NewTokenAuth(tokens).Middleware(protectedHandler(t, &called))

	req := httptest.NewRequest("GET", "/api/v3/alqor_fermions_simulator/get_job_status", nil)
	req.Header.Set("Authorization", "Bearer good-key")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddlewareRejections(t *testing.T) {
	tests := []struct {
		name  string
		setup func(tokens *MockTokensStore, req *http.Request)
	}{
		{
			"missing header",
			func(tokens *MockTokensStore, req *http.Request) {},
		},
		{
			"malformed header",
			func(tokens *MockTokensStore, req *http.Request) {
				req.Header.Set("Authorization", "Basic abc")
			},
		},
		{
			"unknown token",
			func(tokens *MockTokensStore, req *http.Request) {
				req.Header.Set("Authorization", "Bearer nope")
				tokens.On("FetchByKey", "nope").Return(nil, store.ErrTokenNotFound)
			},
		},
		{
			"revoked token",
			func(tokens *MockTokensStore, req *http.Request) {
				req.Header.Set("Authorization", "Bearer revoked")
				tokens.On("FetchByKey", "revoked").Return(&store.Token{
					Key:      "revoked",
					Username: "alice",
					IsActive: false,
				}, nil)
			},
		},
		{
			"store failure",
			func(tokens *MockTokensStore, req *http.Request) {
				req.Header.Set("Authorization", "Bearer flaky")
				tokens.On("FetchByKey", "flaky").Return(nil, errors.New("connection reset"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := &MockTokensStore{}
			req := httptest.NewRequest("GET", "/api/v3/alqor_fermions_simulator/get_job_status", nil)
			tt.setup(tokens, req)

			called := false
			handler := NewTokenAuth(tokens).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{
				"job_id": "None",
				"status": "ERROR",
				"detail": "Invalid credentials!",
				"error_message": "Invalid credentials!"
			}`, w.Body.String())
		})
	}
}

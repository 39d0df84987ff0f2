package endpoints

import (
	"github.com/stretchr/testify/mock"

	"github.com/alqor-ug/qlued-go/pkg/model"
	"github.com/alqor-ug/qlued-go/pkg/server/store"
)

// MockTokensStore implements store.TokensStore for testing using testify/mock
type MockTokensStore struct {
	mock.Mock
}

func NewMockTokensStore() *MockTokensStore {
	return &MockTokensStore{}
}

func (m *MockTokensStore) FetchByKey(key string) (*store.Token, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Token), args.Error(1)
}

// MockProvidersStore implements store.ProvidersStore for testing using testify/mock
type MockProvidersStore struct {
	mock.Mock
}

func NewMockProvidersStore() *MockProvidersStore {
	return &MockProvidersStore{}
}

func (m *MockProvidersStore) FetchActiveByName(name string) (*model.StorageProvider, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StorageProvider), args.Error(1)
}

func (m *MockProvidersStore) ListActive() ([]model.StorageProvider, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StorageProvider), args.Error(1)
}

package gorm

import (
	"strings"

	"gorm.io/gorm"

	"github.com/alqor-ug/qlued-go/pkg/model"
	"github.com/alqor-ug/qlued-go/pkg/server/store"
)

// Ensure ProvidersStore implements store.ProvidersStore
var _ store.ProvidersStore = (*ProvidersStore)(nil)

// ProvidersStore implements store.ProvidersStore using GORM
type ProvidersStore struct {
	db *gorm.DB
}

// NewProvidersStore creates a new ProvidersStore
func NewProvidersStore(db *gorm.DB) *ProvidersStore {
	return &ProvidersStore{db: db}
}

// FetchActiveByName retrieves an active storage provider by its name.
func (s *ProvidersStore) FetchActiveByName(name string) (*model.StorageProvider, error) {
	var entry model.StorageProvider
	tx := s.db.Where("name = ? AND is_active = ?", strings.ToLower(name), true).First(&entry)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrProviderNotFound
		}
		return nil, tx.Error
	}
	return &entry, nil
}

// ListActive returns all active storage providers.
func (s *ProvidersStore) ListActive() ([]model.StorageProvider, error) {
	var entries []model.StorageProvider
	tx := s.db.Where("is_active = ?", true).Order("name asc").Find(&entries)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return entries, nil
}

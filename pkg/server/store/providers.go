package store

import (
	"errors"

	"github.com/alqor-ug/qlued-go/pkg/model"
)

// ErrProviderNotFound is returned when no active storage provider matches
var ErrProviderNotFound = errors.New("storage provider not found")

// ProvidersStore abstracts storage provider lookup
type ProvidersStore interface {
	// FetchActiveByName retrieves an active storage provider by its name.
	// The lookup is case-insensitive. Returns ErrProviderNotFound if no
	// such provider exists.
	FetchActiveByName(name string) (*model.StorageProvider, error)

	// ListActive returns all active storage providers.
	ListActive() ([]model.StorageProvider, error)
}

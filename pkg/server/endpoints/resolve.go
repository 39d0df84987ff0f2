package endpoints

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alqor-ug/qlued-go/pkg/model"
	"github.com/alqor-ug/qlued-go/pkg/schemes"
	"github.com/alqor-ug/qlued-go/pkg/server/store"
	"github.com/alqor-ug/qlued-go/pkg/storage"
)

// unknownBackend is the error message of the 404 responses.
const unknownBackend = "Unknown back-end!"

// errBadBackendName is returned when a backend name has neither one nor
// three underscore-separated parts.
var errBadBackendName = errors.New("bad backend name")

func unknownBackendStatus() *schemes.StatusMsg {
	return schemes.ErrorStatus("", unknownBackend)
}

func badBackendNameStatus(backendName string) *schemes.StatusMsg {
	status := schemes.ErrorStatus("", unknownBackend)
	status.Detail = fmt.Sprintf(
		"Unknown back-end %s! The string should have 1 or three parts separated by `_`!",
		backendName,
	)
	return status
}

// backendResolver maps backend names onto storage providers. Full names
// carry the provider as their first part; for short names every active
// provider is searched for a matching device.
type backendResolver struct {
	providers store.ProvidersStore
	window    time.Duration
}

func (r backendResolver) resolve(
	ctx context.Context,
	backendName string,
) (storage.Provider, *model.StorageProvider, string, error) {
	device := schemes.ShortBackendName(backendName)
	if device == "" {
		return nil, nil, "", errBadBackendName
	}

	if providerName, ok := schemes.ProviderPart(backendName); ok {
		entry, err := r.providers.FetchActiveByName(providerName)
		if err != nil {
			return nil, nil, "", err
		}
		provider, err := storage.FromEntry(entry, r.window)
		if err != nil {
			return nil, nil, "", err
		}
		return provider, entry, device, nil
	}

	// Short name: search the active providers for one that hosts the device.
	entries, err := r.providers.ListActive()
	if err != nil {
		return nil, nil, "", err
	}
	for i := range entries {
		entry := &entries[i]
		provider, err := storage.FromEntry(entry, r.window)
		if err != nil {
			continue
		}
		backends, err := provider.GetBackends(ctx)
		if err != nil {
			continue
		}
		for _, backend := range backends {
			if backend == device {
				return provider, entry, device, nil
			}
		}
	}
	return nil, nil, "", store.ErrProviderNotFound
}

// hostsDevice reports whether the provider has a configuration for device.
func hostsDevice(ctx context.Context, provider storage.Provider, device string) bool {
	backends, err := provider.GetBackends(ctx)
	if err != nil {
		return false
	}
	for _, backend := range backends {
		if backend == device {
			return true
		}
	}
	return false
}

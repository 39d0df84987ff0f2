package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alqor-ug/qlued-go/pkg/model"
	"github.com/alqor-ug/qlued-go/pkg/schemes"
	"github.com/alqor-ug/qlued-go/pkg/signing"
	"github.com/alqor-ug/qlued-go/pkg/storage/dropbox"
	"github.com/alqor-ug/qlued-go/pkg/storage/local"
	"github.com/alqor-ug/qlued-go/pkg/storage/mongodb"
)

// Provider is the interface every storage backend implements. Documents are
// JSON; device names are the short backend names without provider prefix.
type Provider interface {
	// UploadConfig stores the configuration of a backend.
	UploadConfig(ctx context.Context, config *schemes.BackendConfig, device string) error

	// GetConfig retrieves the configuration of a backend.
	GetConfig(ctx context.Context, device string) (*schemes.BackendConfig, error)

	// DeleteConfig removes the configuration of a backend.
	DeleteConfig(ctx context.Context, device string) error

	// GetBackends lists the devices that have a configuration.
	GetBackends(ctx context.Context) ([]string, error)

	// GetBackendStatus reports operational state and queue length of a device.
	GetBackendStatus(ctx context.Context, device string) (*schemes.BackendStatus, error)

	// TimestampQueue records a heartbeat for the device queue.
	TimestampQueue(ctx context.Context, device string) error

	// UploadJob places a job on the device queue for the given user and
	// returns its id.
	UploadJob(ctx context.Context, job json.RawMessage, device, username string) (string, error)

	// UploadStatus creates the initial status document for a job.
	UploadStatus(ctx context.Context, device, username, jobID string) (*schemes.StatusMsg, error)

	// GetStatus retrieves the status document of a job. Job documents are
	// scoped to the submitting user; a missing job, or one belonging to a
	// different user, is reported through an ERROR status, not through the
	// error return.
	GetStatus(ctx context.Context, device, username, jobID string) (*schemes.StatusMsg, error)

	// GetResult retrieves the result document of a finished job.
	GetResult(ctx context.Context, device, username, jobID string) (*schemes.Result, error)

	// UploadPublicKey stores the public JWK of a signing user.
	UploadPublicKey(ctx context.Context, jwk *signing.PublicJWK, role string) error

	// DeletePublicKey removes a stored public JWK.
	DeletePublicKey(ctx context.Context, kid string) error
}

// FromEntry opens the provider described by a database entry.
func FromEntry(entry *model.StorageProvider, operationalWindow time.Duration) (Provider, error) {
	switch entry.StorageType {
	case schemes.StorageTypeLocal:
		var login schemes.LocalLogin
		if err := json.Unmarshal([]byte(entry.Login), &login); err != nil {
			return nil, fmt.Errorf("storage: decoding local login for %s: %w", entry.Name, err)
		}
		return local.New(login.BasePath, operationalWindow), nil
	case schemes.StorageTypeMongodb:
		var login schemes.MongodbLogin
		if err := json.Unmarshal([]byte(entry.Login), &login); err != nil {
			return nil, fmt.Errorf("storage: decoding mongodb login for %s: %w", entry.Name, err)
		}
		return mongodb.New(login, operationalWindow)
	case schemes.StorageTypeDropbox:
		var login schemes.DropboxLogin
		if err := json.Unmarshal([]byte(entry.Login), &login); err != nil {
			return nil, fmt.Errorf("storage: decoding dropbox login for %s: %w", entry.Name, err)
		}
		return dropbox.New(login, operationalWindow), nil
	}
	return nil, fmt.Errorf("storage: unsupported storage type %s", entry.StorageType)
}

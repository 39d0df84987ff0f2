package dropbox

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alqor-ug/qlued-go/pkg/schemes"
)

// fakeDropbox emulates the small subset of the Dropbox API v2 the provider
// uses. Files live in a plain map keyed by path.
type fakeDropbox struct {
	mu            sync.Mutex
	files         map[string][]byte
	tokenRequests int
}

func newFakeDropbox() *fakeDropbox {
	return &fakeDropbox{files: map[string][]byte{}}
}

func (f *fakeDropbox) apiHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch r.URL.Path {
		case "/oauth2/token":
			f.tokenRequests++
			if _, _, ok := r.BasicAuth(); !ok {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token": "fake-access-token",
				"expires_in":   14400,
			})
		case "/2/files/list_folder":
			var req struct {
				Path string `json:"path"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)

			type entry struct {
				Tag  string `json:".tag"`
				Name string `json:"name"`
			}
			var entries []entry
			found := false
			for path := range f.files {
				if strings.HasPrefix(path, req.Path+"/") {
					rest := strings.TrimPrefix(path, req.Path+"/")
					if !strings.Contains(rest, "/") {
						entries = append(entries, entry{Tag: "file", Name: rest})
					}
					found = true
				}
			}
			if !found {
				w.WriteHeader(http.StatusConflict)
				_, _ = w.Write([]byte(`{"error_summary": "path/not_found/"}`))
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"entries":  entries,
				"cursor":   "",
				"has_more": false,
			})
		case "/2/files/delete_v2":
			var req struct {
				Path string `json:"path"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			if _, ok := f.files[req.Path]; !ok {
				w.WriteHeader(http.StatusConflict)
				_, _ = w.Write([]byte(`{"error_summary": "path_lookup/not_found/"}`))
				return
			}
			delete(f.files, req.Path)
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func (f *fakeDropbox) contentHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		var arg struct {
			Path string `json:"path"`
		}
		_ = json.Unmarshal([]byte(r.Header.Get("Dropbox-API-Arg")), &arg)

		switch r.URL.Path {
		case "/2/files/upload":
			content, _ := io.ReadAll(r.Body)
			f.files[arg.Path] = content
			_, _ = w.Write([]byte(`{}`))
		case "/2/files/download":
			content, ok := f.files[arg.Path]
			if !ok {
				w.WriteHeader(http.StatusConflict)
				_, _ = w.Write([]byte(`{"error_summary": "path/not_found/"}`))
				return
			}
			_, _ = w.Write(content)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newTestStorage(t *testing.T) (*Storage, *fakeDropbox) {
	t.Helper()

	fake := newFakeDropbox()
	apiServer := httptest.NewServer(fake.apiHandler())
	contentServer := httptest.NewServer(fake.contentHandler())
	t.Cleanup(apiServer.Close)
	t.Cleanup(contentServer.Close)

	login := schemes.DropboxLogin{AppKey: "k", AppSecret: "s", RefreshToken: "r"}
	storage := New(login, 5*time.Minute)
	storage.apiBase = apiServer.URL
	storage.contentBase = contentServer.URL
	return storage, fake
}

func TestTokenIsCached(t *testing.T) {
	ctx := context.Background()
	storage, fake := newTestStorage(t)

	_, err := storage.token(ctx)
	require.NoError(t, err)
	_, err = storage.token(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, fake.tokenRequests)
}

func TestConfigLifecycle(t *testing.T) {
	ctx := context.Background()
	storage, fake := newTestStorage(t)

	config := &schemes.BackendConfig{DisplayName: "fermions", Version: "0.2", Simulator: true}
	require.NoError(t, storage.UploadConfig(ctx, config, "fermions"))
	assert.Contains(t, fake.files, "/backends/configs/fermions.json")

	fetched, err := storage.GetConfig(ctx, "fermions")
	require.NoError(t, err)
	assert.Equal(t, "fermions", fetched.DisplayName)

	backends, err := storage.GetBackends(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"fermions"}, backends)

	require.NoError(t, storage.DeleteConfig(ctx, "fermions"))
	_, err = storage.GetConfig(ctx, "fermions")
	assert.Error(t, err)
}

func TestGetBackendsMissingFolder(t *testing.T) {
	storage, _ := newTestStorage(t)

	backends, err := storage.GetBackends(context.Background())
	require.NoError(t, err)
	assert.Empty(t, backends)
}

func TestJobLifecycle(t *testing.T) {
	ctx := context.Background()
	storage, _ := newTestStorage(t)

	jobID, err := storage.UploadJob(ctx, json.RawMessage(`{"shots": 4}`), "fermions", "alice")
	require.NoError(t, err)
	assert.True(t, schemes.ValidUUIDHex(jobID))

	status, err := storage.UploadStatus(ctx, "fermions", "alice", jobID)
	require.NoError(t, err)
	assert.Equal(t, schemes.JobStatusInitializing, status.Status)

	fetched, err := storage.GetStatus(ctx, "fermions", "alice", jobID)
	require.NoError(t, err)
	assert.Equal(t, jobID, fetched.JobID)

	other, err := storage.GetStatus(ctx, "fermions", "bob", jobID)
	require.NoError(t, err)
	assert.Equal(t, schemes.JobStatusError, other.Status)
}

func TestGetStatusMissingJob(t *testing.T) {
	storage, _ := newTestStorage(t)

	status, err := storage.GetStatus(context.Background(), "fermions", "alice", "0123456789abcdef01234567")
	require.NoError(t, err)
	assert.Equal(t, schemes.JobStatusError, status.Status)
}

func TestBackendStatus(t *testing.T) {
	ctx := context.Background()
	storage, _ := newTestStorage(t)

	config := &schemes.BackendConfig{DisplayName: "fermions", Version: "0.2", Simulator: true}
	require.NoError(t, storage.UploadConfig(ctx, config, "fermions"))

	status, err := storage.GetBackendStatus(ctx, "fermions")
	require.NoError(t, err)
	assert.False(t, status.Operational)
	assert.Equal(t, 0, status.PendingJobs)

	require.NoError(t, storage.TimestampQueue(ctx, "fermions"))
	_, err = storage.UploadJob(ctx, json.RawMessage(`{}`), "fermions", "alice")
	require.NoError(t, err)

	status, err = storage.GetBackendStatus(ctx, "fermions")
	require.NoError(t, err)
	assert.True(t, status.Operational)
	assert.Equal(t, 1, status.PendingJobs)
}

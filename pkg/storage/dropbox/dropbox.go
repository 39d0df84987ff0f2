// Package dropbox implements a storage provider on Dropbox. Documents are
// stored as files in the app folder using the same layout as the local
// provider. The client speaks the Dropbox HTTP API v2 directly and
// refreshes its short-lived access token from the stored refresh token.
package dropbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/alqor-ug/qlued-go/pkg/schemes"
	"github.com/alqor-ug/qlued-go/pkg/signing"
)

const (
	defaultAPIBase     = "https://api.dropboxapi.com"
	defaultContentBase = "https://content.dropboxapi.com"
)

// Storage talks to the Dropbox API v2.
type Storage struct {
	login             schemes.DropboxLogin
	operationalWindow time.Duration

	apiBase     string
	contentBase string
	httpClient  *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// New returns a provider for the given app credentials. No network calls
// happen until the first operation.
func New(login schemes.DropboxLogin, operationalWindow time.Duration) *Storage {
	return &Storage{
		login:             login,
		operationalWindow: operationalWindow,
		apiBase:           defaultAPIBase,
		contentBase:       defaultContentBase,
		httpClient:        &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx response from Dropbox.
type APIError struct {
	StatusCode int
	Summary    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dropbox: api error %d: %s", e.StatusCode, e.Summary)
}

// token returns a valid access token, refreshing it when the cached one
// is close to expiry.
func (s *Storage) token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken != "" && time.Until(s.tokenExpiry) > time.Minute {
		return s.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", s.login.RefreshToken)

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, s.apiBase+"/oauth2/token", strings.NewReader(form.Encode()),
	)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(s.login.AppKey, s.login.AppSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("dropbox: refreshing token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &APIError{StatusCode: resp.StatusCode, Summary: string(body)}
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("dropbox: decoding token response: %w", err)
	}

	s.accessToken = tok.AccessToken
	s.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return s.accessToken, nil
}

func (s *Storage) do(req *http.Request) (*http.Response, error) {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &APIError{StatusCode: resp.StatusCode, Summary: string(body)}
	}
	return resp, nil
}

// upload writes content to the given path, overwriting existing files.
func (s *Storage) upload(ctx context.Context, filePath string, content []byte) error {
	tok, err := s.token(ctx)
	if err != nil {
		return err
	}
	arg, _ := json.Marshal(map[string]interface{}{"path": filePath, "mode": "overwrite"})

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, s.contentBase+"/2/files/upload", bytes.NewReader(content),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Dropbox-API-Arg", string(arg))
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := s.do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (s *Storage) download(ctx context.Context, filePath string) ([]byte, error) {
	tok, err := s.token(ctx)
	if err != nil {
		return nil, err
	}
	arg, _ := json.Marshal(map[string]string{"path": filePath})

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, s.contentBase+"/2/files/download", nil,
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Dropbox-API-Arg", string(arg))

	resp, err := s.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// listFolder returns the file names directly below folderPath. A missing
// folder is reported as an empty listing.
func (s *Storage) listFolder(ctx context.Context, folderPath string) ([]string, error) {
	tok, err := s.token(ctx)
	if err != nil {
		return nil, err
	}

	var names []string
	endpoint := s.apiBase + "/2/files/list_folder"
	body, _ := json.Marshal(map[string]string{"path": folderPath})

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+tok)
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.do(req)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
				return nil, nil
			}
			return nil, err
		}

		var listing struct {
			Entries []struct {
				Tag  string `json:".tag"`
				Name string `json:"name"`
			} `json:"entries"`
			Cursor  string `json:"cursor"`
			HasMore bool   `json:"has_more"`
		}
		err = json.NewDecoder(resp.Body).Decode(&listing)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}

		for _, entry := range listing.Entries {
			if entry.Tag == "file" {
				names = append(names, entry.Name)
			}
		}
		if !listing.HasMore {
			return names, nil
		}
		endpoint = s.apiBase + "/2/files/list_folder/continue"
		body, _ = json.Marshal(map[string]string{"cursor": listing.Cursor})
	}
}

func (s *Storage) delete(ctx context.Context, filePath string) error {
	tok, err := s.token(ctx)
	if err != nil {
		return err
	}
	body, _ := json.Marshal(map[string]string{"path": filePath})

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, s.apiBase+"/2/files/delete_v2", bytes.NewReader(body),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func configPath(device string) string {
	return path.Join("/backends/configs", device+".json")
}

func (s *Storage) UploadConfig(ctx context.Context, config *schemes.BackendConfig, device string) error {
	stored := *config
	stored.Operational = false
	stored.URL = ""
	raw, err := json.Marshal(&stored)
	if err != nil {
		return err
	}
	return s.upload(ctx, configPath(device), raw)
}

func (s *Storage) GetConfig(ctx context.Context, device string) (*schemes.BackendConfig, error) {
	raw, err := s.download(ctx, configPath(device))
	if err != nil {
		return nil, err
	}
	var config schemes.BackendConfig
	if err := json.Unmarshal(raw, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

func (s *Storage) DeleteConfig(ctx context.Context, device string) error {
	return s.delete(ctx, configPath(device))
}

func (s *Storage) GetBackends(ctx context.Context) ([]string, error) {
	names, err := s.listFolder(ctx, "/backends/configs")
	if err != nil {
		return nil, err
	}
	var backends []string
	for _, name := range names {
		if strings.HasSuffix(name, ".json") {
			backends = append(backends, strings.TrimSuffix(name, ".json"))
		}
	}
	return backends, nil
}

func (s *Storage) GetBackendStatus(ctx context.Context, device string) (*schemes.BackendStatus, error) {
	config, err := s.GetConfig(ctx, device)
	if err != nil {
		return nil, err
	}
	queued, err := s.listFolder(ctx, path.Join("/jobs/queued", device))
	if err != nil {
		return nil, err
	}
	return &schemes.BackendStatus{
		BackendName:    device,
		BackendVersion: config.Version,
		Operational:    s.operational(ctx, device),
		PendingJobs:    len(queued),
		StatusMsg:      "",
	}, nil
}

func (s *Storage) operational(ctx context.Context, device string) bool {
	raw, err := s.download(ctx, path.Join("/running", device+".json"))
	if err != nil {
		return false
	}
	var heartbeat struct {
		LastQueued time.Time `json:"last_queue_check"`
	}
	if err := json.Unmarshal(raw, &heartbeat); err != nil {
		return false
	}
	return time.Since(heartbeat.LastQueued) <= s.operationalWindow
}

func (s *Storage) TimestampQueue(ctx context.Context, device string) error {
	raw, err := json.Marshal(map[string]string{
		"last_queue_check": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return s.upload(ctx, path.Join("/running", device+".json"), raw)
}

func (s *Storage) UploadJob(ctx context.Context, job json.RawMessage, device, username string) (string, error) {
	jobID := schemes.NewJobID()
	filePath := path.Join("/jobs/queued", device, "job-"+username+"-"+jobID+".json")
	if err := s.upload(ctx, filePath, job); err != nil {
		return "", err
	}
	return jobID, nil
}

func (s *Storage) UploadStatus(ctx context.Context, device, username, jobID string) (*schemes.StatusMsg, error) {
	status := schemes.InitStatus(jobID)
	raw, err := json.Marshal(status)
	if err != nil {
		return nil, err
	}
	filePath := path.Join("/status", device, "status-"+username+"-"+jobID+".json")
	if err := s.upload(ctx, filePath, raw); err != nil {
		return nil, err
	}
	return status, nil
}

func (s *Storage) GetStatus(ctx context.Context, device, username, jobID string) (*schemes.StatusMsg, error) {
	raw, err := s.download(ctx, path.Join("/status", device, "status-"+username+"-"+jobID+".json"))
	if err != nil {
		detail := fmt.Sprintf("The job %s was not found on the backend %s.", jobID, device)
		return schemes.ErrorStatus(jobID, detail), nil
	}
	var status schemes.StatusMsg
	if err := json.Unmarshal(raw, &status); err != nil {
		detail := fmt.Sprintf("The job %s was not found on the backend %s.", jobID, device)
		return schemes.ErrorStatus(jobID, detail), nil
	}
	return &status, nil
}

func (s *Storage) GetResult(ctx context.Context, device, username, jobID string) (*schemes.Result, error) {
	raw, err := s.download(ctx, path.Join("/results", device, "result-"+username+"-"+jobID+".json"))
	if err != nil {
		return nil, err
	}
	var result schemes.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Storage) UploadPublicKey(ctx context.Context, jwk *signing.PublicJWK, role string) error {
	doc := struct {
		*signing.PublicJWK
		Role string `json:"role"`
	}{PublicJWK: jwk, Role: role}
	raw, err := json.Marshal(&doc)
	if err != nil {
		return err
	}
	return s.upload(ctx, path.Join("/pks", jwk.Kid+".json"), raw)
}

func (s *Storage) DeletePublicKey(ctx context.Context, kid string) error {
	return s.delete(ctx, path.Join("/pks", kid+".json"))
}

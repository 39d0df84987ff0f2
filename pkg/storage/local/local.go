// Package local implements a storage provider on the local filesystem.
// It is primarily meant for development and tests, but maps one to one
// onto the document layout the remote providers use.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alqor-ug/qlued-go/pkg/schemes"
	"github.com/alqor-ug/qlued-go/pkg/signing"
)

// Storage keeps all documents below a base directory. Job documents are
// scoped to the submitting user through the file name:
//
//	backends/configs/<device>.json
//	running/<device>.json
//	jobs/queued/<device>/job-<username>-<id>.json
//	status/<device>/status-<username>-<id>.json
//	results/<device>/result-<username>-<id>.json
//	pks/<kid>.json
type Storage struct {
	basePath          string
	operationalWindow time.Duration
}

// New returns a provider rooted at basePath. The operational window bounds
// how old the last queue heartbeat may be for a device to count as up.
func New(basePath string, operationalWindow time.Duration) *Storage {
	return &Storage{basePath: basePath, operationalWindow: operationalWindow}
}

func (s *Storage) configPath(device string) string {
	return filepath.Join(s.basePath, "backends", "configs", device+".json")
}

func (s *Storage) heartbeatPath(device string) string {
	return filepath.Join(s.basePath, "running", device+".json")
}

func (s *Storage) queueDir(device string) string {
	return filepath.Join(s.basePath, "jobs", "queued", device)
}

func (s *Storage) statusPath(device, username, jobID string) string {
	return filepath.Join(s.basePath, "status", device, "status-"+username+"-"+jobID+".json")
}

func (s *Storage) resultPath(device, username, jobID string) string {
	return filepath.Join(s.basePath, "results", device, "result-"+username+"-"+jobID+".json")
}

func (s *Storage) writeJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func (s *Storage) readJSON(path string, v interface{}) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// UploadConfig stores the configuration of a backend. Volatile fields are
// cleared so the stored document only contains the static description.
func (s *Storage) UploadConfig(ctx context.Context, config *schemes.BackendConfig, device string) error {
	stored := *config
	stored.Operational = false
	stored.URL = ""
	return s.writeJSON(s.configPath(device), &stored)
}

func (s *Storage) GetConfig(ctx context.Context, device string) (*schemes.BackendConfig, error) {
	var config schemes.BackendConfig
	if err := s.readJSON(s.configPath(device), &config); err != nil {
		return nil, err
	}
	return &config, nil
}

func (s *Storage) DeleteConfig(ctx context.Context, device string) error {
	return os.Remove(s.configPath(device))
}

func (s *Storage) GetBackends(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.basePath, "backends", "configs"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var backends []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		backends = append(backends, strings.TrimSuffix(name, ".json"))
	}
	return backends, nil
}

func (s *Storage) GetBackendStatus(ctx context.Context, device string) (*schemes.BackendStatus, error) {
	config, err := s.GetConfig(ctx, device)
	if err != nil {
		return nil, err
	}
	pending, err := s.pendingJobs(device)
	if err != nil {
		return nil, err
	}
	return &schemes.BackendStatus{
		BackendName:    device,
		BackendVersion: config.Version,
		Operational:    s.operational(device),
		PendingJobs:    pending,
		StatusMsg:      "",
	}, nil
}

func (s *Storage) pendingJobs(device string) (int, error) {
	entries, err := os.ReadDir(s.queueDir(device))
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			count++
		}
	}
	return count, nil
}

func (s *Storage) operational(device string) bool {
	var heartbeat struct {
		LastQueued time.Time `json:"last_queue_check"`
	}
	if err := s.readJSON(s.heartbeatPath(device), &heartbeat); err != nil {
		return false
	}
	return time.Since(heartbeat.LastQueued) <= s.operationalWindow
}

// TimestampQueue records that the device worker checked its queue.
func (s *Storage) TimestampQueue(ctx context.Context, device string) error {
	heartbeat := map[string]interface{}{
		"last_queue_check": time.Now().UTC().Format(time.RFC3339),
	}
	return s.writeJSON(s.heartbeatPath(device), heartbeat)
}

func (s *Storage) UploadJob(ctx context.Context, job json.RawMessage, device, username string) (string, error) {
	jobID := schemes.NewJobID()
	path := filepath.Join(s.queueDir(device), "job-"+username+"-"+jobID+".json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, job, 0o644); err != nil {
		return "", err
	}
	return jobID, nil
}

func (s *Storage) UploadStatus(ctx context.Context, device, username, jobID string) (*schemes.StatusMsg, error) {
	status := schemes.InitStatus(jobID)
	if err := s.writeJSON(s.statusPath(device, username, jobID), status); err != nil {
		return nil, err
	}
	return status, nil
}

// GetStatus retrieves the status document of a job. A missing or unreadable
// document, including one that belongs to another user, is reported as an
// ERROR status rather than a Go error, so the caller can hand it straight
// back to the client.
func (s *Storage) GetStatus(ctx context.Context, device, username, jobID string) (*schemes.StatusMsg, error) {
	var status schemes.StatusMsg
	if err := s.readJSON(s.statusPath(device, username, jobID), &status); err != nil {
		detail := fmt.Sprintf("The job %s was not found on the backend %s.", jobID, device)
		return schemes.ErrorStatus(jobID, detail), nil
	}
	return &status, nil
}

func (s *Storage) GetResult(ctx context.Context, device, username, jobID string) (*schemes.Result, error) {
	var result schemes.Result
	if err := s.readJSON(s.resultPath(device, username, jobID), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Storage) UploadPublicKey(ctx context.Context, jwk *signing.PublicJWK, role string) error {
	doc := struct {
		*signing.PublicJWK
		Role string `json:"role"`
	}{PublicJWK: jwk, Role: role}
	return s.writeJSON(filepath.Join(s.basePath, "pks", jwk.Kid+".json"), &doc)
}

func (s *Storage) DeletePublicKey(ctx context.Context, kid string) error {
	return os.Remove(filepath.Join(s.basePath, "pks", kid+".json"))
}

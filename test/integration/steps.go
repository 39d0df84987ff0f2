package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/alqor-ug/qlued-go/pkg/schemes"
	"github.com/alqor-ug/qlued-go/pkg/storage/local"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	jobID        string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the qlued server is running$`, s.theServerIsRunning)
	sc.Step(`^a user "([^"]*)" with an active API token "([^"]*)" exists$`, s.aUserWithTokenExists)
	sc.Step(`^a local storage provider "([^"]*)" hosting the device "([^"]*)" exists$`, s.aLocalProviderExists)

	sc.Step(`^I request the backend list$`, s.iRequestTheBackendList)
	sc.Step(`^I submit a job to "([^"]*)" with token "([^"]*)"$`, s.iSubmitAJob)
	sc.Step(`^I poll the job status with token "([^"]*)"$`, s.iPollTheJobStatus)

	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the backend "([^"]*)" should be listed$`, s.theBackendShouldBeListed)
	sc.Step(`^the job status should be "([^"]*)"$`, s.theJobStatusShouldBe)
}

func (s *StepsContext) theServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) aUserWithTokenExists(username, key string) error {
	if err := s.tc.DB.Exec(`
		INSERT INTO users (username, password_hash) VALUES (?, 'unused')
		ON CONFLICT (username) DO NOTHING
	`, username).Error; err != nil {
		return err
	}

	var userID int64
	if err := s.tc.DB.Raw(`SELECT id FROM users WHERE username = ?`, username).Scan(&userID).Error; err != nil {
		return err
	}

	return s.tc.DB.Exec(`
		INSERT INTO tokens (key, user_id, is_active, uuid_hex) VALUES (?, ?, true, ?)
		ON CONFLICT (key) DO UPDATE SET is_active = true
	`, key, userID, schemes.NewJobID()).Error
}

func (s *StepsContext) aLocalProviderExists(name, device string) error {
	basePath, err := os.MkdirTemp("", "qlued-integration-")
	if err != nil {
		return err
	}

	login, err := json.Marshal(schemes.LocalLogin{BasePath: basePath})
	if err != nil {
		return err
	}

	var ownerID int64
	if err := s.tc.DB.Raw(`SELECT id FROM users ORDER BY id LIMIT 1`).Scan(&ownerID).Error; err != nil {
		return err
	}

	if err := s.tc.DB.Exec(`
		INSERT INTO storage_providers (storage_type, name, is_active, owner_id, login)
		VALUES ('local', ?, true, ?, ?)
		ON CONFLICT (name) DO UPDATE SET login = EXCLUDED.login, is_active = true
	`, name, ownerID, string(login)).Error; err != nil {
		return err
	}

	provider := local.New(basePath, 5*time.Minute)
	config := &schemes.BackendConfig{
		DisplayName: device,
		Version:     "0.2",
		MaxShots:    100,
		Simulator:   true,
		NumWires:    8,
	}
	return provider.UploadConfig(context.Background(), config, device)
}

func (s *StepsContext) iRequestTheBackendList() error {
	return s.get(s.tc.ServerURL + "/api/v3/backends")
}

func (s *StepsContext) iSubmitAJob(backendName, token string) error {
	body := `{"payload": {"experiment_0": {"instructions": [], "num_wires": 1, "shots": 3}}}`
	req, err := http.NewRequest("POST", s.tc.ServerURL+"/api/v3/"+backendName+"/post_job",
		strings.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	if err := s.do(req); err != nil {
		return err
	}

	// Remember the job id for the polling steps.
	if s.response.StatusCode == http.StatusOK {
		var status schemes.StatusMsg
		if err := json.Unmarshal(s.responseBody, &status); err == nil {
			s.jobID = status.JobID
		}
	}
	return nil
}

func (s *StepsContext) iPollTheJobStatus(token string) error {
	if s.jobID == "" {
		return fmt.Errorf("no job has been submitted yet")
	}

	req, err := http.NewRequest("GET",
		s.tc.ServerURL+"/api/v3/alqor_fermions_simulator/get_job_status?job_id="+s.jobID, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return s.do(req)
}

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d: %s", expectedStatus, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theBackendShouldBeListed(backendName string) error {
	var backends []schemes.BackendConfig
	if err := json.Unmarshal(s.responseBody, &backends); err != nil {
		return fmt.Errorf("failed to parse backend list: %w", err)
	}

	for _, backend := range backends {
		if backend.Name == backendName {
			return nil
		}
	}
	return fmt.Errorf("backend %s not found in %s", backendName, string(s.responseBody))
}

func (s *StepsContext) theJobStatusShouldBe(expected string) error {
	var status schemes.StatusMsg
	if err := json.Unmarshal(s.responseBody, &status); err != nil {
		return fmt.Errorf("failed to parse status: %w", err)
	}

	if status.Status.String() != expected {
		return fmt.Errorf("expected status %q, got %q (detail: %s)", expected, status.Status, status.Detail)
	}
	return nil
}

func (s *StepsContext) get(url string) error {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}
	return s.do(req)
}

func (s *StepsContext) do(req *http.Request) error {
	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return err
}

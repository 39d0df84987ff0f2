package schemes

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// NoneValue is the placeholder the SDK expects in unset StatusMsg fields.
const NoneValue = "None"

// StatusMsg is the job status document returned by the API and written to
// the storage providers. Workers update it as the job moves through the
// queue.
type StatusMsg struct {
	JobID        string    `json:"job_id"`
	Status       JobStatus `json:"status"`
	Detail       string    `json:"detail"`
	ErrorMessage string    `json:"error_message"`
}

// InitStatus is the status document created when a job is accepted.
func InitStatus(jobID string) *StatusMsg {
	return &StatusMsg{
		JobID:        jobID,
		Status:       JobStatusInitializing,
		Detail:       "Got your json.",
		ErrorMessage: NoneValue,
	}
}

// ErrorStatus builds an ERROR status document with the given detail. The
// detail doubles as the error message, matching what clients display.
func ErrorStatus(jobID, detail string) *StatusMsg {
	if jobID == "" {
		jobID = NoneValue
	}
	return &StatusMsg{
		JobID:        jobID,
		Status:       JobStatusError,
		Detail:       detail,
		ErrorMessage: detail,
	}
}

// GateConfig describes a single gate a backend supports.
type GateConfig struct {
	Name        string  `json:"name"`
	Parameters  []string `json:"parameters"`
	QasmDef     string  `json:"qasm_def,omitempty"`
	CouplingMap [][]int `json:"coupling_map,omitempty"`
	Description string  `json:"description,omitempty"`
}

// BackendConfig is the configuration document of a backend. On upload the
// Operational and Sign flags are stripped: operational status is derived
// from the queue heartbeat, never from the stored config.
type BackendConfig struct {
	DisplayName           string       `json:"display_name"`
	Name                  string       `json:"name,omitempty"`
	URL                   string       `json:"url,omitempty"`
	Version               string       `json:"version"`
	ColdAtomType          string       `json:"cold_atom_type"`
	Gates                 []GateConfig `json:"gates"`
	MaxExperiments        int          `json:"max_experiments"`
	MaxShots              int          `json:"max_shots"`
	Simulator             bool         `json:"simulator"`
	SupportedInstructions []string     `json:"supported_instructions"`
	NumWires              int          `json:"num_wires"`
	NumSpecies            int          `json:"num_species"`
	WireOrder             string       `json:"wire_order"`
	Description           string       `json:"description,omitempty"`
	Operational           bool         `json:"operational,omitempty"`
	Sign                  bool         `json:"sign,omitempty"`
}

// FullName returns the SDK-facing backend name for a given provider,
// e.g. "alqor_fermions_simulator".
func (c *BackendConfig) FullName(providerName string) string {
	kind := "hardware"
	if c.Simulator {
		kind = "simulator"
	}
	return providerName + "_" + c.DisplayName + "_" + kind
}

// BackendStatus mirrors the SDK's BackendStatus model.
type BackendStatus struct {
	BackendName    string `json:"backend_name"`
	BackendVersion string `json:"backend_version"`
	Operational    bool   `json:"operational"`
	PendingJobs    int    `json:"pending_jobs"`
	StatusMsg      string `json:"status_msg"`
}

// Result is the result document of a finished job.
type Result struct {
	BackendName    string           `json:"backend_name,omitempty"`
	BackendVersion string           `json:"backend_version,omitempty"`
	JobID          string           `json:"job_id"`
	QobjID         string           `json:"qobj_id,omitempty"`
	Success        bool             `json:"success"`
	Status         string           `json:"status,omitempty"`
	Header         map[string]any   `json:"header,omitempty"`
	Results        []map[string]any `json:"results,omitempty"`
}

// LocalLogin is the login information for a local storage provider.
type LocalLogin struct {
	BasePath string `json:"base_path"`
}

func (l *LocalLogin) Validate() error {
	if l.BasePath == "" {
		return fmt.Errorf("base_path is required")
	}
	return nil
}

// MongodbLogin is the login information for a MongoDB storage provider.
type MongodbLogin struct {
	DatabaseURL string `json:"mongodb_database_url"`
	Username    string `json:"mongodb_username"`
	Password    string `json:"mongodb_password"`
}

func (l *MongodbLogin) Validate() error {
	if l.DatabaseURL == "" || l.Username == "" || l.Password == "" {
		return fmt.Errorf("mongodb_database_url, mongodb_username and mongodb_password are required")
	}
	return nil
}

// DropboxLogin is the login information for a Dropbox storage provider.
type DropboxLogin struct {
	AppKey       string `json:"app_key"`
	AppSecret    string `json:"app_secret"`
	RefreshToken string `json:"refresh_token"`
}

func (l *DropboxLogin) Validate() error {
	if l.AppKey == "" || l.AppSecret == "" || l.RefreshToken == "" {
		return fmt.Errorf("app_key, app_secret and refresh_token are required")
	}
	return nil
}

// ValidateLogin checks a login document against the schema for the given
// storage type. Unknown fields are rejected.
func ValidateLogin(storageType StorageType, login []byte) error {
	dec := json.NewDecoder(bytes.NewReader(login))
	dec.DisallowUnknownFields()

	switch storageType {
	case StorageTypeLocal:
		var l LocalLogin
		if err := dec.Decode(&l); err != nil {
			return fmt.Errorf("poor login dict for local provider: %w", err)
		}
		return l.Validate()
	case StorageTypeMongodb:
		var l MongodbLogin
		if err := dec.Decode(&l); err != nil {
			return fmt.Errorf("poor login dict for mongodb: %w", err)
		}
		return l.Validate()
	case StorageTypeDropbox:
		var l DropboxLogin
		if err := dec.Decode(&l); err != nil {
			return fmt.Errorf("poor login dict for dropbox: %w", err)
		}
		return l.Validate()
	default:
		return fmt.Errorf("unknown storage type %q", storageType)
	}
}

// NewJobID returns a fresh 24-character lowercase hex job identifier. The
// same grammar is used for user identifiers on tokens.
func NewJobID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])[:24]
}

// ValidUUIDHex reports whether s is a valid 24-character hex identifier.
func ValidUUIDHex(s string) bool {
	if len(s) != 24 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

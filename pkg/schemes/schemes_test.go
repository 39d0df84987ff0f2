package schemes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortBackendName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"short name", "fermions", "fermions"},
		{"full name", "alqor_fermions_simulator", "fermions"},
		{"two parts", "alqor_fermions", ""},
		{"four parts", "alqor_fermions_simulator_extra", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShortBackendName(tt.input))
		})
	}
}

func TestProviderPart(t *testing.T) {
	provider, ok := ProviderPart("alqor_fermions_simulator")
	require.True(t, ok)
	assert.Equal(t, "alqor", provider)

	_, ok = ProviderPart("fermions")
	assert.False(t, ok)
}

func TestInitStatus(t *testing.T) {
	status := InitStatus("abc123")

	assert.Equal(t, "abc123", status.JobID)
	assert.Equal(t, JobStatusInitializing, status.Status)
	assert.Equal(t, "Got your json.", status.Detail)
	assert.Equal(t, NoneValue, status.ErrorMessage)
}

func TestErrorStatusEmptyJobID(t *testing.T) {
	status := ErrorStatus("", "boom")

	assert.Equal(t, NoneValue, status.JobID)
	assert.Equal(t, JobStatusError, status.Status)
	assert.Equal(t, "boom", status.Detail)
	assert.Equal(t, "boom", status.ErrorMessage)
}

func TestStatusMsgJSON(t *testing.T) {
	raw, err := json.Marshal(InitStatus("abc123"))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"job_id": "abc123",
		"status": "INITIALIZING",
		"detail": "Got your json.",
		"error_message": "None"
	}`, string(raw))
}

func TestJobStatusRoundTrip(t *testing.T) {
	var status JobStatus
	require.NoError(t, json.Unmarshal([]byte(`"DONE"`), &status))
	assert.Equal(t, JobStatusDone, status)
	assert.True(t, status.IsTerminal())

	require.NoError(t, json.Unmarshal([]byte(`"RUNNING"`), &status))
	assert.False(t, status.IsTerminal())

	assert.Error(t, json.Unmarshal([]byte(`"BOGUS"`), &status))
}

func TestFullName(t *testing.T) {
	config := BackendConfig{DisplayName: "fermions", Simulator: true}
	assert.Equal(t, "alqor_fermions_simulator", config.FullName("alqor"))

	config.Simulator = false
	assert.Equal(t, "alqor_fermions_hardware", config.FullName("alqor"))
}

func TestValidateLogin(t *testing.T) {
	tests := []struct {
		name        string
		storageType StorageType
		login       string
		wantErr     bool
	}{
		{"local ok", StorageTypeLocal, `{"base_path": "/tmp/qlued"}`, false},
		{"local missing path", StorageTypeLocal, `{}`, true},
		{"local unknown field", StorageTypeLocal, `{"base_path": "/tmp", "extra": 1}`, true},
		{
			"mongodb ok",
			StorageTypeMongodb,
			`{"mongodb_database_url": "mongodb://db:27017", "mongodb_username": "u", "mongodb_password": "p"}`,
			false,
		},
		{"mongodb incomplete", StorageTypeMongodb, `{"mongodb_username": "u"}`, true},
		{
			"dropbox ok",
			StorageTypeDropbox,
			`{"app_key": "k", "app_secret": "s", "refresh_token": "r"}`,
			false,
		},
		{"dropbox incomplete", StorageTypeDropbox, `{"app_key": "k"}`, true},
		{"not json", StorageTypeLocal, `nope`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLogin(tt.storageType, []byte(tt.login))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewJobID(t *testing.T) {
	id := NewJobID()
	assert.Len(t, id, 24)
	assert.True(t, ValidUUIDHex(id))
	assert.NotEqual(t, id, NewJobID())
}

func TestValidUUIDHex(t *testing.T) {
	assert.True(t, ValidUUIDHex("0123456789abcdef01234567"))
	assert.False(t, ValidUUIDHex("short"))
	assert.False(t, ValidUUIDHex("0123456789ABCDEF01234567"))
	assert.False(t, ValidUUIDHex("0123456789abcdef0123456z"))
}

func TestStorageTypeSQL(t *testing.T) {
	value, err := StorageTypeMongodb.Value()
	require.NoError(t, err)
	assert.Equal(t, "mongodb", value)

	var storageType StorageType
	require.NoError(t, storageType.Scan("dropbox"))
	assert.Equal(t, StorageTypeDropbox, storageType)

	assert.Error(t, storageType.Scan("ftp"))
}

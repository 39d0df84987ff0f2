package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/qlued/config"
	ConfigFileName    = "qlued.yml"
)

// QluedConfig holds all service configuration settings.
type QluedConfig struct {
	// BaseURL is the public base URL clients use to reach this instance.
	// It is embedded in backend configurations handed to the SDK.
	BaseURL string `yaml:"base_url" json:"base_url"`

	// BindAddress is the address the HTTP server binds to.
	BindAddress string `yaml:"bind_address" json:"bind_address"`

	// Port is the port the HTTP server listens on.
	Port string `yaml:"port" json:"port"`

	// OperationalWindowSeconds is how long after the last queue heartbeat
	// a backend still counts as operational.
	OperationalWindowSeconds int `yaml:"operational_window_seconds" json:"operational_window_seconds"`

	// LogLevel is the zerolog level name.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Global singleton config
var (
	globalConfig *QluedConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary.
func Get() *QluedConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment.
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

func newDefault() *QluedConfig {
	return &QluedConfig{
		BaseURL:                  "http://localhost:8000",
		BindAddress:              "0.0.0.0",
		Port:                     "8000",
		OperationalWindowSeconds: 300,
		LogLevel:                 "info",
		sources:                  make(map[string]string),
	}
}

func attributeNames() []string {
	return []string{
		"base_url", "bind_address", "port",
		"operational_window_seconds", "log_level",
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*QluedConfig, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("QLUED_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig QluedConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func (c *QluedConfig) applyFileConfig(file *QluedConfig) {
	if file.BaseURL != "" {
		c.BaseURL = file.BaseURL
		c.sources["base_url"] = "file"
	}
	if file.BindAddress != "" {
		c.BindAddress = file.BindAddress
		c.sources["bind_address"] = "file"
	}
	if file.Port != "" {
		c.Port = file.Port
		c.sources["port"] = "file"
	}
	if file.OperationalWindowSeconds != 0 {
		c.OperationalWindowSeconds = file.OperationalWindowSeconds
		c.sources["operational_window_seconds"] = "file"
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
		c.sources["log_level"] = "file"
	}
}

func (c *QluedConfig) applyEnvConfig() {
	if val := os.Getenv("QLUED_BASE_URL"); val != "" {
		c.BaseURL = val
		c.sources["base_url"] = "environment"
	}
	if val := os.Getenv("BIND_ADDRESS"); val != "" {
		c.BindAddress = val
		c.sources["bind_address"] = "environment"
	}
	if val := os.Getenv("PORT"); val != "" {
		c.Port = val
		c.sources["port"] = "environment"
	}
	if val := os.Getenv("QLUED_OPERATIONAL_WINDOW_SECONDS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.OperationalWindowSeconds = i
			c.sources["operational_window_seconds"] = "environment"
		}
	}
	if val := os.Getenv("QLUED_LOG_LEVEL"); val != "" {
		c.LogLevel = val
		c.sources["log_level"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file.
func (c *QluedConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute.
func (c *QluedConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// OperationalWindow returns the heartbeat window as a duration.
func (c *QluedConfig) OperationalWindow() time.Duration {
	return time.Duration(c.OperationalWindowSeconds) * time.Second
}

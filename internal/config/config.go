package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/waabox/pipecheck/internal/domain"
)

// AzureConfig holds the Azure AI completion capability settings.
type AzureConfig struct {
	Endpoint             string  `toml:"endpoint"`
	APIKey               string  `toml:"api_key"`
	Deployment           string  `toml:"deployment"`
	APIVersion           string  `toml:"api_version"`
	AssistantID          string  `toml:"assistant_id"`
	ReportingAssistantID string  `toml:"reporting_assistant_id"`
	TimeoutSeconds       float64 `toml:"timeout_seconds"`
	MaxRetries           int     `toml:"max_retries"`
	RetryDelaySeconds    float64 `toml:"retry_delay_seconds"`
}

// Config holds all pipecheck configuration.
type Config struct {
	Azure AzureConfig `toml:"azure"`
}

const (
	defaultAPIVersion = "2024-02-01"
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	defaultRetryDelay = time.Second
)

// Timeout returns the configured request timeout or the 30s default.
func (c AzureConfig) Timeout() time.Duration {
	if c.TimeoutSeconds > 0 {
		return time.Duration(c.TimeoutSeconds * float64(time.Second))
	}
	return defaultTimeout
}

// RetryDelay returns the configured base retry delay or the 1s default.
func (c AzureConfig) RetryDelay() time.Duration {
	if c.RetryDelaySeconds > 0 {
		return time.Duration(c.RetryDelaySeconds * float64(time.Second))
	}
	return defaultRetryDelay
}

// Retries returns the configured max retry count or the default of 3.
func (c AzureConfig) Retries() int {
	if c.MaxRetries > 0 {
		return c.MaxRetries
	}
	return defaultMaxRetries
}

// Validate fails fast with the complete list of missing required settings.
// Optional settings (api version, assistant ids, timeouts) are defaulted,
// never reported.
func (c AzureConfig) Validate() error {
	var missing []string
	if c.Endpoint == "" {
		missing = append(missing, "AZURE_OPENAI_ENDPOINT")
	}
	if c.APIKey == "" {
		missing = append(missing, "AZURE_OPENAI_API_KEY")
	}
	if c.Deployment == "" {
		missing = append(missing, "AZURE_OPENAI_DEPLOYMENT_NAME")
	}
	if len(missing) > 0 {
		return &domain.ConfigError{Missing: missing}
	}
	return nil
}

// LoadFrom reads configuration from the given TOML file path.
// If the file does not exist, it returns an empty config without error.
// Environment variables always take precedence over file values:
//   - AZURE_OPENAI_ENDPOINT overrides azure.endpoint
//   - AZURE_OPENAI_API_KEY overrides azure.api_key
//   - AZURE_OPENAI_DEPLOYMENT_NAME overrides azure.deployment
//   - AZURE_API_VERSION overrides azure.api_version
//   - AZURE_ASSISTANT_ID overrides azure.assistant_id
//   - AZURE_REPORTING_ASSISTANT_ID overrides azure.reporting_assistant_id
func LoadFrom(path string) (Config, error) {
	var cfg Config
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyEnvOverrides(&cfg)
	if cfg.Azure.APIVersion == "" {
		cfg.Azure.APIVersion = defaultAPIVersion
	}
	return cfg, nil
}

// DefaultConfigPath returns the default path for the pipecheck config file.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return home + "/.config/pipecheck/config.toml"
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("AZURE_OPENAI_ENDPOINT"); v != "" {
		cfg.Azure.Endpoint = v
	}
	if v := os.Getenv("AZURE_OPENAI_API_KEY"); v != "" {
		cfg.Azure.APIKey = v
	}
	if v := os.Getenv("AZURE_OPENAI_DEPLOYMENT_NAME"); v != "" {
		cfg.Azure.Deployment = v
	}
	if v := os.Getenv("AZURE_API_VERSION"); v != "" {
		cfg.Azure.APIVersion = v
	}
	if v := os.Getenv("AZURE_ASSISTANT_ID"); v != "" {
		cfg.Azure.AssistantID = v
	}
	if v := os.Getenv("AZURE_REPORTING_ASSISTANT_ID"); v != "" {
		cfg.Azure.ReportingAssistantID = v
	}
}

// Save writes cfg to the given TOML file path, creating parent directories
// as needed. Permissions on the written file are 0600 since it carries the
// API key.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("opening config file: %w", err)
	}
	if encErr := toml.NewEncoder(f).Encode(cfg); encErr != nil {
		f.Close()
		return encErr
	}
	return f.Close()
}

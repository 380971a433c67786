package nificonfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrMissingURL = errors.New("missing NiFi URL")

// Config is the saved connection profile. The password is never stored, it
// is read from NIFI_PASSWORD on every run.
type Config struct {
	URL         string `json:"url"`
	Username    string `json:"username"`
	Insecure    bool   `json:"insecure"`
	Identity    string `json:"identity"`
	RootGroupID string `json:"rootGroupId"`
}

// APIURL returns the nifi-api base URL of the profile.
func (c *Config) APIURL() string {
	return APIURL(c.URL)
}

// APIURL normalizes a NiFi URL, with or without the /nifi-api suffix, to the
// REST API root.
func APIURL(url string) string {
	url = strings.TrimRight(url, "/")
	if strings.HasSuffix(url, "/nifi-api") {
		return url
	}

	return strings.TrimSuffix(url, "/nifi") + "/nifi-api"
}

func SaveConfigFile(path string, config *Config) error {
	if config.URL == "" {
		return ErrMissingURL
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal nifi config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create nifi config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("save nifi config file: %w", err)
	}

	return nil
}

func ReadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read nifi config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshal nifi config file: %w", err)
	}

	if config.URL == "" {
		return nil, ErrMissingURL
	}

	return &config, nil
}

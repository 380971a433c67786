package config

import (
	"fmt"

	"github.com/artuross/nifi2go/internal/nificonfig"
)

type Flagger interface {
	String(name string) string
	Bool(name string) bool
}

type Config struct {
	APIURL         string
	URL            string
	Username       string
	Password       string
	Insecure       bool
	ConfigFilePath string
	Verbose        bool
}

func Read(flags Flagger, getEnv func(string) string) (*Config, error) {
	// flags - required, env fallback
	url := flags.String("url")
	if url == "" {
		url = getEnv("NIFI_URL")
	}
	if url == "" {
		return nil, fmt.Errorf("flag --url or env var NIFI_URL is required")
	}

	username := flags.String("username")
	if username == "" {
		username = getEnv("NIFI_USERNAME")
	}

	// envs - required with a username
	password := getEnv("NIFI_PASSWORD")
	if username != "" && password == "" {
		return nil, fmt.Errorf("env var NIFI_PASSWORD is required with a username")
	}

	// flags - optional
	configFile := flags.String("config-file")
	if configFile == "" {
		return nil, fmt.Errorf("flag --config-file must not be empty")
	}

	cfg := Config{
		APIURL:         nificonfig.APIURL(url),
		URL:            url,
		Username:       username,
		Password:       password,
		Insecure:       flags.Bool("insecure"),
		ConfigFilePath: configFile,
		Verbose:        flags.Bool("verbose"),
	}

	return &cfg, nil
}

func Print(cfg *Config) {
	fmt.Println("Running with config:")
	fmt.Printf("  URL: %s\n", cfg.APIURL)
	fmt.Printf("  Username: %s\n", cfg.Username)
	fmt.Printf("  Insecure: %t\n", cfg.Insecure)
	fmt.Printf("  Config File: %s\n", cfg.ConfigFilePath)
}

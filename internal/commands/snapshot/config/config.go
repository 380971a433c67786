package config

import (
	"fmt"

	convertconfig "github.com/artuross/nifi2go/internal/commands/convert/config"
	"github.com/artuross/nifi2go/internal/nificonfig"
	"github.com/artuross/nifi2go/internal/repository/nifiapi"
)

type Flagger interface {
	String(name string) string
	Int(name string) int
	Bool(name string) bool
}

type Config struct {
	Profile        *nificonfig.Config
	Password       string
	GroupID        string
	Samples        int
	Concurrency    int
	OutputFilePath string
	Package        string
	ReportFilePath string
	Verbose        bool
}

// Read loads the connection profile written by the configure command.
func Read(flags Flagger, getEnv func(string) string, readProfile func(path string) (*nificonfig.Config, error)) (*Config, error) {
	// flags - required
	outputFile := flags.String("output")
	if outputFile == "" {
		return nil, fmt.Errorf("flag --output is required")
	}

	profile, err := readProfile(flags.String("config-file"))
	if err != nil {
		return nil, fmt.Errorf("read connection profile, run configure first: %w", err)
	}

	// envs - required with a username
	password := getEnv("NIFI_PASSWORD")
	if profile.Username != "" && password == "" {
		return nil, fmt.Errorf("env var NIFI_PASSWORD is required for user %s", profile.Username)
	}

	// flags - optional
	groupID := flags.String("group")
	if groupID == "" {
		groupID = profile.RootGroupID
	}
	if groupID == "" {
		groupID = nifiapi.RootGroupID
	}

	samples := flags.Int("samples")
	if samples < 0 {
		return nil, fmt.Errorf("flag --samples must not be negative")
	}

	concurrency := flags.Int("concurrency")
	if concurrency < 1 {
		return nil, fmt.Errorf("flag --concurrency must be at least 1")
	}

	pkg, err := convertconfig.ReadPackage(flags)
	if err != nil {
		return nil, err
	}

	cfg := Config{
		Profile:        profile,
		Password:       password,
		GroupID:        groupID,
		Samples:        samples,
		Concurrency:    concurrency,
		OutputFilePath: outputFile,
		Package:        pkg,
		ReportFilePath: flags.String("report"),
		Verbose:        flags.Bool("verbose"),
	}

	return &cfg, nil
}

func Print(cfg *Config) {
	fmt.Println("Running with config:")
	fmt.Printf("  URL: %s\n", cfg.Profile.APIURL())
	fmt.Printf("  Username: %s\n", cfg.Profile.Username)
	fmt.Printf("  Process Group: %s\n", cfg.GroupID)
	fmt.Printf("  Samples: %d\n", cfg.Samples)
	fmt.Printf("  Concurrency: %d\n", cfg.Concurrency)
	fmt.Printf("  Output: %s\n", cfg.OutputFilePath)
}

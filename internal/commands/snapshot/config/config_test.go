package config_test

import (
	"errors"
	"testing"

	"github.com/artuross/nifi2go/internal/commands/snapshot/config"
	"github.com/artuross/nifi2go/internal/nificonfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flags map[string]any

func (f flags) String(name string) string {
	value, _ := f[name].(string)
	return value
}

func (f flags) Int(name string) int {
	value, _ := f[name].(int)
	return value
}

func (f flags) Bool(name string) bool {
	value, _ := f[name].(bool)
	return value
}

func profile(cfg nificonfig.Config) func(string) (*nificonfig.Config, error) {
	return func(path string) (*nificonfig.Config, error) {
		if path != "nifi.json" {
			return nil, errors.New("no such file")
		}

		return &cfg, nil
	}
}

func TestRead(t *testing.T) {
	type testCase struct {
		name     string
		flags    flags
		env      map[string]string
		profile  nificonfig.Config
		expected func(cfg *config.Config)
		err      string
	}

	base := flags{"output": "flow.go", "config-file": "nifi.json", "samples": 10, "concurrency": 4}

	with := func(overrides flags) flags {
		merged := flags{}
		for name, value := range base {
			merged[name] = value
		}
		for name, value := range overrides {
			merged[name] = value
		}

		return merged
	}

	testCases := []testCase{
		{
			name:    "profile root group",
			flags:   base,
			env:     map[string]string{"NIFI_PASSWORD": "pw"},
			profile: nificonfig.Config{URL: "http://nifi:8080/nifi-api", Username: "admin", RootGroupID: "g-root"},
			expected: func(cfg *config.Config) {
				assert.Equal(t, "g-root", cfg.GroupID)
				assert.Equal(t, "pw", cfg.Password)
				assert.Equal(t, "flow", cfg.Package)
				assert.Equal(t, 10, cfg.Samples)
				assert.Equal(t, 4, cfg.Concurrency)
			},
		},
		{
			name:    "explicit group",
			flags:   with(flags{"group": "g-child", "package": "ingest", "report": "report.yaml"}),
			profile: nificonfig.Config{URL: "http://nifi:8080/nifi-api"},
			expected: func(cfg *config.Config) {
				assert.Equal(t, "g-child", cfg.GroupID)
				assert.Equal(t, "ingest", cfg.Package)
				assert.Equal(t, "report.yaml", cfg.ReportFilePath)
			},
		},
		{
			name:    "root alias",
			flags:   base,
			profile: nificonfig.Config{URL: "http://nifi:8080/nifi-api"},
			expected: func(cfg *config.Config) {
				assert.Equal(t, "root", cfg.GroupID)
			},
		},
		{
			name:    "missing password",
			flags:   base,
			profile: nificonfig.Config{URL: "http://nifi:8080/nifi-api", Username: "admin"},
			err:     "env var NIFI_PASSWORD is required for user admin",
		},
		{
			name:  "missing profile",
			flags: with(flags{"config-file": "other.json"}),
			err:   "read connection profile, run configure first: no such file",
		},
		{
			name:    "invalid package",
			flags:   with(flags{"package": "my-flow"}),
			profile: nificonfig.Config{URL: "http://nifi:8080/nifi-api"},
			err:     `flag --package must be a Go identifier, got "my-flow"`,
		},
		{
			name:    "invalid concurrency",
			flags:   with(flags{"concurrency": 0}),
			profile: nificonfig.Config{URL: "http://nifi:8080/nifi-api"},
			err:     "flag --concurrency must be at least 1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			getEnv := func(name string) string { return tc.env[name] }

			cfg, err := config.Read(tc.flags, getEnv, profile(tc.profile))
			if tc.err != "" {
				assert.EqualError(t, err, tc.err)
				return
			}

			require.NoError(t, err)
			tc.expected(cfg)
		})
	}
}

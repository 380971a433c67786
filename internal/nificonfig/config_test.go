package nificonfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/artuross/nifi2go/internal/nificonfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIURL(t *testing.T) {
	type testCase struct {
		name   string
		input  string
		output string
	}

	testCases := []testCase{
		{name: "host", input: "https://nifi:8443", output: "https://nifi:8443/nifi-api"},
		{name: "trailing slash", input: "https://nifi:8443/", output: "https://nifi:8443/nifi-api"},
		{name: "ui path", input: "https://nifi:8443/nifi/", output: "https://nifi:8443/nifi-api"},
		{name: "api path", input: "https://nifi:8443/nifi-api", output: "https://nifi:8443/nifi-api"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.output, nificonfig.APIURL(tc.input))
		})
	}
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".config", "nifi.json")

	config := nificonfig.Config{
		URL:         "https://nifi:8443",
		Username:    "admin",
		Insecure:    true,
		Identity:    "admin",
		RootGroupID: "root-1",
	}

	require.NoError(t, nificonfig.SaveConfigFile(path, &config))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	read, err := nificonfig.ReadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, config, *read)
	assert.Equal(t, "https://nifi:8443/nifi-api", read.APIURL())
}

func TestConfigFileErrors(t *testing.T) {
	dir := t.TempDir()

	err := nificonfig.SaveConfigFile(filepath.Join(dir, "nifi.json"), &nificonfig.Config{})
	assert.ErrorIs(t, err, nificonfig.ErrMissingURL)

	_, err = nificonfig.ReadConfigFile(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"username":"admin"}`), 0o600))

	_, err = nificonfig.ReadConfigFile(empty)
	assert.ErrorIs(t, err, nificonfig.ErrMissingURL)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{`), 0o600))

	_, err = nificonfig.ReadConfigFile(broken)
	assert.ErrorContains(t, err, "unmarshal nifi config file")
}

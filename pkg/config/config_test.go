package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	settings, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:12315", settings.APIURL)
	assert.Equal(t, 10*time.Second, settings.Timeout())
	assert.Equal(t, 3, settings.APIMaxRetries)
	assert.Equal(t, "logseq-mcp", settings.ServerName)
	assert.True(t, settings.EnableAdvancedQueries)
	assert.False(t, settings.EnableGitOperations)
}

func TestLoadFromYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logseq.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"api_token: file-token\napi_url: http://graph.local:9999\napi_timeout: 30\nenable_git_operations: true\n",
	), 0o644))

	settings, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-token", settings.APIToken)
	assert.Equal(t, "http://graph.local:9999", settings.APIURL)
	assert.Equal(t, 30, settings.APITimeoutSeconds)
	assert.True(t, settings.EnableGitOperations)
	// Untouched fields keep their defaults.
	assert.Equal(t, 3, settings.APIMaxRetries)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logseq.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: http://from-file:1\n"), 0o644))

	t.Setenv("LOGSEQ_API_URL", "http://from-env:2")
	t.Setenv("LOGSEQ_API_TOKEN", "env-token")
	t.Setenv("LOGSEQ_API_MAX_RETRIES", "5")

	settings, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://from-env:2", settings.APIURL)
	assert.Equal(t, "env-token", settings.APIToken)
	assert.Equal(t, 5, settings.APIMaxRetries)
}

func TestTrailingSlashNormalized(t *testing.T) {
	t.Setenv("LOGSEQ_API_URL", "http://localhost:12315/")

	settings, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:12315", settings.APIURL)
}

func TestInvalidEnvValues(t *testing.T) {
	t.Setenv("LOGSEQ_API_TIMEOUT", "not-a-number")

	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	s := Default()
	s.APIURL = ""
	assert.Error(t, s.Validate())

	s = Default()
	s.APITimeoutSeconds = 0
	assert.Error(t, s.Validate())

	s = Default()
	s.APIMaxRetries = 0
	assert.Error(t, s.Validate())

	assert.NoError(t, Default().Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

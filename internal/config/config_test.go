package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamsnap-tools/teamsnap/pkg/teamsnap"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, teamsnap.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, "config.ini", cfg.Auth.CredentialsFile)
	assert.Equal(t, []string{"read", "write"}, cfg.Scopes())
	assert.Equal(t, "api_snapshots", cfg.Monitor.SnapshotDir)

	cc, err := cfg.ClientConfig()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cc.Timeout)
	assert.True(t, cc.MonitorDeprecations)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "teamsnap.hcl", `
api {
  base_url             = "https://staging.example.com/v3"
  timeout              = "5s"
  max_retries          = 2
  retry_delay          = "250ms"
  monitor_deprecations = false
}

auth {
  credentials_file = "/etc/teamsnap/config.ini"
  scope            = "read"
}

monitor {
  snapshot_dir = "/var/lib/teamsnap"
}

mcp {
  read_only = false
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	cc, err := cfg.ClientConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.com/v3", cc.BaseURL)
	assert.Equal(t, 5*time.Second, cc.Timeout)
	assert.Equal(t, 2, cc.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cc.RetryDelay)
	assert.False(t, cc.MonitorDeprecations)

	assert.Equal(t, "/etc/teamsnap/config.ini", cfg.Auth.CredentialsFile)
	assert.Equal(t, []string{"read"}, cfg.Scopes())
	assert.Equal(t, "/var/lib/teamsnap", cfg.Monitor.SnapshotDir)

	t.Setenv(EnvReadOnly, "")
	os.Unsetenv(EnvReadOnly)
	assert.False(t, cfg.ReadOnly(func(v string) bool { return strings.EqualFold(v, "true") }))
}

func TestLoadPartialFile(t *testing.T) {
	path := writeFile(t, "teamsnap.hcl", `
monitor {
  snapshot_dir = "snaps"
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "snaps", cfg.Monitor.SnapshotDir)
	assert.Equal(t, teamsnap.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, "config.ini", cfg.Auth.CredentialsFile)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "bad duration",
			content: `api { timeout = "soon" }`,
			errMsg:  "invalid api timeout",
		},
		{
			name:    "unknown block",
			content: `database { host = "x" }`,
			errMsg:  "failed to parse configuration file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "teamsnap.hcl", tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration file not found")
	})
}

func TestReadOnly(t *testing.T) {
	parse := func(v string) bool { return v == "true" }
	f := false

	t.Run("default", func(t *testing.T) {
		t.Setenv(EnvReadOnly, "")
		os.Unsetenv(EnvReadOnly)
		assert.True(t, New().ReadOnly(parse))
	})

	t.Run("config", func(t *testing.T) {
		t.Setenv(EnvReadOnly, "")
		os.Unsetenv(EnvReadOnly)
		cfg := New()
		cfg.MCP.ReadOnly = &f
		assert.False(t, cfg.ReadOnly(parse))
	})

	t.Run("environment wins", func(t *testing.T) {
		t.Setenv(EnvReadOnly, "true")
		cfg := New()
		cfg.MCP.ReadOnly = &f
		assert.True(t, cfg.ReadOnly(parse))
	})
}

func TestLogLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	assert.Equal(t, hclog.Debug, LogLevel(hclog.Info))

	t.Setenv(EnvLogLevel, "loud")
	assert.Equal(t, hclog.Info, LogLevel(hclog.Info))
}

func TestLoadDotEnv(t *testing.T) {
	const key = "TEAMSNAP_CONFIG_TEST_TOKEN"
	path := writeFile(t, ".env", key+"=from-file\n")

	t.Setenv(key, "")
	os.Unsetenv(key)
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv(key))
	os.Unsetenv(key)

	t.Setenv(key, "from-env")
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-env", os.Getenv(key))

	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}

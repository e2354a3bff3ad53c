// Package config loads the optional HCL configuration of the teamsnap CLI
// and resolves settings that may also come from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/joho/godotenv"

	"github.com/teamsnap-tools/teamsnap/pkg/credentials"
	"github.com/teamsnap-tools/teamsnap/pkg/snapshot"
	"github.com/teamsnap-tools/teamsnap/pkg/teamsnap"
)

const (
	// EnvReadOnly holds the read-only toggle of the MCP server.
	EnvReadOnly = "TEAMSNAP_READONLY"

	// EnvLogLevel overrides the log level.
	EnvLogLevel = "TEAMSNAP_LOG_LEVEL"

	// DefaultScope is the OAuth scope requested by the auth flow.
	DefaultScope = "read write"
)

// Config is the root of the HCL configuration file.
type Config struct {
	API     *API     `hcl:"api,block"`
	Auth    *Auth    `hcl:"auth,block"`
	Monitor *Monitor `hcl:"monitor,block"`
	MCP     *MCP     `hcl:"mcp,block"`
}

// API configures the TeamSnap client.
type API struct {
	BaseURL string `hcl:"base_url,optional"`

	// Timeout is a duration string such as "30s".
	Timeout    string `hcl:"timeout,optional"`
	MaxRetries int    `hcl:"max_retries,optional"`
	RetryDelay string `hcl:"retry_delay,optional"`

	MonitorDeprecations *bool `hcl:"monitor_deprecations,optional"`
}

// Auth configures the OAuth flow.
type Auth struct {
	CredentialsFile string `hcl:"credentials_file,optional"`
	Scope           string `hcl:"scope,optional"`
}

// Monitor configures the API monitor.
type Monitor struct {
	SnapshotDir string `hcl:"snapshot_dir,optional"`
}

// MCP configures the MCP server.
type MCP struct {
	ReadOnly *bool `hcl:"read_only,optional"`
}

// New returns a Config with every block set to its defaults.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads the HCL file at path. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return New(), nil
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("configuration file not found: %s", path)
	}

	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file: %w", err)
	}
	cfg.applyDefaults()

	if _, err := cfg.ClientConfig(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.API == nil {
		c.API = &API{}
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = teamsnap.DefaultBaseURL
	}
	if c.API.Timeout == "" {
		c.API.Timeout = teamsnap.DefaultTimeout.String()
	}
	if c.API.MonitorDeprecations == nil {
		t := true
		c.API.MonitorDeprecations = &t
	}

	if c.Auth == nil {
		c.Auth = &Auth{}
	}
	if c.Auth.CredentialsFile == "" {
		c.Auth.CredentialsFile = credentials.DefaultFile
	}
	if c.Auth.Scope == "" {
		c.Auth.Scope = DefaultScope
	}

	if c.Monitor == nil {
		c.Monitor = &Monitor{}
	}
	if c.Monitor.SnapshotDir == "" {
		c.Monitor.SnapshotDir = snapshot.DefaultDir
	}

	if c.MCP == nil {
		c.MCP = &MCP{}
	}
}

// ClientConfig converts the api block into a client configuration without
// an access token.
func (c *Config) ClientConfig() (*teamsnap.Config, error) {
	cfg := teamsnap.DefaultConfig()
	cfg.BaseURL = c.API.BaseURL
	cfg.MaxRetries = c.API.MaxRetries
	if c.API.MonitorDeprecations != nil {
		cfg.MonitorDeprecations = *c.API.MonitorDeprecations
	}

	if c.API.Timeout != "" {
		d, err := time.ParseDuration(c.API.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid api timeout %q: %w", c.API.Timeout, err)
		}
		cfg.Timeout = d
	}
	if c.API.RetryDelay != "" {
		d, err := time.ParseDuration(c.API.RetryDelay)
		if err != nil {
			return nil, fmt.Errorf("invalid api retry_delay %q: %w", c.API.RetryDelay, err)
		}
		cfg.RetryDelay = d
	}

	return cfg, nil
}

// Scopes returns the OAuth scopes to request.
func (c *Config) Scopes() []string {
	return strings.Fields(c.Auth.Scope)
}

// ReadOnly resolves the MCP read-only mode: TEAMSNAP_READONLY when set,
// then the mcp block, then true. parse interprets the environment value.
func (c *Config) ReadOnly(parse func(string) bool) bool {
	if v, ok := os.LookupEnv(EnvReadOnly); ok {
		return parse(v)
	}
	if c.MCP != nil && c.MCP.ReadOnly != nil {
		return *c.MCP.ReadOnly
	}
	return true
}

// LogLevel returns the level named by TEAMSNAP_LOG_LEVEL, or def when it is
// unset or not a level name.
func LogLevel(def hclog.Level) hclog.Level {
	v, ok := os.LookupEnv(EnvLogLevel)
	if !ok {
		return def
	}
	if l := hclog.LevelFromString(v); l != hclog.NoLevel {
		return l
	}
	return def
}

// LoadDotEnv loads variables from the given .env files (".env" when none are
// given) without overriding ones already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("error loading %s: %w", p, err)
		}
	}
	return nil
}

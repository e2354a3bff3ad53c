package teamsnap

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// DefaultBaseURL is the root of the TeamSnap v3 API.
	DefaultBaseURL = "https://api.teamsnap.com/v3"

	// DefaultTimeout bounds every request made by a Client.
	DefaultTimeout = 30 * time.Second

	// EnvAccessToken is read by NewClientFromEnv when no token is configured.
	EnvAccessToken = "TEAMSNAP_ACCESS_TOKEN"
)

// Config contains configuration for a Client.
type Config struct {
	// BaseURL is the API root.
	// Default: "https://api.teamsnap.com/v3"
	BaseURL string `json:"baseUrl"`

	// AccessToken is the OAuth bearer token.
	AccessToken string `json:"-"`

	// Timeout for API requests.
	// Default: 30 seconds
	Timeout time.Duration `json:"timeout,omitempty"`

	// MaxRetries for GET requests that fail before a response is received.
	// Requests answered with an error status are never retried.
	// Default: 0
	MaxRetries int `json:"maxRetries,omitempty"`

	// RetryDelay between retries.
	// Default: 1 second
	RetryDelay time.Duration `json:"retryDelay,omitempty"`

	// MonitorDeprecations logs deprecated relations found in GET responses.
	MonitorDeprecations bool `json:"monitorDeprecations,omitempty"`
}

// ConfigError reports a Client configuration that cannot be used.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid TeamSnap client config: " + e.Reason
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:             DefaultBaseURL,
		Timeout:             DefaultTimeout,
		RetryDelay:          1 * time.Second,
		MonitorDeprecations: true,
	}
}

// applyDefaults fills zero values with their defaults.
func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = 1 * time.Second
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.AccessToken == "" {
		return &ConfigError{
			Reason: fmt.Sprintf("no access token provided; set the %s environment variable or pass an access token", EnvAccessToken),
		}
	}

	if err := validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(httpURL)),
		validation.Field(&c.Timeout, validation.Min(time.Millisecond)),
		validation.Field(&c.MaxRetries, validation.Min(0)),
		validation.Field(&c.RetryDelay, validation.Min(time.Duration(0))),
	); err != nil {
		return &ConfigError{Reason: err.Error()}
	}

	return nil
}

// NewHTTPClient creates a configured HTTP client with its own connection
// pool.
func (c *Config) NewHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	return &http.Client{
		Timeout:   c.Timeout,
		Transport: transport,
	}
}

// configFromEnv copies cfg and fills the access token from the environment.
func configFromEnv(cfg *Config) *Config {
	out := DefaultConfig()
	if cfg != nil {
		c := *cfg
		out = &c
	}
	if out.AccessToken == "" {
		out.AccessToken = os.Getenv(EnvAccessToken)
	}
	return out
}

func httpURL(value any) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must use http or https scheme")
	}
	if u.Host == "" {
		return errors.New("must include a host")
	}
	return nil
}

// Package teamsnap is a client for the TeamSnap v3 REST API.
//
// Every request carries the configured bearer token and decodes the
// Collection+JSON envelope returned by the API. Resource helpers such as
// SearchTeams or CreateEvent map those envelopes onto typed structs.
package teamsnap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"

	"github.com/teamsnap-tools/teamsnap/pkg/collection"
)

// ErrNotFound is returned by Get helpers when the response carries no item.
var ErrNotFound = errors.New("not found")

// APIError is returned when the API answers with a non-2xx status.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API returned status %d for %s %s: %s",
		e.StatusCode, e.Method, e.URL, e.Body)
}

// Client makes authenticated requests against the TeamSnap API. A Client
// owns a connection pool; call Close when done with it.
type Client struct {
	config *Config
	client *http.Client
	log    hclog.Logger

	mu         sync.Mutex
	apiVersion string
}

// NewClient creates a new Client. The configuration is copied and its zero
// values replaced by defaults.
func NewClient(cfg *Config, log hclog.Logger) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := *cfg
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = hclog.NewNullLogger()
	}

	return &Client{
		config: &c,
		client: c.NewHTTPClient(),
		log:    log,
	}, nil
}

// NewClientFromEnv creates a new Client, reading the access token from the
// TEAMSNAP_ACCESS_TOKEN environment variable when cfg does not set one.
func NewClientFromEnv(cfg *Config, log hclog.Logger) (*Client, error) {
	return NewClient(configFromEnv(cfg), log)
}

// WithClient creates a Client, runs fn with it and closes it afterwards.
func WithClient(ctx context.Context, cfg *Config, log hclog.Logger, fn func(context.Context, *Client) error) error {
	c, err := NewClient(cfg, log)
	if err != nil {
		return err
	}
	defer c.Close()

	return fn(ctx, c)
}

// Close releases idle pooled connections.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values) (*collection.Response, error) {
	resp, err := c.Do(ctx, http.MethodGet, endpoint, query, nil)
	if err != nil {
		return nil, err
	}
	if c.config.MonitorDeprecations {
		c.logDeprecations(resp)
	}
	return resp, nil
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, body any) (*collection.Response, error) {
	return c.Do(ctx, http.MethodPost, endpoint, nil, body)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, body any) (*collection.Response, error) {
	return c.Do(ctx, http.MethodPut, endpoint, nil, body)
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, endpoint string, body any) (*collection.Response, error) {
	return c.Do(ctx, http.MethodPatch, endpoint, nil, body)
}

// Delete performs a DELETE request. An empty response body yields an empty
// Response.
func (c *Client) Delete(ctx context.Context, endpoint string) (*collection.Response, error) {
	return c.Do(ctx, http.MethodDelete, endpoint, nil, nil)
}

// Do executes a request against endpoint, which is relative to the base URL
// and may carry its own query string. Transport failures of GET requests are
// retried up to MaxRetries times; error statuses are returned as *APIError.
func (c *Client) Do(ctx context.Context, method, endpoint string, query url.Values, body any) (*collection.Response, error) {
	reqURL, err := c.buildURL(endpoint, query)
	if err != nil {
		return nil, err
	}

	var bodyBytes []byte
	if body != nil {
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	retries := 0
	if method == http.MethodGet {
		retries = c.config.MaxRetries
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.config.RetryDelay), uint64(retries)),
		ctx,
	)

	var respBody []byte
	op := func() error {
		var bodyReader io.Reader
		if bodyBytes != nil {
			bodyReader = bytes.NewReader(bodyBytes)
		}

		req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)
		req.Header.Set("Accept", "application/json")
		if bodyBytes != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		c.log.Debug("sending request", "method", method, "url", reqURL)

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			apiErr := &APIError{
				Method:     method,
				URL:        reqURL,
				StatusCode: resp.StatusCode,
				Body:       string(data),
			}
			c.log.Error("API error",
				"method", method,
				"url", reqURL,
				"status", resp.StatusCode,
				"response", apiErr.Body)
			return backoff.Permanent(apiErr)
		}

		respBody = data
		return nil
	}

	notify := func(err error, wait time.Duration) {
		c.log.Warn("retrying request", "method", method, "url", reqURL, "error", err, "wait", wait)
	}
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return nil, err
	}

	out := &collection.Response{}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return out, nil
}

// buildURL joins endpoint to the base URL and merges query into any query
// string the endpoint already carries.
func (c *Client) buildURL(endpoint string, query url.Values) (string, error) {
	base := strings.TrimRight(c.config.BaseURL, "/")
	u, err := url.Parse(base + "/" + strings.TrimLeft(endpoint, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}

	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

package teamsnap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/teamsnap-tools/teamsnap/pkg/collection"
)

// Root fetches the API root, which advertises every top-level relation.
func (c *Client) Root(ctx context.Context) (*collection.Response, error) {
	resp, err := c.Get(ctx, "/", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get API root: %w", err)
	}
	return resp, nil
}

// APIVersion returns the API version, fetching the root on first use.
func (c *Client) APIVersion(ctx context.Context) (string, error) {
	c.mu.Lock()
	v := c.apiVersion
	c.mu.Unlock()
	if v != "" {
		return v, nil
	}
	return c.CheckAPIVersion(ctx)
}

// CheckAPIVersion fetches the root, records the advertised version and warns
// when it differs from the one recorded by a previous check.
func (c *Client) CheckAPIVersion(ctx context.Context) (string, error) {
	root, err := c.Root(ctx)
	if err != nil {
		return "", err
	}

	current := root.Version()
	if current == "" {
		c.log.Warn("could not determine API version from root endpoint")
		return "", nil
	}

	c.mu.Lock()
	previous := c.apiVersion
	c.apiVersion = current
	c.mu.Unlock()

	if previous != "" && previous != current {
		c.log.Warn("API version changed", "previous", previous, "current", current)
	}
	c.log.Info("TeamSnap API version", "version", current)

	return current, nil
}

// CheckForDeprecations fetches endpoint and returns the relations it marks as
// deprecated. Request errors are logged and produce an empty result.
func (c *Client) CheckForDeprecations(ctx context.Context, endpoint string) []collection.Link {
	if endpoint == "" {
		endpoint = "/"
	}

	resp, err := c.Do(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		c.log.Error("failed to check for deprecations", "endpoint", endpoint, "error", err)
		return nil
	}

	out := resp.DeprecatedLinks()
	for i := range out {
		if out[i].Prompt == "" {
			out[i].Prompt = "No description provided"
		}
	}
	return out
}

func (c *Client) logDeprecations(resp *collection.Response) {
	for _, l := range resp.DeprecatedLinks() {
		prompt := l.Prompt
		if prompt == "" {
			prompt = "No description provided"
		}
		c.log.Warn("deprecated relation", "rel", l.Rel, "prompt", prompt, "href", l.Href)
	}
}

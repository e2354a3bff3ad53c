package teamsnap

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordedRequest is what the fake API saw.
type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   map[string]any
}

// fakeAPI is an httptest server answering every request with a fixed
// response and recording what it received.
type fakeAPI struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
	status   int
	body     string
}

func newFakeAPI(t *testing.T, status int, body string) *fakeAPI {
	t.Helper()
	f := &fakeAPI{status: status, body: body}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
		}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			assert.NoError(t, json.Unmarshal(data, &rec.Body))
		}

		f.mu.Lock()
		f.requests = append(f.requests, rec)
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/vnd.collection+json")
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(f.body))
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAPI) Requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(&Config{
		BaseURL:     baseURL,
		AccessToken: "test_token_12345",
	}, hclog.NewNullLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

const teamsBody = `{
  "collection": {
    "version": "3.867.0",
    "items": [
      {"data": [
        {"name": "id", "value": 12345},
        {"name": "name", "value": "Test Team"},
        {"name": "sport_name", "value": "Soccer"},
        {"name": "season_name", "value": "Fall 2025"},
        {"name": "division_name", "value": "Division 1"},
        {"name": "location_country", "value": "US"}
      ]},
      {"data": [{"name": "id", "value": 2}, {"name": "name", "value": "Other"}]}
    ]
  }
}`

func TestNewClientConfig(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		_, err := NewClient(&Config{}, nil)
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, err.Error(), EnvAccessToken)
	})

	t.Run("invalid base url", func(t *testing.T) {
		_, err := NewClient(&Config{BaseURL: "ftp://example.com", AccessToken: "tok"}, nil)
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("negative retries", func(t *testing.T) {
		_, err := NewClient(&Config{AccessToken: "tok", MaxRetries: -1}, nil)
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("token from environment", func(t *testing.T) {
		t.Setenv(EnvAccessToken, "env-token")
		c, err := NewClientFromEnv(nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "env-token", c.config.AccessToken)
		assert.Equal(t, DefaultBaseURL, c.config.BaseURL)
		assert.Equal(t, DefaultTimeout, c.config.Timeout)
	})

	t.Run("explicit token wins over environment", func(t *testing.T) {
		t.Setenv(EnvAccessToken, "env-token")
		c, err := NewClientFromEnv(&Config{AccessToken: "explicit"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "explicit", c.config.AccessToken)
	})
}

func TestClientRequest(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, teamsBody)
	c := newTestClient(t, api.URL+"/v3")

	resp, err := c.Get(context.Background(), "/teams/search?active=true", url.Values{"user_id": {"42"}})
	require.NoError(t, err)
	assert.Len(t, resp.Items(), 2)

	reqs := api.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodGet, reqs[0].Method)
	assert.Equal(t, "/v3/teams/search", reqs[0].Path)
	assert.Equal(t, "42", reqs[0].Query.Get("user_id"))
	assert.Equal(t, "true", reqs[0].Query.Get("active"))
	assert.Equal(t, "Bearer test_token_12345", reqs[0].Header.Get("Authorization"))
	assert.Equal(t, "application/json", reqs[0].Header.Get("Accept"))
}

func TestClientAPIError(t *testing.T) {
	api := newFakeAPI(t, http.StatusForbidden, `{"error":"forbidden"}`)

	c, err := NewClient(&Config{
		BaseURL:     api.URL,
		AccessToken: "tok",
		MaxRetries:  3,
		RetryDelay:  time.Millisecond,
	}, nil)
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "/me", nil)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, http.MethodGet, apiErr.Method)
	assert.Contains(t, apiErr.Body, "forbidden")

	assert.Len(t, api.Requests(), 1, "status errors are not retried")
}

func TestClientRetriesTransportErrors(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			hj, ok := w.(http.Hijacker)
			if !assert.True(t, ok) {
				return
			}
			conn, _, err := hj.Hijack()
			if assert.NoError(t, err) {
				_ = conn.Close()
			}
			return
		}
		_, _ = w.Write([]byte(teamsBody))
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(&Config{
		BaseURL:     srv.URL,
		AccessToken: "tok",
		MaxRetries:  2,
		RetryDelay:  time.Millisecond,
	}, nil)
	require.NoError(t, err)

	teams, err := c.SearchTeams(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, teams, 2)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&attempts), int32(2))
}

func TestClientDeleteEmptyBody(t *testing.T) {
	api := newFakeAPI(t, http.StatusNoContent, "")
	c := newTestClient(t, api.URL)

	resp, err := c.Delete(context.Background(), "/events/5")
	require.NoError(t, err)
	assert.Empty(t, resp.Items())

	require.NoError(t, c.DeleteEvent(context.Background(), 5))
	reqs := api.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, http.MethodDelete, reqs[1].Method)
	assert.Equal(t, "/events/5", reqs[1].Path)
}

func TestSearchAndGet(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, teamsBody)
	c := newTestClient(t, api.URL)
	ctx := context.Background()

	teams, err := c.SearchTeams(ctx, 99)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, int64(12345), teams[0].ID)
	assert.Equal(t, "Test Team", teams[0].Name)
	assert.Equal(t, "Soccer", teams[0].SportName)
	assert.Equal(t, "Fall 2025", teams[0].SeasonName)

	team, err := c.GetTeam(ctx, 12345)
	require.NoError(t, err)
	assert.Equal(t, "Division 1", team.DivisionName)

	reqs := api.Requests()
	assert.Equal(t, "99", reqs[0].Query.Get("user_id"))
	assert.Equal(t, "/teams/12345", reqs[1].Path)
}

func TestSearchOmitsZeroIDs(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, `{"collection":{"items":[]}}`)
	c := newTestClient(t, api.URL)

	_, err := c.SearchAssignments(context.Background(), 0, 7)
	require.NoError(t, err)

	reqs := api.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/assignments/search", reqs[0].Path)
	assert.Equal(t, "7", reqs[0].Query.Get("event_id"))
	assert.False(t, reqs[0].Query.Has("team_id"))
}

func TestGetNotFound(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, `{"collection":{"items":[]}}`)
	c := newTestClient(t, api.URL)

	_, err := c.GetEvent(context.Background(), 1)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCreateEvent(t *testing.T) {
	t.Run("returns created event", func(t *testing.T) {
		api := newFakeAPI(t, http.StatusCreated, `{"collection":{"items":[{"data":[{"name":"id","value":67890},{"name":"name","value":"Practice"}]}]}}`)
		c := newTestClient(t, api.URL)

		event, err := c.CreateEvent(context.Background(), EventInput{
			TeamID:    12345,
			Name:      "Practice",
			StartDate: "2025-01-15T14:00:00Z",
			Notes:     "Bring water",
		})
		require.NoError(t, err)
		require.NotNil(t, event)
		assert.Equal(t, int64(67890), event.ID)

		reqs := api.Requests()
		require.Len(t, reqs, 1)
		assert.Equal(t, http.MethodPost, reqs[0].Method)
		assert.Equal(t, "/events", reqs[0].Path)
		assert.Equal(t, "application/json", reqs[0].Header.Get("Content-Type"))
		assert.Equal(t, map[string]any{
			"team_id":    float64(12345),
			"name":       "Practice",
			"start_date": "2025-01-15T14:00:00Z",
			"is_game":    false,
			"notes":      "Bring water",
		}, reqs[0].Body)
	})

	t.Run("no item echoed", func(t *testing.T) {
		api := newFakeAPI(t, http.StatusCreated, `{"collection":{}}`)
		c := newTestClient(t, api.URL)

		event, err := c.CreateEvent(context.Background(), EventInput{TeamID: 1, Name: "x", StartDate: "2025-01-01"})
		require.NoError(t, err)
		assert.Nil(t, event)
	})
}

func TestUpdateUsesPatch(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, `{"collection":{}}`)
	c := newTestClient(t, api.URL)

	require.NoError(t, c.UpdateMember(context.Background(), 11111, Fields{"email": "new@example.com"}))

	reqs := api.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPatch, reqs[0].Method)
	assert.Equal(t, "/members/11111", reqs[0].Path)
	assert.Equal(t, "new@example.com", reqs[0].Body["email"])
}

func TestUpdateAvailability(t *testing.T) {
	t.Run("status is lowercased", func(t *testing.T) {
		api := newFakeAPI(t, http.StatusOK, `{"collection":{}}`)
		c := newTestClient(t, api.URL)

		require.NoError(t, c.UpdateAvailability(context.Background(), 3, "YES"))
		reqs := api.Requests()
		require.Len(t, reqs, 1)
		assert.Equal(t, "/availabilities/3", reqs[0].Path)
		assert.Equal(t, "yes", reqs[0].Body["status"])
	})

	t.Run("invalid status makes no request", func(t *testing.T) {
		api := newFakeAPI(t, http.StatusOK, `{"collection":{}}`)
		c := newTestClient(t, api.URL)

		err := c.UpdateAvailability(context.Background(), 3, "perhaps")
		require.Error(t, err)
		assert.Empty(t, api.Requests())
	})
}

func TestAvailabilityResponse(t *testing.T) {
	tests := []struct {
		name     string
		avail    Availability
		expected string
	}{
		{name: "status word", avail: Availability{StatusCode: "Yes"}, expected: AvailabilityYes},
		{name: "numeric no", avail: Availability{StatusCode: "0"}, expected: AvailabilityNo},
		{name: "numeric maybe", avail: Availability{StatusCode: "2"}, expected: AvailabilityMaybe},
		{name: "fallback to status", avail: Availability{Status: "Maybe"}, expected: AvailabilityMaybe},
		{name: "unrecognized", avail: Availability{StatusCode: "later"}, expected: AvailabilityUnknown},
		{name: "empty", avail: Availability{}, expected: AvailabilityUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.avail.Response())
		})
	}
}

func TestAPIVersionAndDeprecations(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, `{
  "collection": {
    "version": "3.867.0",
    "links": [
      {"rel": "teams", "href": "https://api.teamsnap.com/v3/teams"},
      {"rel": "legacy", "href": "https://api.teamsnap.com/v3/legacy", "deprecated": true}
    ]
  }
}`)
	c := newTestClient(t, api.URL)
	ctx := context.Background()

	v, err := c.APIVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, "3.867.0", v)

	v, err = c.APIVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, "3.867.0", v)
	assert.Len(t, api.Requests(), 1, "version is cached")

	deprecated := c.CheckForDeprecations(ctx, "")
	require.Len(t, deprecated, 1)
	assert.Equal(t, "legacy", deprecated[0].Rel)
	assert.Equal(t, "No description provided", deprecated[0].Prompt)
}

func TestCheckForDeprecationsError(t *testing.T) {
	api := newFakeAPI(t, http.StatusInternalServerError, "boom")
	c := newTestClient(t, api.URL)

	assert.Empty(t, c.CheckForDeprecations(context.Background(), "/"))
}

func TestWithClient(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, `{"collection":{"items":[{"data":[{"name":"id","value":1},{"name":"first_name","value":"Ada"}]}]}}`)

	var name string
	err := WithClient(context.Background(), &Config{BaseURL: api.URL, AccessToken: "tok"}, nil,
		func(ctx context.Context, c *Client) error {
			me, err := c.Me(ctx)
			if err != nil {
				return err
			}
			name = me.FirstName
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, "Ada", name)
}

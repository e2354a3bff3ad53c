package explore

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/teamsnap-tools/teamsnap/internal/cmd/base"
	"github.com/teamsnap-tools/teamsnap/pkg/collection"
	"github.com/teamsnap-tools/teamsnap/pkg/teamsnap"
	"github.com/teamsnap-tools/teamsnap/pkg/teamsnap/teamsnaptest"
)

func newServer(t *testing.T) *teamsnaptest.Server {
	t.Helper()

	srv := teamsnaptest.NewServer(t)
	root := teamsnaptest.Root(teamsnaptest.Version,
		collection.Link{Rel: "teams", Href: "https://api.example.com/teams"},
		collection.Link{Rel: "me", Href: "https://api.example.com/me"},
	)
	root.Collection.Queries = []collection.Query{{Rel: "search_teams", Href: "https://api.example.com/teams/search"}}
	root.Collection.Commands = []collection.Command{{Rel: "create_event", Href: "https://api.example.com/events", Method: "POST"}}
	srv.Handle("GET", "/", root)
	srv.Handle("GET", "/me", teamsnaptest.Items(map[string]any{"id": 7, "first_name": "Pat"}))
	srv.Handle("GET", "/teams/search", teamsnaptest.Items(map[string]any{"id": 42, "name": "Hawks"}))
	srv.Handle("GET", "/broadcast_emails/search", teamsnaptest.Items(
		map[string]any{"id": 1, "subject": "Practice moved", "body": "See you at 6"},
	))
	srv.Handle("GET", "/messages/search", teamsnaptest.Items())
	srv.HandleStatus("GET", "/invoices/search", http.StatusForbidden, `{"error":"forbidden for this team plan"}`)

	t.Setenv(teamsnap.EnvAccessToken, "test-token")
	cfgPath := filepath.Join(t.TempDir(), "teamsnap.hcl")
	require.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf("api {\n  base_url = %q\n}\n", srv.URL)), 0o644))
	t.Setenv(base.EnvConfig, cfgPath)

	return srv
}

func newCommand() (*Command, *cli.MockUi) {
	ui := cli.NewMockUi()
	return &Command{Command: base.NewCommand(hclog.NewNullLogger(), ui)}, ui
}

func TestExploreText(t *testing.T) {
	srv := newServer(t)
	c, ui := newCommand()

	code := c.Run(nil)
	require.Equal(t, 0, code, ui.ErrorWriter.String())

	out := ui.OutputWriter.String()
	assert.Contains(t, out, "  - teams: https://api.example.com/teams")
	assert.Contains(t, out, "  - search_teams: https://api.example.com/teams/search")
	assert.Contains(t, out, "  - create_event (POST): https://api.example.com/events")
	assert.Contains(t, out, "  User ID: 7")
	assert.Contains(t, out, "  Team ID: 42")
	assert.Contains(t, out, "  Team Name: Hawks")
	assert.Contains(t, out, "    ✓ Found 1 broadcast_emails\n    First item data fields:\n      body, id, subject")
	assert.Contains(t, out, "    ✓ Found 0 messages")
	assert.Contains(t, out, "  Testing invoices...\n    ✗ Error: API returned status 403 for GET http://127.0.0.1:")
	assert.Contains(t, out, "API Exploration Complete!")

	assert.Contains(t, srv.Requests(), "GET /payments/search?team_id=42")
}

func TestExploreJSON(t *testing.T) {
	newServer(t)
	c, ui := newCommand()

	code := c.Run([]string{"-format", "json"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())

	var report Report
	require.NoError(t, json.Unmarshal([]byte(ui.OutputWriter.String()), &report))

	assert.Equal(t, teamsnaptest.Version, report.Version)
	assert.Len(t, report.Links, 2)
	assert.Equal(t, int64(7), report.UserID)
	assert.Equal(t, int64(42), report.TeamID)
	require.Len(t, report.Probes, len(Probed))

	byName := map[string]Probe{}
	for _, p := range report.Probes {
		byName[p.Name] = p
	}
	assert.Equal(t, 1, byName["broadcast_emails"].Count)
	assert.Equal(t, []string{"body", "id", "subject"}, byName["broadcast_emails"].Fields)
	assert.Equal(t, "/broadcast_emails/search?team_id=42", byName["broadcast_emails"].Endpoint)
	assert.Contains(t, byName["invoices"].Error, "status 403")
	assert.Contains(t, byName["contacts"].Error, "status 404")
}

func TestExploreYAML(t *testing.T) {
	newServer(t)
	c, ui := newCommand()

	code := c.Run([]string{"-format=yaml"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())

	var report Report
	require.NoError(t, yaml.Unmarshal([]byte(ui.OutputWriter.String()), &report))
	assert.Equal(t, "Hawks", report.TeamName)
	assert.Equal(t, "POST", report.Commands[0].Method)
}

func TestExploreBadFormat(t *testing.T) {
	c, ui := newCommand()

	assert.Equal(t, 1, c.Run([]string{"-format", "xml"}))
	assert.Contains(t, ui.ErrorWriter.String(), `unsupported format "xml"`)
}

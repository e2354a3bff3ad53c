package whoami

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamsnap-tools/teamsnap/internal/cmd/base"
	"github.com/teamsnap-tools/teamsnap/pkg/teamsnap"
	"github.com/teamsnap-tools/teamsnap/pkg/teamsnap/teamsnaptest"
)

func TestWhoami(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantCode int
		wantOut  string
		wantErr  string
	}{
		{
			name:     "ok",
			status:   http.StatusOK,
			wantCode: 0,
			wantOut:  "User ID: 7\nName: Pat Lee\nEmail: pat@example.com\n",
		},
		{
			name:     "unauthorized",
			status:   http.StatusUnauthorized,
			wantCode: 1,
			wantErr:  "status 401",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := teamsnaptest.NewServer(t)
			srv.Handle("GET", "/", teamsnaptest.Root(teamsnaptest.Version))
			if tt.status == http.StatusOK {
				srv.Handle("GET", "/me", teamsnaptest.Items(map[string]any{
					"id": 7, "first_name": "Pat", "last_name": "Lee", "email": "pat@example.com",
				}))
			} else {
				srv.HandleStatus("GET", "/me", tt.status, `{"error":"unauthorized"}`)
			}

			t.Setenv(teamsnap.EnvAccessToken, "test-token")
			cfgPath := filepath.Join(t.TempDir(), "teamsnap.hcl")
			require.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf("api {\n  base_url = %q\n}\n", srv.URL)), 0o644))

			ui := cli.NewMockUi()
			c := &Command{Command: base.NewCommand(hclog.NewNullLogger(), ui)}

			assert.Equal(t, tt.wantCode, c.Run([]string{"-config", cfgPath}))
			if tt.wantOut != "" {
				assert.Equal(t, tt.wantOut, ui.OutputWriter.String())
			}
			if tt.wantErr != "" {
				assert.Contains(t, ui.ErrorWriter.String(), tt.wantErr)
			}
		})
	}
}

package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/teamsnap-tools/teamsnap/internal/cmd/base"
	"github.com/teamsnap-tools/teamsnap/internal/cmd/commands/auth"
	"github.com/teamsnap-tools/teamsnap/internal/cmd/commands/example"
	"github.com/teamsnap-tools/teamsnap/internal/cmd/commands/explore"
	"github.com/teamsnap-tools/teamsnap/internal/cmd/commands/mcp"
	"github.com/teamsnap-tools/teamsnap/internal/cmd/commands/monitor"
	"github.com/teamsnap-tools/teamsnap/internal/cmd/commands/version"
	"github.com/teamsnap-tools/teamsnap/internal/cmd/commands/view"
	"github.com/teamsnap-tools/teamsnap/internal/cmd/commands/whoami"
)

// Commands is the mapping of all available commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	b := base.NewCommand(log, ui)

	Commands = map[string]cli.CommandFactory{
		"auth": func() (cli.Command, error) {
			return &auth.Command{Command: b}, nil
		},
		"example": func() (cli.Command, error) {
			return &example.Command{Command: b}, nil
		},
		"explore": func() (cli.Command, error) {
			return &explore.Command{Command: b}, nil
		},
		"mcp": func() (cli.Command, error) {
			return &mcp.Command{Command: b}, nil
		},
		"monitor": func() (cli.Command, error) {
			return &monitor.Command{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
		"view": func() (cli.Command, error) {
			return &view.Command{Command: b}, nil
		},
		"whoami": func() (cli.Command, error) {
			return &whoami.Command{Command: b}, nil
		},
	}
}

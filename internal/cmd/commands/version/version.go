package version

import (
	"github.com/teamsnap-tools/teamsnap/internal/cmd/base"
	"github.com/teamsnap-tools/teamsnap/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version of teamsnap"
}

func (c *Command) Help() string {
	return `Usage: teamsnap version

  Print the version of teamsnap.`
}

func (c *Command) Run(args []string) int {
	c.UI.Output("teamsnap " + version.Version)
	return 0
}

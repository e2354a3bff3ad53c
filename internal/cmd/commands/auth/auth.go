package auth

import (
	"flag"
	"fmt"

	"github.com/teamsnap-tools/teamsnap/internal/cmd/base"
)

type Command struct {
	*base.Command

	client base.ClientFlags
}

func (c *Command) Synopsis() string {
	return "Authenticate with TeamSnap and store an access token"
}

func (c *Command) Help() string {
	return `Usage: teamsnap auth [options]

  Run the OAuth 2.0 out-of-band flow. A browser window opens on the TeamSnap
  authorization page; paste the code it displays to store an access token
  in the credentials file.

  The credentials file needs a [teamsnap] section with client_id and
  client_secret set.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("auth", flag.ContinueOnError))
	c.client.Register(f)
	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	ctx, cancel := c.SignalContext()
	defer cancel()

	cfg, err := c.LoadConfig(&c.client)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading config: %v", err))
		return 1
	}

	a, err := c.Authenticator(cfg)
	if err != nil {
		c.UI.Error(fmt.Sprintf("Error: %v", err))
		return 1
	}

	if _, err := a.Authenticate(ctx); err != nil {
		c.UI.Error(fmt.Sprintf("Error: %v", err))
		return 1
	}

	return 0
}

package whoami

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
	return "Show the authenticated TeamSnap user"
}

func (c *Command) Help() string {
	return `Usage: teamsnap whoami [options]

  Print the user the stored access token belongs to.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("whoami", flag.ContinueOnError))
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

	client, err := c.Client(ctx, cfg)
	if err != nil {
		c.UI.Error(fmt.Sprintf("Error: %v", err))
		return 1
	}
	defer client.Close()

	user, err := client.Me(ctx)
	if err != nil {
		c.UI.Error(fmt.Sprintf("Error: %v", err))
		return 1
	}

	c.UI.Output(fmt.Sprintf("User ID: %d", user.ID))
	c.UI.Output(fmt.Sprintf("Name: %s", user.Name()))
	c.UI.Output(fmt.Sprintf("Email: %s", user.Email))

	return 0
}

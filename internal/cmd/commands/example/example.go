package example

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/teamsnap-tools/teamsnap/internal/cmd/base"
	"github.com/teamsnap-tools/teamsnap/pkg/teamsnap"
)

// limit is the number of teams, members and events shown.
const limit = 5

type Command struct {
	*base.Command

	client base.ClientFlags
}

func (c *Command) Synopsis() string {
	return "Walk through the main API calls"
}

func (c *Command) Help() string {
	return `Usage: teamsnap example [options]

  Authenticate, then show the current user, their teams and the members and
  events of the first team.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("example", flag.ContinueOnError))
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

	if err := c.run(ctx); err != nil {
		c.UI.Error(fmt.Sprintf("\nError: %v", err))
		return 1
	}
	return 0
}

func (c *Command) run(ctx context.Context) error {
	c.UI.Output("TeamSnap Integration Example")
	c.UI.Output("  This will authenticate and fetch data from TeamSnap API")

	cfg, err := c.LoadConfig(&c.client)
	if err != nil {
		return err
	}

	c.Section("1. Initializing TeamSnap Client")
	client, err := c.Client(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()
	c.UI.Info("✓ Client initialized successfully!")

	c.Section("2. Getting Current User Information")
	user, err := client.Me(ctx)
	if errors.Is(err, teamsnap.ErrNotFound) {
		c.UI.Warn("\nCould not extract user information from response")
		return nil
	}
	if err != nil {
		return err
	}

	c.UI.Output("\nUser Information:")
	c.UI.Output(fmt.Sprintf("  ID: %d", user.ID))
	c.UI.Output(fmt.Sprintf("  First Name: %s", base.Display(user.FirstName, "N/A")))
	c.UI.Output(fmt.Sprintf("  Last Name: %s", base.Display(user.LastName, "N/A")))
	c.UI.Output(fmt.Sprintf("  Email: %s", base.Display(user.Email, "N/A")))
	c.UI.Output(fmt.Sprintf("  Birthday: %s", base.Display(user.Birthday, "N/A")))

	if user.ID != 0 {
		if err := c.showTeams(ctx, client, user.ID); err != nil {
			return err
		}
	}

	c.Section("✓ Example Complete!")
	c.UI.Output("\nYou can now:")
	c.UI.Output("  - Use the teamsnap package in your own applications")
	c.UI.Output("  - Explore the full API with: teamsnap explore")
	c.UI.Output("  - Browse the API at: https://api.teamsnap.com/v3/")

	return nil
}

func (c *Command) showTeams(ctx context.Context, client *teamsnap.Client, userID int64) error {
	c.Section("3. Getting User's Teams")
	teams, err := client.SearchTeams(ctx, userID)
	if err != nil {
		return err
	}

	c.UI.Info(fmt.Sprintf("\n✓ Found %d team(s)", len(teams)))
	if len(teams) == 0 {
		c.UI.Warn("\nNo teams found for this user")
		c.UI.Output("  This might be because:")
		c.UI.Output("  - Your account doesn't manage any teams")
		c.UI.Output("  - You need additional permissions")
		c.UI.Output("  - You're not a member of any teams")
		return nil
	}

	for i, team := range base.First(teams, limit) {
		c.UI.Output(fmt.Sprintf("\n  Team #%d:", i+1))
		c.UI.Output(fmt.Sprintf("     ID: %d", team.ID))
		c.UI.Output(fmt.Sprintf("     Name: %s", base.Display(team.Name, "N/A")))
		c.UI.Output(fmt.Sprintf("     Sport: %s", base.Display(team.SportName, "N/A")))
		c.UI.Output(fmt.Sprintf("     Location: %s", base.Display(team.LocationCountry, "N/A")))
		c.UI.Output(fmt.Sprintf("     Division: %s", base.Display(team.DivisionName, "N/A")))

		if i == 0 && team.ID != 0 {
			if err := c.showTeam(ctx, client, team); err != nil {
				return err
			}
		}
	}

	return nil
}

func (c *Command) showTeam(ctx context.Context, client *teamsnap.Client, team *teamsnap.Team) error {
	c.Section("4. Getting Members for Team: " + team.Name)
	members, err := client.SearchMembers(ctx, team.ID)
	if err != nil {
		return err
	}

	c.UI.Info(fmt.Sprintf("\n✓ Found %d member(s)", len(members)))
	for i, m := range base.First(members, limit) {
		c.UI.Output(fmt.Sprintf("\n  Member #%d:", i+1))
		c.UI.Output(fmt.Sprintf("     ID: %d", m.ID))
		c.UI.Output(fmt.Sprintf("     First Name: %s", base.Display(m.FirstName, "N/A")))
		c.UI.Output(fmt.Sprintf("     Last Name: %s", base.Display(m.LastName, "N/A")))
		c.UI.Output(fmt.Sprintf("     Position: %s", base.Display(m.Position, "N/A")))
		c.UI.Output(fmt.Sprintf("     Jersey Number: %s", base.Display(m.JerseyNumber, "N/A")))
	}

	c.Section("5. Getting Events for Team: " + team.Name)
	events, err := client.SearchEvents(ctx, team.ID)
	if err != nil {
		return err
	}

	c.UI.Info(fmt.Sprintf("\n✓ Found %d event(s)", len(events)))
	for i, e := range base.First(events, limit) {
		c.UI.Output(fmt.Sprintf("\n  Event #%d:", i+1))
		c.UI.Output(fmt.Sprintf("     ID: %d", e.ID))
		c.UI.Output(fmt.Sprintf("     Name: %s", base.Display(e.Name, "N/A")))
		c.UI.Output(fmt.Sprintf("     Type: %s", base.Display(e.Type, "N/A")))
		c.UI.Output(fmt.Sprintf("     Start: %s", base.Display(e.StartDate, "N/A")))
		c.UI.Output(fmt.Sprintf("     Location: %s", base.Display(e.LocationName, "N/A")))
		c.UI.Output(fmt.Sprintf("     Notes: %s", base.Truncate(base.Display(e.Notes, "N/A"), 50)))
	}

	return nil
}

package view

import (
	"context"
	"flag"
	"fmt"

	"github.com/teamsnap-tools/teamsnap/internal/cmd/base"
	"github.com/teamsnap-tools/teamsnap/pkg/teamsnap"
)

const (
	listLimit = 10
	postLimit = 5

	shortPreview = 50
	longPreview  = 100
)

type Command struct {
	*base.Command

	client base.ClientFlags
}

func (c *Command) Synopsis() string {
	return "Show all data of the authenticated account"
}

func (c *Command) Help() string {
	return `Usage: teamsnap view [options]

  Print the current user and, for every team, its members, events, forum
  topics and posts, broadcast emails, messages and assignments.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("view", flag.ContinueOnError))
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
	c.UI.Output("TeamSnap Complete Data Viewer")
	c.UI.Output("  Fetching all available data from your account...")

	cfg, err := c.LoadConfig(&c.client)
	if err != nil {
		return err
	}

	client, err := c.Client(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	c.Section("Current User")
	user, err := client.Me(ctx)
	if err != nil {
		return err
	}
	c.UI.Output(fmt.Sprintf("\n  Name: %s", user.Name()))
	c.UI.Output(fmt.Sprintf("  Email: %s", user.Email))
	c.UI.Output(fmt.Sprintf("  User ID: %d", user.ID))

	c.Section("Teams")
	teams, err := client.SearchTeams(ctx, user.ID)
	if err != nil {
		return err
	}
	c.UI.Output(fmt.Sprintf("\n  Total teams: %d", len(teams)))

	for i, team := range teams {
		c.UI.Output(fmt.Sprintf("\n  Team #%d: %s (ID: %d)", i+1, team.Name, team.ID))
		c.UI.Output(fmt.Sprintf("    Sport: %s", base.Display(team.SportName, "N/A")))
		c.UI.Output(fmt.Sprintf("    Season: %s", base.Display(team.SeasonName, "N/A")))

		if err := c.showTeam(ctx, client, team); err != nil {
			return err
		}
	}

	c.Section("✓ Complete!")
	c.UI.Output("\n  All available data has been displayed above.")
	c.UI.Output("  To access more endpoints, run: teamsnap explore")

	return nil
}

func (c *Command) showTeam(ctx context.Context, client *teamsnap.Client, team *teamsnap.Team) error {
	c.Section("Members - " + team.Name)
	members, err := client.SearchMembers(ctx, team.ID)
	if err != nil {
		return err
	}
	c.UI.Output(fmt.Sprintf("\n  Total members: %d", len(members)))
	for _, m := range base.First(members, listLimit) {
		c.UI.Output(fmt.Sprintf("    • %s", m.Name()))
		if m.Position != "" {
			c.UI.Output(fmt.Sprintf("      Position: %s", m.Position))
		}
	}

	c.Section("Events - " + team.Name)
	events, err := client.SearchEvents(ctx, team.ID)
	if err != nil {
		return err
	}
	c.UI.Output(fmt.Sprintf("\n  Total events: %d", len(events)))
	for _, e := range base.First(events, listLimit) {
		c.UI.Output(fmt.Sprintf("\n    • %s", e.Name))
		c.UI.Output(fmt.Sprintf("      Type: %s", base.Display(e.Type, "N/A")))
		c.UI.Output(fmt.Sprintf("      Date: %s", base.Display(e.StartDate, "N/A")))
		c.UI.Output(fmt.Sprintf("      Location: %s", base.Display(e.LocationName, "N/A")))
		if e.Notes != "" {
			c.UI.Output(fmt.Sprintf("      Notes: %s", base.Truncate(e.Notes, shortPreview)))
		}
	}

	if err := c.showForum(ctx, client, team); err != nil {
		return err
	}

	c.Section("Broadcast Emails - " + team.Name)
	emails, err := client.SearchBroadcastEmails(ctx, team.ID)
	if err != nil {
		return err
	}
	c.UI.Output(fmt.Sprintf("\n  Total emails: %d", len(emails)))
	for _, e := range base.First(emails, listLimit) {
		c.UI.Output(fmt.Sprintf("\n    %s", base.Display(e.Subject, "No Subject")))
		c.UI.Output(fmt.Sprintf("       From: %s", base.Display(e.SenderEmail, "N/A")))
		c.UI.Output(fmt.Sprintf("       Sent: %s", base.Display(e.SentAt, "Not sent yet")))
		if e.Body != "" {
			c.UI.Output(fmt.Sprintf("       Body: %s", base.Truncate(e.Body, longPreview)))
		}
	}

	c.Section("Messages - " + team.Name)
	messages, err := client.SearchMessages(ctx, team.ID)
	if err != nil {
		return err
	}
	c.UI.Output(fmt.Sprintf("\n  Total messages: %d", len(messages)))
	for _, m := range base.First(messages, listLimit) {
		c.UI.Output(fmt.Sprintf("\n    • %s", base.Display(m.Title, "No Title")))
		c.UI.Output(fmt.Sprintf("      From: %s", base.Display(m.SenderName, "N/A")))
		c.UI.Output(fmt.Sprintf("      Sent: %s", base.Display(m.CreatedAt, "N/A")))
	}

	c.Section("Assignments - " + team.Name)
	assignments, err := client.SearchAssignments(ctx, team.ID, 0)
	if err != nil {
		return err
	}
	c.UI.Output(fmt.Sprintf("\n  Total assignments: %d", len(assignments)))
	for _, a := range base.First(assignments, listLimit) {
		c.UI.Output(fmt.Sprintf("\n    ✓ %s", base.Display(a.Description, "No description")))
		c.UI.Output(fmt.Sprintf("      Position: %s", base.Display(a.Position, "N/A")))
		c.UI.Output(fmt.Sprintf("      Event ID: %s", idOrNA(a.EventID)))
		c.UI.Output(fmt.Sprintf("      Member ID: %s", idOrNA(a.MemberID)))
	}

	return nil
}

func (c *Command) showForum(ctx context.Context, client *teamsnap.Client, team *teamsnap.Team) error {
	c.Section("Forum Topics / Message Board - " + team.Name)
	topics, err := client.SearchForumTopics(ctx, team.ID)
	if err != nil {
		return err
	}
	c.UI.Output(fmt.Sprintf("\n  Total topics: %d", len(topics)))

	for _, topic := range topics {
		badge := ""
		if topic.IsAnnouncement {
			badge = " [ANNOUNCEMENT]"
		}
		c.UI.Output(fmt.Sprintf("\n    %s%s", topic.Title, badge))
		c.UI.Output(fmt.Sprintf("       Topic ID: %d", topic.ID))
		c.UI.Output(fmt.Sprintf("       Created: %s", base.Display(topic.CreatedAt, "N/A")))

		posts, err := client.SearchForumPosts(ctx, team.ID, topic.ID)
		if err != nil {
			return err
		}
		c.UI.Output(fmt.Sprintf("       Replies: %d", len(posts)))

		for _, p := range base.First(posts, postLimit) {
			c.UI.Output(fmt.Sprintf("\n         %s:", base.Display(p.PosterName, "Unknown")))
			c.UI.Output(fmt.Sprintf("            %s", base.Truncate(p.Message, longPreview)))
		}
	}

	return nil
}

func idOrNA(id int64) string {
	if id == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d", id)
}

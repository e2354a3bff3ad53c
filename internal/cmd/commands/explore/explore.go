package explore

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/teamsnap-tools/teamsnap/internal/cmd/base"
	"github.com/teamsnap-tools/teamsnap/pkg/collection"
	"github.com/teamsnap-tools/teamsnap/pkg/teamsnap"
)

// Probed lists the team scoped search endpoints checked by explore.
var Probed = []string{
	"broadcast_emails",
	"broadcast_email_attachments",
	"messages",
	"forum_posts",
	"forum_topics",
	"assignments",
	"availabilities",
	"contacts",
	"custom_fields",
	"invoices",
	"payments",
}

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"

	fieldLimit = 10
	errPreview = 50
)

type Relation struct {
	Rel    string `json:"rel" yaml:"rel"`
	Href   string `json:"href" yaml:"href"`
	Method string `json:"method,omitempty" yaml:"method,omitempty"`
}

type Probe struct {
	Name     string   `json:"name" yaml:"name"`
	Endpoint string   `json:"endpoint" yaml:"endpoint"`
	Count    int      `json:"count" yaml:"count"`
	Fields   []string `json:"fields,omitempty" yaml:"fields,omitempty"`
	Error    string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report is everything explore discovered.
type Report struct {
	Version  string     `json:"version" yaml:"version"`
	Links    []Relation `json:"links" yaml:"links"`
	Queries  []Relation `json:"queries" yaml:"queries"`
	Commands []Relation `json:"commands" yaml:"commands"`

	UserID   int64   `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	TeamID   int64   `json:"team_id,omitempty" yaml:"team_id,omitempty"`
	TeamName string  `json:"team_name,omitempty" yaml:"team_name,omitempty"`
	Probes   []Probe `json:"probes,omitempty" yaml:"probes,omitempty"`
}

type Command struct {
	*base.Command

	client base.ClientFlags
	format string
}

func (c *Command) Synopsis() string {
	return "Discover the relations and search endpoints of the API"
}

func (c *Command) Help() string {
	return `Usage: teamsnap explore [options]

  List the links, queries and commands advertised by the API root, then
  probe team scoped search endpoints of the first team of the current user.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("explore", flag.ContinueOnError))
	c.client.Register(f)
	f.StringVar(&c.format, "format", formatText, "Output format: text, json or yaml")
	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	switch c.format {
	case formatText, formatJSON, formatYAML:
	default:
		c.UI.Error(fmt.Sprintf("unsupported format %q: must be text, json or yaml", c.format))
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
	text := c.format == formatText
	if text {
		c.UI.Output("TeamSnap API Explorer")
		c.UI.Output("  Discovering all available endpoints...")
	}

	cfg, err := c.LoadConfig(&c.client)
	if err != nil {
		return err
	}

	client, err := c.Client(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	root, err := client.Root(ctx)
	if err != nil {
		return err
	}
	report := rootReport(root)
	if text {
		c.printRoot(report)
		c.Section("2. Getting User and Team Info")
	}

	if err := explore(ctx, client, report); err != nil {
		return err
	}

	switch c.format {
	case formatJSON:
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding report: %w", err)
		}
		c.UI.Output(string(out))
	case formatYAML:
		out, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("error encoding report: %w", err)
		}
		c.UI.Output(strings.TrimRight(string(out), "\n"))
	default:
		c.printProbes(report)
		c.Section("✓ API Exploration Complete!")
		c.UI.Output("\nCheck the output above to see what data is available.")
	}

	return nil
}

func rootReport(root *collection.Response) *Report {
	r := &Report{
		Version:  root.Version(),
		Links:    []Relation{},
		Queries:  []Relation{},
		Commands: []Relation{},
	}
	for _, l := range root.Links() {
		r.Links = append(r.Links, Relation{Rel: l.Rel, Href: l.Href})
	}
	for _, q := range root.Queries() {
		r.Queries = append(r.Queries, Relation{Rel: q.Rel, Href: q.Href})
	}
	for _, cmd := range root.Commands() {
		r.Commands = append(r.Commands, Relation{Rel: cmd.Rel, Href: cmd.Href, Method: cmd.Method})
	}
	return r
}

// explore resolves the current user and first team, then probes every
// endpoint in Probed. Probe failures are recorded, not returned.
func explore(ctx context.Context, client *teamsnap.Client, r *Report) error {
	user, err := client.Me(ctx)
	if errors.Is(err, teamsnap.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	r.UserID = user.ID

	teams, err := client.SearchTeams(ctx, user.ID)
	if err != nil {
		return err
	}
	if len(teams) == 0 {
		return nil
	}
	r.TeamID = teams[0].ID
	r.TeamName = teams[0].Name

	query := url.Values{"team_id": {strconv.FormatInt(r.TeamID, 10)}}
	for _, name := range Probed {
		p := Probe{Name: name, Endpoint: "/" + name + "/search?" + query.Encode()}

		resp, err := client.Get(ctx, "/"+name+"/search", query)
		if err != nil {
			p.Error = err.Error()
			r.Probes = append(r.Probes, p)
			continue
		}

		items := resp.RawItems()
		p.Count = len(items)
		if len(items) > 0 {
			for _, f := range base.First(items[0].Data, fieldLimit) {
				p.Fields = append(p.Fields, f.Name)
			}
		}
		r.Probes = append(r.Probes, p)
	}

	return nil
}

func (c *Command) printRoot(r *Report) {
	c.Section("1. API Root - Available Endpoints")
	c.UI.Output(fmt.Sprintf("\n  Version: %s", base.Display(r.Version, "unknown")))

	c.UI.Output("\nAvailable API Endpoints (links):")
	for _, l := range r.Links {
		c.UI.Output(fmt.Sprintf("  - %s: %s", l.Rel, l.Href))
	}

	c.UI.Output("\nAvailable Search Queries:")
	for _, q := range r.Queries {
		c.UI.Output(fmt.Sprintf("  - %s: %s", q.Rel, q.Href))
	}

	c.UI.Output("\nAvailable Commands (actions):")
	for _, cmd := range r.Commands {
		c.UI.Output(fmt.Sprintf("  - %s (%s): %s", cmd.Rel, base.Display(cmd.Method, "unknown"), cmd.Href))
	}
}

func (c *Command) printProbes(r *Report) {
	if r.UserID == 0 {
		c.UI.Warn("  Could not determine the current user")
		return
	}
	c.UI.Output(fmt.Sprintf("  User ID: %d", r.UserID))

	if r.TeamID == 0 {
		c.UI.Warn("  No teams found for this user")
		return
	}
	c.UI.Output(fmt.Sprintf("  Team ID: %d", r.TeamID))
	c.UI.Output(fmt.Sprintf("  Team Name: %s", r.TeamName))

	c.Section("3. Testing Additional Endpoints")
	for _, p := range r.Probes {
		c.UI.Output(fmt.Sprintf("\n  Testing %s...", p.Name))
		if p.Error != "" {
			c.UI.Output(fmt.Sprintf("    ✗ Error: %s", base.Truncate(p.Error, errPreview)))
			continue
		}
		c.UI.Output(fmt.Sprintf("    ✓ Found %d %s", p.Count, p.Name))
		if len(p.Fields) > 0 {
			c.UI.Output("    First item data fields:")
			c.UI.Output("      " + strings.Join(p.Fields, ", "))
		}
	}
}

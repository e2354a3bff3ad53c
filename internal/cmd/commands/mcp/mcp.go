package mcp

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/teamsnap-tools/teamsnap/internal/cmd/base"
	"github.com/teamsnap-tools/teamsnap/internal/config"
	"github.com/teamsnap-tools/teamsnap/internal/mcpserver"
	"github.com/teamsnap-tools/teamsnap/pkg/teamsnap"
)

type Command struct {
	*base.Command

	client base.ClientFlags
	name   string
}

func (c *Command) Synopsis() string {
	return "Serve TeamSnap tools over the Model Context Protocol"
}

func (c *Command) Help() string {
	return `Usage: teamsnap mcp [options]

  Run an MCP server on stdin and stdout. Write tools are blocked unless
  TEAMSNAP_READONLY=false or the mcp block of the configuration sets
  read_only = false.

  A token is taken from TEAMSNAP_ACCESS_TOKEN or the credentials file; run
  "teamsnap auth" first. Logs are written to stderr.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("mcp", flag.ContinueOnError))
	c.client.Register(f)
	f.StringVar(&c.name, "name", "TeamSnap", "Server name reported to the host")
	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	cfg, err := c.LoadConfig(&c.client)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading configuration: %v", err))
		return 1
	}

	// stdout carries the protocol.
	log := hclog.New(&hclog.LoggerOptions{
		Name:   "teamsnap-mcp",
		Level:  config.LogLevel(hclog.Info),
		Output: os.Stderr,
	})

	srv, err := mcpserver.New(mcpserver.Options{
		Name:      c.name,
		ReadOnly:  cfg.ReadOnly(mcpserver.ParseReadOnly),
		NewClient: c.clientFactory(cfg, log),
		Logger:    log,
	})
	if err != nil {
		c.UI.Error(fmt.Sprintf("error creating MCP server: %v", err))
		return 1
	}

	ctx, cancel := c.SignalContext()
	defer cancel()

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("MCP server stopped", "error", err)
		return 1
	}
	return 0
}

func (c *Command) clientFactory(cfg *config.Config, log hclog.Logger) mcpserver.ClientFactory {
	return func(ctx context.Context) (mcpserver.API, error) {
		token, err := c.AccessToken(ctx, cfg, false)
		if err != nil {
			return nil, err
		}

		cc, err := cfg.ClientConfig()
		if err != nil {
			return nil, err
		}
		cc.AccessToken = token

		client, err := teamsnap.NewClient(cc, log.Named("client"))
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// Package mcpserver exposes TeamSnap operations as Model Context Protocol
// tools.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/teamsnap-tools/teamsnap/internal/version"
	"github.com/teamsnap-tools/teamsnap/pkg/teamsnap"
)

// ReadOnlyMessage is returned by every write tool while the server is in
// read-only mode.
const ReadOnlyMessage = "❌ Write operation blocked: Server is in READ-ONLY mode\n\n" +
	"To enable write operations:\n" +
	"1. Edit your .env file (or Claude Desktop config)\n" +
	"2. Set: TEAMSNAP_READONLY=false\n" +
	"3. Restart Claude Desktop\n\n" +
	"⚠️  SECURITY: Only enable writes if you trust this integration and " +
	"understand the risks of modifying your TeamSnap data."

// API is the part of *teamsnap.Client used by the tools.
type API interface {
	SearchTeams(ctx context.Context, userID int64) ([]*teamsnap.Team, error)
	GetTeam(ctx context.Context, teamID int64) (*teamsnap.Team, error)
	SearchEvents(ctx context.Context, teamID int64) ([]*teamsnap.Event, error)
	GetEvent(ctx context.Context, eventID int64) (*teamsnap.Event, error)
	SearchMembers(ctx context.Context, teamID int64) ([]*teamsnap.Member, error)
	SearchAvailabilities(ctx context.Context, eventID, memberID int64) ([]*teamsnap.Availability, error)
	SearchAssignments(ctx context.Context, teamID, eventID int64) ([]*teamsnap.Assignment, error)
	SearchLocations(ctx context.Context, teamID int64) ([]*teamsnap.Location, error)

	CreateEvent(ctx context.Context, in teamsnap.EventInput) (*teamsnap.Event, error)
	UpdateEvent(ctx context.Context, eventID int64, fields teamsnap.Fields) error
	DeleteEvent(ctx context.Context, eventID int64) error
	CreateMember(ctx context.Context, in teamsnap.MemberInput) (*teamsnap.Member, error)
	UpdateMember(ctx context.Context, memberID int64, fields teamsnap.Fields) error
	DeleteMember(ctx context.Context, memberID int64) error
	UpdateAvailability(ctx context.Context, availabilityID int64, status string) error
	CreateAssignment(ctx context.Context, in teamsnap.AssignmentInput) (*teamsnap.Assignment, error)
	UpdateAssignment(ctx context.Context, assignmentID int64, fields teamsnap.Fields) error
	DeleteAssignment(ctx context.Context, assignmentID int64) error
	CreateLocation(ctx context.Context, in teamsnap.LocationInput) (*teamsnap.Location, error)
	UpdateLocation(ctx context.Context, locationID int64, fields teamsnap.Fields) error
	DeleteLocation(ctx context.Context, locationID int64) error

	Close() error
}

var _ API = (*teamsnap.Client)(nil)

// ClientFactory returns a client for a single tool invocation. The server
// closes it when the invocation ends.
type ClientFactory func(ctx context.Context) (API, error)

// Options configures a Server.
type Options struct {
	// Name is the implementation name reported to the host. Defaults to
	// "TeamSnap".
	Name string

	// ReadOnly blocks every write tool with ReadOnlyMessage.
	ReadOnly bool

	NewClient ClientFactory
	Logger    hclog.Logger
}

// Server is an MCP server publishing the TeamSnap tools.
type Server struct {
	readOnly  bool
	newClient ClientFactory
	log       hclog.Logger

	server *mcp.Server
}

// New creates a Server with all read and write tools registered.
func New(opts Options) (*Server, error) {
	if opts.NewClient == nil {
		return nil, errors.New("client factory is required")
	}
	if opts.Name == "" {
		opts.Name = "TeamSnap"
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}

	s := &Server{
		readOnly:  opts.ReadOnly,
		newClient: opts.NewClient,
		log:       opts.Logger,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    opts.Name,
			Version: version.Version,
		}, nil),
	}
	s.registerReadTools()
	s.registerWriteTools()

	return s, nil
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}

// ReadOnly reports whether write tools are blocked.
func (s *Server) ReadOnly() bool {
	return s.readOnly
}

// Run serves the tools over stdin and stdout until ctx is done or the host
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("starting MCP server", "read_only", s.readOnly)
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// ParseReadOnly interprets the value of TEAMSNAP_READONLY. An empty value
// means read-only.
func ParseReadOnly(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return true
	}
	switch v {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

// toolFunc renders the text answer of a tool using a client.
type toolFunc func(ctx context.Context, c API) (string, error)

// addTool registers a tool whose handler returns a text result.
func addTool[In any](s *Server, name, description string, h func(ctx context.Context, in In) *mcp.CallToolResult) {
	mcp.AddTool(s.server, &mcp.Tool{Name: name, Description: description},
		func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
			s.log.Debug("tool called", "tool", name)
			return h(ctx, in), nil, nil
		})
}

// read runs fn with a fresh client. Failures become "❌ Error <action>: ..."
// results.
func (s *Server) read(ctx context.Context, action string, fn toolFunc) *mcp.CallToolResult {
	c, err := s.newClient(ctx)
	if err != nil {
		return s.failure(action, err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			s.log.Warn("error closing client", "error", err)
		}
	}()

	out, err := fn(ctx, c)
	if err != nil {
		return s.failure(action, err)
	}
	return textResult(out)
}

// write is read behind the read-only gate.
func (s *Server) write(ctx context.Context, action string, fn toolFunc) *mcp.CallToolResult {
	if s.readOnly {
		s.log.Info("write operation blocked", "action", action)
		return blockedResult()
	}
	return s.read(ctx, action, fn)
}

func (s *Server) failure(action string, err error) *mcp.CallToolResult {
	s.log.Error("tool failed", "action", action, "error", err)
	return errorResult(fmt.Sprintf("❌ Error %s: %v", action, err))
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	r := textResult(text)
	r.IsError = true
	return r
}

func blockedResult() *mcp.CallToolResult {
	return errorResult(ReadOnlyMessage)
}

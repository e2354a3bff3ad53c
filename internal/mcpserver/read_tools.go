package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/teamsnap-tools/teamsnap/pkg/teamsnap"
)

type listTeamsInput struct {
	UserID int64 `json:"user_id,omitempty" jsonschema:"optional user ID to filter teams"`
}

type teamIDInput struct {
	TeamID int64 `json:"team_id" jsonschema:"the team ID"`
}

type eventIDInput struct {
	EventID int64 `json:"event_id" jsonschema:"the event ID"`
}

// notesPreviewLen is the number of characters of event notes shown in
// listings.
const notesPreviewLen = 60

func (s *Server) registerReadTools() {
	addTool(s, "list_teams", "List all teams accessible to the authenticated user.", s.listTeams)
	addTool(s, "get_team_details", "Get detailed information about a specific team.", s.getTeamDetails)
	addTool(s, "list_events", "List all events for a team.", s.listEvents)
	addTool(s, "get_event_details", "Get detailed information about a specific event.", s.getEventDetails)
	addTool(s, "list_members", "List all members of a team.", s.listMembers)
	addTool(s, "get_event_availability", "Get member availability responses for a specific event.", s.getEventAvailability)
	addTool(s, "list_assignments", "List assignments (tasks) for an event.", s.listAssignments)
	addTool(s, "list_locations", "List all locations for a team.", s.listLocations)
}

func (s *Server) listTeams(ctx context.Context, in listTeamsInput) *mcp.CallToolResult {
	return s.read(ctx, "listing teams", func(ctx context.Context, c API) (string, error) {
		teams, err := c.SearchTeams(ctx, in.UserID)
		if err != nil {
			return "", err
		}
		if len(teams) == 0 {
			return "No teams found.", nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Found %d team(s):\n\n", len(teams))
		for _, t := range teams {
			fmt.Fprintf(&b, "**%s** (ID: %d)\n", orDefault(t.Name, "Unnamed Team"), t.ID)
			fmt.Fprintf(&b, "  - Sport: %s\n", orDefault(t.SportName, "N/A"))
			fmt.Fprintf(&b, "  - Season: %s\n", orDefault(t.SeasonName, "N/A"))
			fmt.Fprintf(&b, "  - Division: %s\n", orDefault(t.DivisionName, "N/A"))
			fmt.Fprintf(&b, "  - Location: %s\n", orDefault(t.LocationCountry, "N/A"))
			b.WriteString("\n")
		}
		return b.String(), nil
	})
}

func (s *Server) getTeamDetails(ctx context.Context, in teamIDInput) *mcp.CallToolResult {
	return s.read(ctx, "getting team details", func(ctx context.Context, c API) (string, error) {
		t, err := c.GetTeam(ctx, in.TeamID)
		if errors.Is(err, teamsnap.ErrNotFound) {
			return fmt.Sprintf("Team %d not found.", in.TeamID), nil
		}
		if err != nil {
			return "", err
		}

		var b strings.Builder
		fmt.Fprintf(&b, "**Team: %s**\n\n", orDefault(t.Name, "Unnamed"))
		fmt.Fprintf(&b, "ID: %d\n", t.ID)
		fmt.Fprintf(&b, "Sport: %s\n", orDefault(t.SportName, "N/A"))
		fmt.Fprintf(&b, "Season: %s\n", orDefault(t.SeasonName, "N/A"))
		fmt.Fprintf(&b, "Division: %s\n", orDefault(t.DivisionName, "N/A"))
		fmt.Fprintf(&b, "Location: %s\n", orDefault(t.LocationCountry, "N/A"))
		fmt.Fprintf(&b, "Time Zone: %s\n", orDefault(t.TimeZone, "N/A"))
		return b.String(), nil
	})
}

func (s *Server) listEvents(ctx context.Context, in teamIDInput) *mcp.CallToolResult {
	return s.read(ctx, "listing events", func(ctx context.Context, c API) (string, error) {
		events, err := c.SearchEvents(ctx, in.TeamID)
		if err != nil {
			return "", err
		}
		if len(events) == 0 {
			return fmt.Sprintf("No events found for team %d.", in.TeamID), nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Found %d event(s) for team %d:\n\n", len(events), in.TeamID)
		for _, e := range events {
			fmt.Fprintf(&b, "**%s** (ID: %d)\n", orDefault(e.Name, "Unnamed Event"), e.ID)
			fmt.Fprintf(&b, "  - Type: %s\n", eventType(e))
			fmt.Fprintf(&b, "  - Start: %s\n", orDefault(e.StartDate, "N/A"))
			fmt.Fprintf(&b, "  - Location: %s\n", orDefault(e.LocationName, "TBD"))
			if e.OpponentName != "" {
				fmt.Fprintf(&b, "  - Opponent: %s\n", e.OpponentName)
			}
			if e.Notes != "" {
				fmt.Fprintf(&b, "  - Notes: %s\n", preview(e.Notes, notesPreviewLen))
			}
			b.WriteString("\n")
		}
		return b.String(), nil
	})
}

func (s *Server) getEventDetails(ctx context.Context, in eventIDInput) *mcp.CallToolResult {
	return s.read(ctx, "getting event details", func(ctx context.Context, c API) (string, error) {
		e, err := c.GetEvent(ctx, in.EventID)
		if errors.Is(err, teamsnap.ErrNotFound) {
			return fmt.Sprintf("Event %d not found.", in.EventID), nil
		}
		if err != nil {
			return "", err
		}

		var b strings.Builder
		fmt.Fprintf(&b, "**Event: %s**\n\n", orDefault(e.Name, "Unnamed"))
		fmt.Fprintf(&b, "ID: %d\n", e.ID)
		fmt.Fprintf(&b, "Type: %s\n", eventType(e))
		fmt.Fprintf(&b, "Start: %s\n", orDefault(e.StartDate, "N/A"))
		fmt.Fprintf(&b, "End: %s\n", orDefault(e.EndDate, "N/A"))
		fmt.Fprintf(&b, "Location: %s\n", orDefault(e.LocationName, "TBD"))
		if e.OpponentName != "" {
			fmt.Fprintf(&b, "Opponent: %s\n", e.OpponentName)
		}
		if e.Notes != "" {
			fmt.Fprintf(&b, "\nNotes:\n%s\n", e.Notes)
		}
		return b.String(), nil
	})
}

func (s *Server) listMembers(ctx context.Context, in teamIDInput) *mcp.CallToolResult {
	return s.read(ctx, "listing members", func(ctx context.Context, c API) (string, error) {
		members, err := c.SearchMembers(ctx, in.TeamID)
		if err != nil {
			return "", err
		}
		if len(members) == 0 {
			return fmt.Sprintf("No members found for team %d.", in.TeamID), nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Found %d member(s) in team %d:\n\n", len(members), in.TeamID)
		for _, m := range members {
			fmt.Fprintf(&b, "**%s** (ID: %d)\n", orDefault(m.Name(), "Unnamed Member"), m.ID)
			if m.Email != "" {
				fmt.Fprintf(&b, "  - Email: %s\n", m.Email)
			}
			if m.Phone != "" {
				fmt.Fprintf(&b, "  - Phone: %s\n", m.Phone)
			}
			fmt.Fprintf(&b, "  - Is Manager: %t\n", m.IsManager)
			fmt.Fprintf(&b, "  - Is Non Player: %t\n", m.IsNonPlayer)
			b.WriteString("\n")
		}
		return b.String(), nil
	})
}

var availabilityHeadings = map[string]string{
	teamsnap.AvailabilityYes:     "✅ Available",
	teamsnap.AvailabilityNo:      "❌ Not Available",
	teamsnap.AvailabilityMaybe:   "❓ Maybe",
	teamsnap.AvailabilityUnknown: "⚪ No Response",
}

func (s *Server) getEventAvailability(ctx context.Context, in eventIDInput) *mcp.CallToolResult {
	return s.read(ctx, "getting event availability", func(ctx context.Context, c API) (string, error) {
		avail, err := c.SearchAvailabilities(ctx, in.EventID, 0)
		if err != nil {
			return "", err
		}
		if len(avail) == 0 {
			return fmt.Sprintf("No availability responses for event %d.", in.EventID), nil
		}

		byStatus := make(map[string][]string, len(teamsnap.AvailabilityStatuses))
		for _, a := range avail {
			status := a.Response()
			byStatus[status] = append(byStatus[status], orDefault(a.MemberName, "Unknown Member"))
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Availability for event %d:\n\n", in.EventID)
		for i, status := range teamsnap.AvailabilityStatuses {
			if i > 0 {
				b.WriteString("\n")
			}
			names := byStatus[status]
			fmt.Fprintf(&b, "%s (%d):\n", availabilityHeadings[status], len(names))
			for _, name := range names {
				fmt.Fprintf(&b, "  - %s\n", name)
			}
		}
		return b.String(), nil
	})
}

func (s *Server) listAssignments(ctx context.Context, in eventIDInput) *mcp.CallToolResult {
	return s.read(ctx, "listing assignments", func(ctx context.Context, c API) (string, error) {
		assignments, err := c.SearchAssignments(ctx, 0, in.EventID)
		if err != nil {
			return "", err
		}
		if len(assignments) == 0 {
			return fmt.Sprintf("No assignments found for event %d.", in.EventID), nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Found %d assignment(s) for event %d:\n\n", len(assignments), in.EventID)
		for _, a := range assignments {
			fmt.Fprintf(&b, "**%s** (ID: %d)\n", orDefault(a.Description, "Unnamed Assignment"), a.ID)
			fmt.Fprintf(&b, "  - Assigned to: %s\n", orDefault(a.MemberName, "N/A"))
			b.WriteString("\n")
		}
		return b.String(), nil
	})
}

func (s *Server) listLocations(ctx context.Context, in teamIDInput) *mcp.CallToolResult {
	return s.read(ctx, "listing locations", func(ctx context.Context, c API) (string, error) {
		locations, err := c.SearchLocations(ctx, in.TeamID)
		if err != nil {
			return "", err
		}
		if len(locations) == 0 {
			return fmt.Sprintf("No locations found for team %d.", in.TeamID), nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Found %d location(s) for team %d:\n\n", len(locations), in.TeamID)
		for _, l := range locations {
			fmt.Fprintf(&b, "**%s** (ID: %d)\n", orDefault(l.Name, "Unnamed Location"), l.ID)
			if l.Address != "" {
				fmt.Fprintf(&b, "  - Address: %s\n", l.Address)
			}
			if l.URL != "" {
				fmt.Fprintf(&b, "  - URL: %s\n", l.URL)
			}
			b.WriteString("\n")
		}
		return b.String(), nil
	})
}

func eventType(e *teamsnap.Event) string {
	if e.IsGame {
		return "Game"
	}
	return "Practice/Event"
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// preview cuts s to n characters, marking the cut with an ellipsis.
func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

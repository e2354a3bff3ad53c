package mcpserver

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/teamsnap-tools/teamsnap/pkg/teamsnap"
)

// NoFieldsMessage is returned by update tools called without any field.
const NoFieldsMessage = "No fields provided to update."

type createEventInput struct {
	TeamID     int64  `json:"team_id" jsonschema:"the team ID"`
	Name       string `json:"name" jsonschema:"event name"`
	StartDate  string `json:"start_date" jsonschema:"start date and time in ISO format such as 2025-01-15T14:00:00Z"`
	IsGame     bool   `json:"is_game,omitempty" jsonschema:"whether this is a game rather than a practice or other event"`
	LocationID int64  `json:"location_id,omitempty" jsonschema:"optional location ID"`
	OpponentID int64  `json:"opponent_id,omitempty" jsonschema:"optional opponent ID for games"`
	Notes      string `json:"notes,omitempty" jsonschema:"optional notes or description"`
}

func (in createEventInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.TeamID, validation.Required),
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.StartDate, validation.Required),
	)
}

type updateEventInput struct {
	EventID    int64   `json:"event_id" jsonschema:"the event ID to update"`
	Name       *string `json:"name,omitempty" jsonschema:"optional new event name"`
	StartDate  *string `json:"start_date,omitempty" jsonschema:"optional new start date and time in ISO format"`
	LocationID *int64  `json:"location_id,omitempty" jsonschema:"optional new location ID"`
	Notes      *string `json:"notes,omitempty" jsonschema:"optional new notes"`
}

type createMemberInput struct {
	TeamID    int64  `json:"team_id" jsonschema:"the team ID"`
	FirstName string `json:"first_name" jsonschema:"the member's first name"`
	LastName  string `json:"last_name" jsonschema:"the member's last name"`
	Email     string `json:"email,omitempty" jsonschema:"optional email address"`
	Phone     string `json:"phone,omitempty" jsonschema:"optional phone number"`
}

func (in createMemberInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.TeamID, validation.Required),
		validation.Field(&in.FirstName, validation.Required),
		validation.Field(&in.LastName, validation.Required),
	)
}

type updateMemberInput struct {
	MemberID  int64   `json:"member_id" jsonschema:"the member ID to update"`
	FirstName *string `json:"first_name,omitempty" jsonschema:"optional new first name"`
	LastName  *string `json:"last_name,omitempty" jsonschema:"optional new last name"`
	Email     *string `json:"email,omitempty" jsonschema:"optional new email"`
	Phone     *string `json:"phone,omitempty" jsonschema:"optional new phone number"`
}

type memberIDInput struct {
	MemberID int64 `json:"member_id" jsonschema:"the member ID"`
}

type updateAvailabilityInput struct {
	AvailabilityID int64  `json:"availability_id" jsonschema:"the availability ID to update"`
	Status         string `json:"status" jsonschema:"new status: yes, no, maybe or unknown"`
}

type createAssignmentInput struct {
	EventID     int64  `json:"event_id" jsonschema:"the event ID"`
	MemberID    int64  `json:"member_id" jsonschema:"the member ID to assign to"`
	Description string `json:"description" jsonschema:"description of the assignment"`
}

func (in createAssignmentInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.EventID, validation.Required),
		validation.Field(&in.MemberID, validation.Required),
		validation.Field(&in.Description, validation.Required),
	)
}

type updateAssignmentInput struct {
	AssignmentID int64   `json:"assignment_id" jsonschema:"the assignment ID to update"`
	Description  *string `json:"description,omitempty" jsonschema:"optional new description"`
	MemberID     *int64  `json:"member_id,omitempty" jsonschema:"optional new member ID"`
}

type assignmentIDInput struct {
	AssignmentID int64 `json:"assignment_id" jsonschema:"the assignment ID"`
}

type createLocationInput struct {
	TeamID  int64  `json:"team_id" jsonschema:"the team ID"`
	Name    string `json:"name" jsonschema:"location name"`
	Address string `json:"address,omitempty" jsonschema:"optional address"`
}

func (in createLocationInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.TeamID, validation.Required),
		validation.Field(&in.Name, validation.Required),
	)
}

type updateLocationInput struct {
	LocationID int64   `json:"location_id" jsonschema:"the location ID to update"`
	Name       *string `json:"name,omitempty" jsonschema:"optional new name"`
	Address    *string `json:"address,omitempty" jsonschema:"optional new address"`
}

type locationIDInput struct {
	LocationID int64 `json:"location_id" jsonschema:"the location ID"`
}

func (s *Server) registerWriteTools() {
	addTool(s, "create_event", "Create a new event for a team.", s.createEvent)
	addTool(s, "update_event", "Update an existing event.", s.updateEvent)
	addTool(s, "delete_event", "Delete an event.", s.deleteEvent)
	addTool(s, "create_member", "Add a new member to a team.", s.createMember)
	addTool(s, "update_member", "Update an existing team member.", s.updateMember)
	addTool(s, "delete_member", "Remove a member from a team.", s.deleteMember)
	addTool(s, "update_availability", "Update a member's availability for an event.", s.updateAvailability)
	addTool(s, "create_assignment", "Create a new assignment (task) for an event.", s.createAssignment)
	addTool(s, "update_assignment", "Update an existing assignment.", s.updateAssignment)
	addTool(s, "delete_assignment", "Delete an assignment.", s.deleteAssignment)
	addTool(s, "create_location", "Create a new location for a team.", s.createLocation)
	addTool(s, "update_location", "Update an existing location.", s.updateLocation)
	addTool(s, "delete_location", "Delete a location.", s.deleteLocation)
}

func (s *Server) createEvent(ctx context.Context, in createEventInput) *mcp.CallToolResult {
	const action = "creating event"
	if s.readOnly {
		return blockedResult()
	}
	if err := in.Validate(); err != nil {
		return s.failure(action, err)
	}

	return s.write(ctx, action, func(ctx context.Context, c API) (string, error) {
		e, err := c.CreateEvent(ctx, teamsnap.EventInput{
			TeamID:     in.TeamID,
			Name:       in.Name,
			StartDate:  in.StartDate,
			IsGame:     in.IsGame,
			LocationID: in.LocationID,
			OpponentID: in.OpponentID,
			Notes:      in.Notes,
		})
		if err != nil {
			return "", err
		}
		if e == nil {
			return "Event created but unable to retrieve details.", nil
		}

		kind := "event"
		if in.IsGame {
			kind = "game"
		}

		var b strings.Builder
		fmt.Fprintf(&b, "✅ Successfully created %s: %s\n\n", kind, in.Name)
		fmt.Fprintf(&b, "Event ID: %d\n", e.ID)
		fmt.Fprintf(&b, "Start: %s\n", in.StartDate)
		if in.LocationID != 0 {
			fmt.Fprintf(&b, "Location ID: %d\n", in.LocationID)
		}
		if in.Notes != "" {
			fmt.Fprintf(&b, "Notes: %s\n", in.Notes)
		}
		return b.String(), nil
	})
}

func (s *Server) updateEvent(ctx context.Context, in updateEventInput) *mcp.CallToolResult {
	var fields fieldList
	fields.addString("name", in.Name)
	fields.addString("start_date", in.StartDate)
	fields.addInt("location_id", in.LocationID)
	fields.addString("notes", in.Notes)

	return s.update(ctx, "updating event", "event", in.EventID, fields, API.UpdateEvent)
}

func (s *Server) deleteEvent(ctx context.Context, in eventIDInput) *mcp.CallToolResult {
	return s.write(ctx, "deleting event", func(ctx context.Context, c API) (string, error) {
		if err := c.DeleteEvent(ctx, in.EventID); err != nil {
			return "", err
		}
		return fmt.Sprintf("✅ Successfully deleted event %d", in.EventID), nil
	})
}

func (s *Server) createMember(ctx context.Context, in createMemberInput) *mcp.CallToolResult {
	const action = "creating member"
	if s.readOnly {
		return blockedResult()
	}
	if err := in.Validate(); err != nil {
		return s.failure(action, err)
	}

	return s.write(ctx, action, func(ctx context.Context, c API) (string, error) {
		m, err := c.CreateMember(ctx, teamsnap.MemberInput{
			TeamID:    in.TeamID,
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Email:     in.Email,
			Phone:     in.Phone,
		})
		if err != nil {
			return "", err
		}
		if m == nil {
			return "Member created but unable to retrieve details.", nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "✅ Successfully added member: %s %s\n\n", in.FirstName, in.LastName)
		fmt.Fprintf(&b, "Member ID: %d\n", m.ID)
		if in.Email != "" {
			fmt.Fprintf(&b, "Email: %s\n", in.Email)
		}
		if in.Phone != "" {
			fmt.Fprintf(&b, "Phone: %s\n", in.Phone)
		}
		return b.String(), nil
	})
}

func (s *Server) updateMember(ctx context.Context, in updateMemberInput) *mcp.CallToolResult {
	var fields fieldList
	fields.addString("first_name", in.FirstName)
	fields.addString("last_name", in.LastName)
	fields.addString("email", in.Email)
	fields.addString("phone", in.Phone)

	return s.update(ctx, "updating member", "member", in.MemberID, fields, API.UpdateMember)
}

func (s *Server) deleteMember(ctx context.Context, in memberIDInput) *mcp.CallToolResult {
	return s.write(ctx, "deleting member", func(ctx context.Context, c API) (string, error) {
		if err := c.DeleteMember(ctx, in.MemberID); err != nil {
			return "", err
		}
		return fmt.Sprintf("✅ Successfully removed member %d", in.MemberID), nil
	})
}

func (s *Server) updateAvailability(ctx context.Context, in updateAvailabilityInput) *mcp.CallToolResult {
	if s.readOnly {
		return blockedResult()
	}
	status := strings.ToLower(strings.TrimSpace(in.Status))
	if !teamsnap.ValidAvailabilityStatus(status) {
		return errorResult("❌ Invalid status. Must be one of: " +
			strings.Join(teamsnap.AvailabilityStatuses, ", "))
	}

	return s.write(ctx, "updating availability", func(ctx context.Context, c API) (string, error) {
		if err := c.UpdateAvailability(ctx, in.AvailabilityID, status); err != nil {
			return "", err
		}
		return fmt.Sprintf("✅ Successfully updated availability %d\nNew status: %s\n", in.AvailabilityID, status), nil
	})
}

func (s *Server) createAssignment(ctx context.Context, in createAssignmentInput) *mcp.CallToolResult {
	const action = "creating assignment"
	if s.readOnly {
		return blockedResult()
	}
	if err := in.Validate(); err != nil {
		return s.failure(action, err)
	}

	return s.write(ctx, action, func(ctx context.Context, c API) (string, error) {
		a, err := c.CreateAssignment(ctx, teamsnap.AssignmentInput{
			EventID:     in.EventID,
			MemberID:    in.MemberID,
			Description: in.Description,
		})
		if err != nil {
			return "", err
		}
		if a == nil {
			return "Assignment created but unable to retrieve details.", nil
		}

		var b strings.Builder
		b.WriteString("✅ Successfully created assignment\n\n")
		fmt.Fprintf(&b, "Assignment ID: %d\n", a.ID)
		fmt.Fprintf(&b, "Description: %s\n", in.Description)
		fmt.Fprintf(&b, "Assigned to Member ID: %d\n", in.MemberID)
		fmt.Fprintf(&b, "For Event ID: %d\n", in.EventID)
		return b.String(), nil
	})
}

func (s *Server) updateAssignment(ctx context.Context, in updateAssignmentInput) *mcp.CallToolResult {
	var fields fieldList
	fields.addString("description", in.Description)
	fields.addInt("member_id", in.MemberID)

	return s.update(ctx, "updating assignment", "assignment", in.AssignmentID, fields, API.UpdateAssignment)
}

func (s *Server) deleteAssignment(ctx context.Context, in assignmentIDInput) *mcp.CallToolResult {
	return s.write(ctx, "deleting assignment", func(ctx context.Context, c API) (string, error) {
		if err := c.DeleteAssignment(ctx, in.AssignmentID); err != nil {
			return "", err
		}
		return fmt.Sprintf("✅ Successfully deleted assignment %d", in.AssignmentID), nil
	})
}

func (s *Server) createLocation(ctx context.Context, in createLocationInput) *mcp.CallToolResult {
	const action = "creating location"
	if s.readOnly {
		return blockedResult()
	}
	if err := in.Validate(); err != nil {
		return s.failure(action, err)
	}

	return s.write(ctx, action, func(ctx context.Context, c API) (string, error) {
		l, err := c.CreateLocation(ctx, teamsnap.LocationInput{
			TeamID:  in.TeamID,
			Name:    in.Name,
			Address: in.Address,
		})
		if err != nil {
			return "", err
		}
		if l == nil {
			return "Location created but unable to retrieve details.", nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "✅ Successfully created location: %s\n\n", in.Name)
		fmt.Fprintf(&b, "Location ID: %d\n", l.ID)
		if in.Address != "" {
			fmt.Fprintf(&b, "Address: %s\n", in.Address)
		}
		return b.String(), nil
	})
}

func (s *Server) updateLocation(ctx context.Context, in updateLocationInput) *mcp.CallToolResult {
	var fields fieldList
	fields.addString("name", in.Name)
	fields.addString("address", in.Address)

	return s.update(ctx, "updating location", "location", in.LocationID, fields, API.UpdateLocation)
}

func (s *Server) deleteLocation(ctx context.Context, in locationIDInput) *mcp.CallToolResult {
	return s.write(ctx, "deleting location", func(ctx context.Context, c API) (string, error) {
		if err := c.DeleteLocation(ctx, in.LocationID); err != nil {
			return "", err
		}
		return fmt.Sprintf("✅ Successfully deleted location %d", in.LocationID), nil
	})
}

// update applies fields to the resource kind/id with fn and lists the
// changed fields in the order they were added.
func (s *Server) update(
	ctx context.Context,
	action, kind string,
	id int64,
	fields fieldList,
	fn func(API, context.Context, int64, teamsnap.Fields) error,
) *mcp.CallToolResult {
	if s.readOnly {
		return blockedResult()
	}
	if len(fields) == 0 {
		return textResult(NoFieldsMessage)
	}

	return s.write(ctx, action, func(ctx context.Context, c API) (string, error) {
		if err := fn(c, ctx, id, fields.Fields()); err != nil {
			return "", err
		}

		var b strings.Builder
		fmt.Fprintf(&b, "✅ Successfully updated %s %d\n\n", kind, id)
		b.WriteString("Updated fields:\n")
		for _, f := range fields {
			fmt.Fprintf(&b, "  - %s: %v\n", f.key, f.value)
		}
		return b.String(), nil
	})
}

type field struct {
	key   string
	value any
}

// fieldList holds the provided update fields in a stable order.
type fieldList []field

func (l *fieldList) addString(key string, v *string) {
	if v != nil {
		*l = append(*l, field{key, *v})
	}
}

func (l *fieldList) addInt(key string, v *int64) {
	if v != nil {
		*l = append(*l, field{key, *v})
	}
}

func (l fieldList) Fields() teamsnap.Fields {
	out := make(teamsnap.Fields, len(l))
	for _, f := range l {
		out[f.key] = f.value
	}
	return out
}

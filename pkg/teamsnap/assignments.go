package teamsnap

import (
	"context"
	"fmt"
)

// AssignmentInput holds the attributes of a new assignment.
type AssignmentInput struct {
	EventID     int64  `json:"event_id"`
	MemberID    int64  `json:"member_id"`
	Description string `json:"description"`
}

// SearchAssignments lists assignments by team, event or both.
func (c *Client) SearchAssignments(ctx context.Context, teamID, eventID int64) ([]*Assignment, error) {
	assignments, err := search[Assignment](ctx, c, "/assignments/search", idQuery(map[string]int64{
		"team_id":  teamID,
		"event_id": eventID,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to search assignments: %w", err)
	}
	return assignments, nil
}

// CreateAssignment assigns a task for an event to a member. It returns nil
// when the API does not echo the created assignment.
func (c *Client) CreateAssignment(ctx context.Context, in AssignmentInput) (*Assignment, error) {
	a, err := create[Assignment](ctx, c, "/assignments", in)
	if err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}
	return a, nil
}

// UpdateAssignment changes the given fields of an assignment.
func (c *Client) UpdateAssignment(ctx context.Context, assignmentID int64, fields Fields) error {
	if _, err := c.Patch(ctx, resourcePath("assignments", assignmentID), fields); err != nil {
		return fmt.Errorf("failed to update assignment %d: %w", assignmentID, err)
	}
	return nil
}

// DeleteAssignment deletes an assignment.
func (c *Client) DeleteAssignment(ctx context.Context, assignmentID int64) error {
	if _, err := c.Delete(ctx, resourcePath("assignments", assignmentID)); err != nil {
		return fmt.Errorf("failed to delete assignment %d: %w", assignmentID, err)
	}
	return nil
}

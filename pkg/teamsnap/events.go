package teamsnap

import (
	"context"
	"fmt"
)

// EventInput holds the attributes of a new event.
type EventInput struct {
	TeamID int64  `json:"team_id"`
	Name   string `json:"name"`
	// StartDate is an ISO 8601 timestamp such as "2025-01-15T14:00:00Z".
	StartDate  string `json:"start_date"`
	IsGame     bool   `json:"is_game"`
	LocationID int64  `json:"location_id,omitempty"`
	OpponentID int64  `json:"opponent_id,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// SearchEvents lists the events of a team.
func (c *Client) SearchEvents(ctx context.Context, teamID int64) ([]*Event, error) {
	events, err := search[Event](ctx, c, "/events/search", idQuery(map[string]int64{
		"team_id": teamID,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to search events: %w", err)
	}
	return events, nil
}

// GetEvent returns the event with the given id.
func (c *Client) GetEvent(ctx context.Context, eventID int64) (*Event, error) {
	e, err := get[Event](ctx, c, resourcePath("events", eventID))
	if err != nil {
		return nil, fmt.Errorf("failed to get event %d: %w", eventID, err)
	}
	return e, nil
}

// CreateEvent schedules a new event. It returns nil when the API does not
// echo the created event.
func (c *Client) CreateEvent(ctx context.Context, in EventInput) (*Event, error) {
	e, err := create[Event](ctx, c, "/events", in)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return e, nil
}

// UpdateEvent changes the given fields of an event.
func (c *Client) UpdateEvent(ctx context.Context, eventID int64, fields Fields) error {
	if _, err := c.Patch(ctx, resourcePath("events", eventID), fields); err != nil {
		return fmt.Errorf("failed to update event %d: %w", eventID, err)
	}
	return nil
}

// DeleteEvent deletes an event.
func (c *Client) DeleteEvent(ctx context.Context, eventID int64) error {
	if _, err := c.Delete(ctx, resourcePath("events", eventID)); err != nil {
		return fmt.Errorf("failed to delete event %d: %w", eventID, err)
	}
	return nil
}

package teamsnap

import (
	"context"
	"fmt"
)

// LocationInput holds the attributes of a new location.
type LocationInput struct {
	TeamID  int64  `json:"team_id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// SearchLocations lists the locations of a team.
func (c *Client) SearchLocations(ctx context.Context, teamID int64) ([]*Location, error) {
	locations, err := search[Location](ctx, c, "/locations/search", idQuery(map[string]int64{
		"team_id": teamID,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to search locations: %w", err)
	}
	return locations, nil
}

// CreateLocation adds a location to a team. It returns nil when the API does
// not echo the created location.
func (c *Client) CreateLocation(ctx context.Context, in LocationInput) (*Location, error) {
	l, err := create[Location](ctx, c, "/locations", in)
	if err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}
	return l, nil
}

// UpdateLocation changes the given fields of a location.
func (c *Client) UpdateLocation(ctx context.Context, locationID int64, fields Fields) error {
	if _, err := c.Patch(ctx, resourcePath("locations", locationID), fields); err != nil {
		return fmt.Errorf("failed to update location %d: %w", locationID, err)
	}
	return nil
}

// DeleteLocation deletes a location.
func (c *Client) DeleteLocation(ctx context.Context, locationID int64) error {
	if _, err := c.Delete(ctx, resourcePath("locations", locationID)); err != nil {
		return fmt.Errorf("failed to delete location %d: %w", locationID, err)
	}
	return nil
}

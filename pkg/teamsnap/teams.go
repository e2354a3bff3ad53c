package teamsnap

import (
	"context"
	"fmt"
)

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	u, err := get[User](ctx, c, "/me")
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return u, nil
}

// GetUser returns the user with the given id.
func (c *Client) GetUser(ctx context.Context, userID int64) (*User, error) {
	u, err := get[User](ctx, c, resourcePath("users", userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	return u, nil
}

// SearchTeams lists teams, optionally restricted to those of userID.
func (c *Client) SearchTeams(ctx context.Context, userID int64) ([]*Team, error) {
	teams, err := search[Team](ctx, c, "/teams/search", idQuery(map[string]int64{
		"user_id": userID,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to search teams: %w", err)
	}
	return teams, nil
}

// GetTeam returns the team with the given id.
func (c *Client) GetTeam(ctx context.Context, teamID int64) (*Team, error) {
	t, err := get[Team](ctx, c, resourcePath("teams", teamID))
	if err != nil {
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	return t, nil
}

// SearchOpponents lists the opponents of a team.
func (c *Client) SearchOpponents(ctx context.Context, teamID int64) ([]*Opponent, error) {
	opponents, err := search[Opponent](ctx, c, "/opponents/search", idQuery(map[string]int64{
		"team_id": teamID,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to search opponents: %w", err)
	}
	return opponents, nil
}

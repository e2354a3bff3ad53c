package teamsnap

import (
	"context"
	"fmt"
)

// MemberInput holds the attributes of a new member.
type MemberInput struct {
	TeamID    int64  `json:"team_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// SearchMembers lists the members of a team.
func (c *Client) SearchMembers(ctx context.Context, teamID int64) ([]*Member, error) {
	members, err := search[Member](ctx, c, "/members/search", idQuery(map[string]int64{
		"team_id": teamID,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to search members: %w", err)
	}
	return members, nil
}

// GetMember returns the member with the given id.
func (c *Client) GetMember(ctx context.Context, memberID int64) (*Member, error) {
	m, err := get[Member](ctx, c, resourcePath("members", memberID))
	if err != nil {
		return nil, fmt.Errorf("failed to get member %d: %w", memberID, err)
	}
	return m, nil
}

// CreateMember adds a member to a team. It returns nil when the API does not
// echo the created member.
func (c *Client) CreateMember(ctx context.Context, in MemberInput) (*Member, error) {
	m, err := create[Member](ctx, c, "/members", in)
	if err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}
	return m, nil
}

// UpdateMember changes the given fields of a member.
func (c *Client) UpdateMember(ctx context.Context, memberID int64, fields Fields) error {
	if _, err := c.Patch(ctx, resourcePath("members", memberID), fields); err != nil {
		return fmt.Errorf("failed to update member %d: %w", memberID, err)
	}
	return nil
}

// DeleteMember removes a member from its team.
func (c *Client) DeleteMember(ctx context.Context, memberID int64) error {
	if _, err := c.Delete(ctx, resourcePath("members", memberID)); err != nil {
		return fmt.Errorf("failed to delete member %d: %w", memberID, err)
	}
	return nil
}

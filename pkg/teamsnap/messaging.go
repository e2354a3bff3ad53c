package teamsnap

import (
	"context"
	"fmt"
)

// SearchForumTopics lists the message board topics of a team.
func (c *Client) SearchForumTopics(ctx context.Context, teamID int64) ([]*ForumTopic, error) {
	topics, err := search[ForumTopic](ctx, c, "/forum_topics/search", idQuery(map[string]int64{
		"team_id": teamID,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to search forum topics: %w", err)
	}
	return topics, nil
}

// SearchForumPosts lists forum posts by team, topic or both.
func (c *Client) SearchForumPosts(ctx context.Context, teamID, forumTopicID int64) ([]*ForumPost, error) {
	posts, err := search[ForumPost](ctx, c, "/forum_posts/search", idQuery(map[string]int64{
		"team_id":        teamID,
		"forum_topic_id": forumTopicID,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to search forum posts: %w", err)
	}
	return posts, nil
}

// SearchBroadcastEmails lists the broadcast emails of a team.
func (c *Client) SearchBroadcastEmails(ctx context.Context, teamID int64) ([]*BroadcastEmail, error) {
	emails, err := search[BroadcastEmail](ctx, c, "/broadcast_emails/search", idQuery(map[string]int64{
		"team_id": teamID,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to search broadcast emails: %w", err)
	}
	return emails, nil
}

// SearchMessages lists the messages of a team.
func (c *Client) SearchMessages(ctx context.Context, teamID int64) ([]*Message, error) {
	messages, err := search[Message](ctx, c, "/messages/search", idQuery(map[string]int64{
		"team_id": teamID,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to search messages: %w", err)
	}
	return messages, nil
}

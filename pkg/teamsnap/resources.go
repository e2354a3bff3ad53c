package teamsnap

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/teamsnap-tools/teamsnap/pkg/collection"
)

// Fields is a set of attributes sent with an update request.
type Fields map[string]any

// User is a TeamSnap account.
type User struct {
	ID        int64  `mapstructure:"id"`
	FirstName string `mapstructure:"first_name"`
	LastName  string `mapstructure:"last_name"`
	Email     string `mapstructure:"email"`
	Birthday  string `mapstructure:"birthday"`

	Extra map[string]any `mapstructure:",remain"`
}

// Name returns the user's full name.
func (u *User) Name() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Team is a TeamSnap team.
type Team struct {
	ID              int64  `mapstructure:"id"`
	Name            string `mapstructure:"name"`
	SportName       string `mapstructure:"sport_name"`
	SeasonName      string `mapstructure:"season_name"`
	DivisionName    string `mapstructure:"division_name"`
	LocationCountry string `mapstructure:"location_country"`
	TimeZone        string `mapstructure:"time_zone"`
	IsRetired       bool   `mapstructure:"is_retired"`

	Extra map[string]any `mapstructure:",remain"`
}

// Member is a player or non-player on a team roster.
type Member struct {
	ID           int64  `mapstructure:"id"`
	TeamID       int64  `mapstructure:"team_id"`
	FirstName    string `mapstructure:"first_name"`
	LastName     string `mapstructure:"last_name"`
	Email        string `mapstructure:"email"`
	Phone        string `mapstructure:"phone"`
	Position     string `mapstructure:"position"`
	JerseyNumber string `mapstructure:"jersey_number"`
	IsManager    bool   `mapstructure:"is_manager"`
	IsNonPlayer  bool   `mapstructure:"is_non_player"`

	Extra map[string]any `mapstructure:",remain"`
}

// Name returns the member's full name.
func (m *Member) Name() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// Event is a game, practice or other scheduled event.
type Event struct {
	ID           int64  `mapstructure:"id"`
	TeamID       int64  `mapstructure:"team_id"`
	Name         string `mapstructure:"name"`
	Type         string `mapstructure:"type"`
	IsGame       bool   `mapstructure:"is_game"`
	StartDate    string `mapstructure:"start_date"`
	EndDate      string `mapstructure:"end_date"`
	LocationID   int64  `mapstructure:"location_id"`
	LocationName string `mapstructure:"location_name"`
	OpponentID   int64  `mapstructure:"opponent_id"`
	OpponentName string `mapstructure:"opponent_name"`
	Notes        string `mapstructure:"notes"`

	Extra map[string]any `mapstructure:",remain"`
}

// Availability is a member's response to an event.
type Availability struct {
	ID         int64  `mapstructure:"id"`
	EventID    int64  `mapstructure:"event_id"`
	MemberID   int64  `mapstructure:"member_id"`
	MemberName string `mapstructure:"member_name"`
	StatusCode string `mapstructure:"status_code"`
	Status     string `mapstructure:"status"`

	Extra map[string]any `mapstructure:",remain"`
}

// Assignment is a task assigned to a member for an event.
type Assignment struct {
	ID          int64  `mapstructure:"id"`
	EventID     int64  `mapstructure:"event_id"`
	MemberID    int64  `mapstructure:"member_id"`
	MemberName  string `mapstructure:"member_name"`
	Description string `mapstructure:"description"`
	Position    string `mapstructure:"position"`

	Extra map[string]any `mapstructure:",remain"`
}

// Location is a venue used by a team.
type Location struct {
	ID      int64  `mapstructure:"id"`
	TeamID  int64  `mapstructure:"team_id"`
	Name    string `mapstructure:"name"`
	Address string `mapstructure:"address"`
	URL     string `mapstructure:"url"`

	Extra map[string]any `mapstructure:",remain"`
}

// Opponent is a team played against.
type Opponent struct {
	ID     int64  `mapstructure:"id"`
	TeamID int64  `mapstructure:"team_id"`
	Name   string `mapstructure:"name"`
	Notes  string `mapstructure:"notes"`

	Extra map[string]any `mapstructure:",remain"`
}

// ForumTopic is a message board thread.
type ForumTopic struct {
	ID             int64  `mapstructure:"id"`
	TeamID         int64  `mapstructure:"team_id"`
	Title          string `mapstructure:"title"`
	IsAnnouncement bool   `mapstructure:"is_announcement"`
	CreatedAt      string `mapstructure:"created_at"`

	Extra map[string]any `mapstructure:",remain"`
}

// ForumPost is a reply in a forum topic.
type ForumPost struct {
	ID           int64  `mapstructure:"id"`
	ForumTopicID int64  `mapstructure:"forum_topic_id"`
	Message      string `mapstructure:"message"`
	PosterName   string `mapstructure:"poster_name"`
	CreatedAt    string `mapstructure:"created_at"`

	Extra map[string]any `mapstructure:",remain"`
}

// BroadcastEmail is an email sent to a team.
type BroadcastEmail struct {
	ID          int64  `mapstructure:"id"`
	Subject     string `mapstructure:"subject"`
	SenderEmail string `mapstructure:"sender_email"`
	SentAt      string `mapstructure:"sent_at"`
	Body        string `mapstructure:"body"`

	Extra map[string]any `mapstructure:",remain"`
}

// Message is a team message.
type Message struct {
	ID         int64  `mapstructure:"id"`
	Title      string `mapstructure:"title"`
	SenderName string `mapstructure:"sender_name"`
	CreatedAt  string `mapstructure:"created_at"`

	Extra map[string]any `mapstructure:",remain"`
}

// decodeItems maps every item of resp onto a new T.
func decodeItems[T any](resp *collection.Response) ([]*T, error) {
	items := resp.Items()
	out := make([]*T, 0, len(items))
	for _, d := range items {
		v := new(T)
		if err := collection.Decode(d, v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// decodeFirst maps the first item of resp onto a new T. It returns nil when
// the response has no items.
func decodeFirst[T any](resp *collection.Response) (*T, error) {
	d, ok := resp.First()
	if !ok {
		return nil, nil
	}
	v := new(T)
	if err := collection.Decode(d, v); err != nil {
		return nil, err
	}
	return v, nil
}

func search[T any](ctx context.Context, c *Client, endpoint string, query url.Values) ([]*T, error) {
	resp, err := c.Get(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}
	return decodeItems[T](resp)
}

func get[T any](ctx context.Context, c *Client, endpoint string) (*T, error) {
	resp, err := c.Get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	v, err := decodeFirst[T](resp)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrNotFound
	}
	return v, nil
}

func create[T any](ctx context.Context, c *Client, endpoint string, body any) (*T, error) {
	resp, err := c.Post(ctx, endpoint, body)
	if err != nil {
		return nil, err
	}
	return decodeFirst[T](resp)
}

// idQuery builds a search query from id parameters, leaving out zero ids.
func idQuery(params map[string]int64) url.Values {
	q := url.Values{}
	for name, id := range params {
		if id != 0 {
			q.Set(name, strconv.FormatInt(id, 10))
		}
	}
	return q
}

func resourcePath(kind string, id int64) string {
	return fmt.Sprintf("/%s/%d", kind, id)
}

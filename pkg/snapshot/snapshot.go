// Package snapshot records the set of relations advertised by the API root
// and reports how it changed between two recordings.
package snapshot

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/teamsnap-tools/teamsnap/pkg/collection"
)

// Endpoint describes one advertised link, query or command.
type Endpoint struct {
	Rel        string `json:"rel"`
	Href       string `json:"href"`
	Method     string `json:"method,omitempty"`
	Deprecated bool   `json:"deprecated,omitempty"`
}

// Endpoints groups the relations of the API root by kind.
type Endpoints struct {
	Links    []Endpoint `json:"links"`
	Queries  []Endpoint `json:"queries"`
	Commands []Endpoint `json:"commands"`
}

// Snapshot is the state of the API root at a point in time.
type Snapshot struct {
	Timestamp           Timestamp  `json:"timestamp"`
	Version             string     `json:"version"`
	Endpoints           Endpoints  `json:"endpoints"`
	DeprecatedCount     int        `json:"deprecated_count"`
	DeprecatedEndpoints []Endpoint `json:"deprecated_endpoints"`
	TotalLinks          int        `json:"total_links"`
	TotalQueries        int        `json:"total_queries"`
	TotalCommands       int        `json:"total_commands"`
}

// Capture builds a Snapshot from the API root response.
func Capture(root *collection.Response, now time.Time) *Snapshot {
	s := &Snapshot{
		Timestamp: Timestamp{Time: now},
		Version:   root.Version(),
		Endpoints: Endpoints{
			Links:    []Endpoint{},
			Queries:  []Endpoint{},
			Commands: []Endpoint{},
		},
		DeprecatedEndpoints: []Endpoint{},
	}

	for _, l := range root.Links() {
		e := Endpoint{Rel: l.Rel, Href: l.Href, Deprecated: l.Deprecated}
		s.Endpoints.Links = append(s.Endpoints.Links, e)
		if l.Deprecated {
			s.DeprecatedEndpoints = append(s.DeprecatedEndpoints, e)
		}
	}
	for _, q := range root.Queries() {
		s.Endpoints.Queries = append(s.Endpoints.Queries, Endpoint{Rel: q.Rel, Href: q.Href})
	}
	for _, c := range root.Commands() {
		s.Endpoints.Commands = append(s.Endpoints.Commands, Endpoint{Rel: c.Rel, Href: c.Href, Method: c.Method})
	}

	s.DeprecatedCount = len(s.DeprecatedEndpoints)
	s.TotalLinks = len(s.Endpoints.Links)
	s.TotalQueries = len(s.Endpoints.Queries)
	s.TotalCommands = len(s.Endpoints.Commands)

	return s
}

// Timestamp is a time that marshals as RFC 3339 and unmarshals from any
// common date layout, including ISO 8601 timestamps without a zone.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if strings.TrimSpace(s) == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := dateparse.ParseIn(s, time.Local)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) String() string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Time.Format(time.RFC3339)
}

package teamsnap

import (
	"context"
	"fmt"
	"strings"
)

// Availability statuses accepted by UpdateAvailability.
const (
	AvailabilityYes     = "yes"
	AvailabilityNo      = "no"
	AvailabilityMaybe   = "maybe"
	AvailabilityUnknown = "unknown"
)

// AvailabilityStatuses lists the valid statuses in display order.
var AvailabilityStatuses = []string{
	AvailabilityYes,
	AvailabilityNo,
	AvailabilityMaybe,
	AvailabilityUnknown,
}

// ValidAvailabilityStatus reports whether status, ignoring case, is one of
// AvailabilityStatuses.
func ValidAvailabilityStatus(status string) bool {
	s := strings.ToLower(status)
	for _, v := range AvailabilityStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Response returns the member's answer as one of AvailabilityStatuses. The
// API reports it either as a status word or as a numeric code.
func (a *Availability) Response() string {
	code := strings.ToLower(strings.TrimSpace(a.StatusCode))
	switch code {
	case AvailabilityYes, "1":
		return AvailabilityYes
	case AvailabilityNo, "0":
		return AvailabilityNo
	case AvailabilityMaybe, "2":
		return AvailabilityMaybe
	case AvailabilityUnknown:
		return AvailabilityUnknown
	}
	if s := strings.ToLower(a.Status); ValidAvailabilityStatus(s) {
		return s
	}
	return AvailabilityUnknown
}

// SearchAvailabilities lists availabilities by event, member or both.
func (c *Client) SearchAvailabilities(ctx context.Context, eventID, memberID int64) ([]*Availability, error) {
	avail, err := search[Availability](ctx, c, "/availabilities/search", idQuery(map[string]int64{
		"event_id":  eventID,
		"member_id": memberID,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to search availabilities: %w", err)
	}
	return avail, nil
}

// UpdateAvailability sets a member's response to an event.
func (c *Client) UpdateAvailability(ctx context.Context, availabilityID int64, status string) error {
	status = strings.ToLower(status)
	if !ValidAvailabilityStatus(status) {
		return fmt.Errorf("invalid availability status %q: must be one of %s",
			status, strings.Join(AvailabilityStatuses, ", "))
	}

	if _, err := c.Patch(ctx, resourcePath("availabilities", availabilityID), Fields{"status": status}); err != nil {
		return fmt.Errorf("failed to update availability %d: %w", availabilityID, err)
	}
	return nil
}

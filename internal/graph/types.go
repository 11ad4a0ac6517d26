package graph

import (
	"strings"
	"time"
)

// graphTimeLayout is the naive local-time format Graph expects in
// dateTimeTimeZone values; the zone travels in the separate TimeZone field.
const graphTimeLayout = "2006-01-02T15:04:05"

// dateTimeTimeZone is the Graph representation of a zoned timestamp.
type dateTimeTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// itemBody is the Graph event body.
type itemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// emailAddress is a Graph email address with optional display name.
type emailAddress struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

// attendee is a Graph event attendee.
type attendee struct {
	EmailAddress emailAddress `json:"emailAddress"`
	Type         string       `json:"type"`
}

// recipient wraps an email address in list responses.
type recipient struct {
	EmailAddress emailAddress `json:"emailAddress"`
}

// eventPayload is the request body for POST /me/events.
type eventPayload struct {
	Subject               string           `json:"subject"`
	Body                  itemBody         `json:"body"`
	Start                 dateTimeTimeZone `json:"start"`
	End                   dateTimeTimeZone `json:"end"`
	Attendees             []attendee       `json:"attendees"`
	IsOnlineMeeting       bool             `json:"isOnlineMeeting"`
	OnlineMeetingProvider string           `json:"onlineMeetingProvider,omitempty"`
}

// eventResource is the subset of a Graph event we consume.
type eventResource struct {
	ID        string           `json:"id"`
	Subject   string           `json:"subject"`
	Start     dateTimeTimeZone `json:"start"`
	End       dateTimeTimeZone `json:"end"`
	Organizer *recipient       `json:"organizer"`
}

// messageResource is the subset of a Graph mail message we consume.
type messageResource struct {
	Subject string     `json:"subject"`
	From    *recipient `json:"from"`
	IsRead  bool       `json:"isRead"`
}

// listResponse is the envelope of Graph collection responses.
type listResponse[T any] struct {
	Value []T `json:"value"`
}

// EventSummary is a simplified calendar event for listing.
type EventSummary struct {
	ID        string
	Subject   string
	Start     time.Time
	End       time.Time
	Organizer string
}

// MessageSummary is a simplified mail message for listing.
type MessageSummary struct {
	Subject string
	From    string
	Read    bool
}

// toEventSummary converts a Graph event resource to an EventSummary.
func toEventSummary(e eventResource) EventSummary {
	summary := EventSummary{
		ID:      e.ID,
		Subject: e.Subject,
	}
	if t, ok := parseGraphTime(e.Start.DateTime); ok {
		summary.Start = t
	}
	if t, ok := parseGraphTime(e.End.DateTime); ok {
		summary.End = t
	}
	if e.Organizer != nil {
		summary.Organizer = e.Organizer.EmailAddress.Address
	}
	return summary
}

// toMessageSummary converts a Graph message resource to a MessageSummary.
func toMessageSummary(m messageResource) MessageSummary {
	summary := MessageSummary{
		Subject: m.Subject,
		Read:    m.IsRead,
	}
	if m.From != nil {
		if m.From.EmailAddress.Name != "" {
			summary.From = m.From.EmailAddress.Name
		} else {
			summary.From = m.From.EmailAddress.Address
		}
	}
	return summary
}

// parseGraphTime parses Graph datetime strings, which come back either as
// RFC 3339 or as naive timestamps with a fractional-second suffix.
func parseGraphTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	s = strings.TrimSuffix(s, "Z")
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.9999999", graphTimeLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

package schedule

import (
	"time"

	"github.com/teemow/schedassist/internal/meeting"
)

// Clock abstracts the current time so policy decisions can be tested with a
// fixed clock.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now in UTC.
type SystemClock struct{}

// Now returns the current time in UTC.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// ClockTime is a wall-clock hint (hour and minute) without a date.
type ClockTime struct {
	Hour   int
	Minute int
}

// DefaultSlot is the 6 PM policy applied when a message implies a fixed
// display slot but no explicit time was parsed.
var DefaultSlot = ClockTime{Hour: 18}

// ResolveSlot returns the next occurrence of the hinted wall-clock time:
// today if the slot has not passed yet, otherwise tomorrow. The boundary is
// inclusive-past, so a call at exactly the hinted time resolves to tomorrow.
func ResolveSlot(now time.Time, hint ClockTime) time.Time {
	slot := time.Date(now.Year(), now.Month(), now.Day(), hint.Hour, hint.Minute, 0, 0, now.Location())
	if !now.Before(slot) {
		slot = slot.AddDate(0, 0, 1)
	}
	return slot
}

// Apply fills the policy defaults on a partially specified meeting request:
// the next default slot when no start was extracted, the default duration,
// subject and timezone. An empty participant list is left as is; a meeting
// may be created with no explicit attendees beyond the organizer-side
// recipient.
func Apply(req *meeting.Request, now time.Time) {
	if req.Start.IsZero() {
		req.Start = ResolveSlot(now, DefaultSlot)
	}
	if req.DurationMinutes <= 0 {
		req.DurationMinutes = meeting.DefaultDurationMinutes
	}
	if req.Subject == "" {
		req.Subject = meeting.DefaultSubject
	}
	if req.TimeZone == "" {
		req.TimeZone = meeting.TimeZone
	}
}

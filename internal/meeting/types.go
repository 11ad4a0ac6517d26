package meeting

import (
	"fmt"
	"time"
)

// Default values applied when extraction leaves a field unspecified.
const (
	DefaultSubject         = "Meeting"
	DefaultDurationMinutes = 60

	// TBD is the sentinel for interview fields the oracle could not extract.
	TBD = "TBD"

	// TimeZone is the fixed timezone for all scheduled events.
	TimeZone = "UTC"
)

// Request represents a normalized meeting to be created in the calendar.
// Start must be resolved to a concrete instant before the request is
// dispatched to the calendar gateway.
type Request struct {
	Subject         string
	Participants    []string
	Start           time.Time
	DurationMinutes int
	TimeZone        string
}

// End returns the end time of the meeting (Start + duration).
func (r Request) End() time.Time {
	return r.Start.Add(time.Duration(r.DurationMinutes) * time.Minute)
}

// Resolved reports whether the request has a concrete start time.
func (r Request) Resolved() bool {
	return !r.Start.IsZero()
}

// InterviewDetails holds the free-text fields extracted from an interview
// scheduling message. Fields default to TBD when the oracle could not
// extract them. The struct lives only for the duration of one scheduling
// attempt and is never persisted.
type InterviewDetails struct {
	Candidate   string
	Position    string
	Interviewer string
}

// DefaultInterviewDetails returns details with all fields set to TBD.
func DefaultInterviewDetails() InterviewDetails {
	return InterviewDetails{
		Candidate:   TBD,
		Position:    TBD,
		Interviewer: TBD,
	}
}

// Subject builds the event subject line for an interview.
func (d InterviewDetails) Subject() string {
	return fmt.Sprintf("Interview - %s for %s", d.Candidate, d.Position)
}

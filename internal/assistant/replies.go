package assistant

import (
	"fmt"
	"strings"
	"time"

	"github.com/teemow/schedassist/internal/graph"
	"github.com/teemow/schedassist/internal/meeting"
)

// slotFormat renders a slot like "January 2 at 6:00 PM".
const slotFormat = "January 2 at 3:04 PM"

// interviewScheduledReply builds the confirmation for a scheduled interview.
func interviewScheduledReply(slot time.Time, details meeting.InterviewDetails) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Interview scheduled for %s!\n\n", slot.Format(slotFormat))
	b.WriteString("Details:\n")
	fmt.Fprintf(&b, "- Candidate: %s\n", details.Candidate)
	fmt.Fprintf(&b, "- Position: %s\n", details.Position)
	fmt.Fprintf(&b, "- Duration: %d minutes\n\n", meeting.DefaultDurationMinutes)
	b.WriteString("Calendar invite sent!")
	return b.String()
}

// meetingCreatedReply builds the confirmation for a generic meeting.
func meetingCreatedReply(req meeting.Request) string {
	return fmt.Sprintf("Meeting created: %s on %s (%d minutes).",
		req.Subject, req.Start.Format(slotFormat), req.DurationMinutes)
}

// eventListReply formats a calendar window; an empty window is a normal
// answer, not an error.
func eventListReply(events []graph.EventSummary) string {
	if len(events) == 0 {
		return "No meetings today"
	}
	var b strings.Builder
	b.WriteString("Today's meetings:\n")
	for _, e := range events {
		subject := e.Subject
		if subject == "" {
			subject = "No subject"
		}
		fmt.Fprintf(&b, "- %s: %s\n", e.Start.Format("3:04 PM"), subject)
	}
	return strings.TrimRight(b.String(), "\n")
}

// emailListReply formats recent inbox messages.
func emailListReply(messages []graph.MessageSummary) string {
	if len(messages) == 0 {
		return "No emails found"
	}
	var b strings.Builder
	b.WriteString("Recent emails:\n")
	for _, m := range messages {
		from := m.From
		if from == "" {
			from = "Unknown"
		}
		subject := m.Subject
		if subject == "" {
			subject = "No subject"
		}
		fmt.Fprintf(&b, "- %s: %s", from, subject)
		if !m.Read {
			b.WriteString(" (unread)")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

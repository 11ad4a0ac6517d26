package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/schedassist/internal/graph"
	"github.com/teemow/schedassist/internal/llm"
	"github.com/teemow/schedassist/internal/meeting"
)

// fixedClock returns a constant time for deterministic policy decisions.
type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// fakeOracle returns canned completions keyed by nothing; the last request
// is recorded for assertions.
type fakeOracle struct {
	output string
	err    error

	lastRequest llm.CompletionRequest
}

func (f *fakeOracle) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	f.lastRequest = req
	return f.output, f.err
}

// fakeCalendar records calls and returns configured results.
type fakeCalendar struct {
	createOutcome graph.Outcome
	deleteOutcome graph.Outcome
	events        []graph.EventSummary
	messages      []graph.MessageSummary
	listErr       error

	createdReq       meeting.Request
	createdDetails   meeting.InterviewDetails
	createdRequester string
	deletedSubject   string
	listedTop        int
}

func (f *fakeCalendar) CreateEvent(_ context.Context, req meeting.Request, details meeting.InterviewDetails, requester string) graph.Outcome {
	f.createdReq = req
	f.createdDetails = details
	f.createdRequester = requester
	return f.createOutcome
}

func (f *fakeCalendar) ListEvents(_ context.Context, _, _ time.Time) ([]graph.EventSummary, error) {
	return f.events, f.listErr
}

func (f *fakeCalendar) ListMessages(_ context.Context, top int) ([]graph.MessageSummary, error) {
	f.listedTop = top
	return f.messages, f.listErr
}

func (f *fakeCalendar) DeleteEventBySubject(_ context.Context, subject string) graph.Outcome {
	f.deletedSubject = subject
	return f.deleteOutcome
}

func newTestAssistant(t *testing.T, oracle Oracle, calendar Calendar, now time.Time) *Assistant {
	t.Helper()
	a, err := New(Config{
		Oracle:   oracle,
		Calendar: calendar,
		Clock:    fixedClock{now: now},
	})
	require.NoError(t, err)
	return a
}

func TestNewValidation(t *testing.T) {
	_, err := New(Config{Calendar: &fakeCalendar{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle is required")

	_, err = New(Config{Oracle: &fakeOracle{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calendar is required")
}

func TestHandleTurnScheduleInterview(t *testing.T) {
	morning := time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)
	oracle := &fakeOracle{output: `{"candidate": "Jane Doe", "position": "Backend Engineer", "interviewer": "Bob"}`}
	calendar := &fakeCalendar{createOutcome: graph.Created("abc123")}

	a := newTestAssistant(t, oracle, calendar, morning)
	reply := a.HandleTurn(context.Background(), "schedule an interview with Jane Doe for the backend engineer role", "alice@company.com")

	// Policy: 10:00 is before 18:00, so the slot is today at 6 PM.
	assert.Equal(t, time.Date(2025, time.March, 10, 18, 0, 0, 0, time.UTC), calendar.createdReq.Start)
	assert.Equal(t, 60, calendar.createdReq.DurationMinutes)
	assert.Equal(t, "Interview - Jane Doe for Backend Engineer", calendar.createdReq.Subject)
	assert.Equal(t, "alice@company.com", calendar.createdRequester)
	assert.Equal(t, "Jane Doe", calendar.createdDetails.Candidate)

	assert.Contains(t, reply, "Interview scheduled for March 10 at 6:00 PM!")
	assert.Contains(t, reply, "Candidate: Jane Doe")
	assert.Contains(t, reply, "Position: Backend Engineer")
	assert.Contains(t, reply, "Duration: 60 minutes")
	assert.Contains(t, reply, "Calendar invite sent!")
}

func TestHandleTurnScheduleInterviewEvening(t *testing.T) {
	evening := time.Date(2025, time.March, 10, 19, 0, 0, 0, time.UTC)
	oracle := &fakeOracle{output: `{"candidate": "Jane", "position": "SRE"}`}
	calendar := &fakeCalendar{createOutcome: graph.Created("e1")}

	a := newTestAssistant(t, oracle, calendar, evening)
	reply := a.HandleTurn(context.Background(), "schedule an interview with Jane", "")

	assert.Equal(t, time.Date(2025, time.March, 11, 18, 0, 0, 0, time.UTC), calendar.createdReq.Start)
	assert.Contains(t, reply, "March 11 at 6:00 PM")
}

func TestHandleTurnScheduleInterviewOracleDown(t *testing.T) {
	morning := time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)
	oracle := &fakeOracle{err: errors.New("provider unavailable")}
	calendar := &fakeCalendar{createOutcome: graph.Created("e1")}

	a := newTestAssistant(t, oracle, calendar, morning)
	reply := a.HandleTurn(context.Background(), "schedule an interview", "")

	// Extraction degrades to TBD but scheduling still proceeds.
	assert.Equal(t, "Interview - TBD for TBD", calendar.createdReq.Subject)
	assert.Contains(t, reply, "Candidate: TBD")
}

func TestHandleTurnScheduleInterviewGatewayFailure(t *testing.T) {
	morning := time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)
	oracle := &fakeOracle{output: `{"candidate": "Jane", "position": "SRE"}`}
	calendar := &fakeCalendar{createOutcome: graph.Failed("insufficient privileges")}

	a := newTestAssistant(t, oracle, calendar, morning)
	reply := a.HandleTurn(context.Background(), "schedule an interview with Jane", "")

	assert.Equal(t, "Failed to schedule interview: insufficient privileges", reply)
}

func TestHandleTurnCreateMeeting(t *testing.T) {
	morning := time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)
	oracle := &fakeOracle{output: `{"subject": "Roadmap sync", "participants": ["jane@example.com"], "duration": 30}`}
	calendar := &fakeCalendar{createOutcome: graph.Created("e1")}

	a := newTestAssistant(t, oracle, calendar, morning)
	reply := a.HandleTurn(context.Background(), "set up a meeting about the roadmap", "")

	// No datetime extracted, so policy fills the default slot.
	assert.Equal(t, time.Date(2025, time.March, 10, 18, 0, 0, 0, time.UTC), calendar.createdReq.Start)
	assert.Equal(t, 30, calendar.createdReq.DurationMinutes)
	assert.Equal(t, "Roadmap sync", calendar.createdReq.Subject)
	assert.Equal(t, meeting.InterviewDetails{}, calendar.createdDetails)
	assert.Contains(t, reply, "Meeting created: Roadmap sync")
}

func TestHandleTurnListEvents(t *testing.T) {
	now := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	calendar := &fakeCalendar{
		events: []graph.EventSummary{
			{Subject: "Standup", Start: time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)},
			{Subject: "", Start: time.Date(2025, time.March, 10, 14, 0, 0, 0, time.UTC)},
		},
	}

	a := newTestAssistant(t, &fakeOracle{}, calendar, now)
	reply := a.HandleTurn(context.Background(), "what meetings do I have today?", "")

	assert.Contains(t, reply, "Today's meetings:")
	assert.Contains(t, reply, "9:00 AM: Standup")
	assert.Contains(t, reply, "2:00 PM: No subject")
}

func TestHandleTurnListEventsEmpty(t *testing.T) {
	now := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	a := newTestAssistant(t, &fakeOracle{}, &fakeCalendar{}, now)

	reply := a.HandleTurn(context.Background(), "show my calendar", "")

	assert.Equal(t, "No meetings today", reply)
}

func TestHandleTurnListEmails(t *testing.T) {
	now := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	calendar := &fakeCalendar{
		messages: []graph.MessageSummary{
			{Subject: "Quarterly numbers", From: "Bob", Read: false},
			{Subject: "Lunch?", From: "Carol", Read: true},
		},
	}

	a := newTestAssistant(t, &fakeOracle{}, calendar, now)
	reply := a.HandleTurn(context.Background(), "check my inbox", "")

	assert.Equal(t, 5, calendar.listedTop)
	assert.Contains(t, reply, "Recent emails:")
	assert.Contains(t, reply, "Bob: Quarterly numbers (unread)")
	assert.Contains(t, reply, "Carol: Lunch?")
	assert.NotContains(t, reply, "Lunch? (unread)")
}

func TestHandleTurnDelete(t *testing.T) {
	now := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		outcome     graph.Outcome
		wantReply   string
		wantSubject string
	}{
		{
			name:        "deleted",
			outcome:     graph.Deleted("Interview - Jane for SRE"),
			wantReply:   "Meeting deleted: Interview - Jane for SRE",
			wantSubject: "Jane",
		},
		{
			name:        "not found",
			outcome:     graph.NotFound("Jane"),
			wantReply:   "No meeting found with subject: Jane",
			wantSubject: "Jane",
		},
		{
			name:        "ambiguous",
			outcome:     graph.MultipleMatches("Jane", 3),
			wantReply:   `Found 3 meetings matching "Jane". Please be more specific.`,
			wantSubject: "Jane",
		},
		{
			name:        "gateway failure",
			outcome:     graph.Failed("service unavailable"),
			wantReply:   "Failed to delete meeting: service unavailable",
			wantSubject: "Jane",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calendar := &fakeCalendar{deleteOutcome: tt.outcome}
			a := newTestAssistant(t, &fakeOracle{}, calendar, now)

			reply := a.HandleTurn(context.Background(), "delete the meeting with Jane", "")

			assert.Equal(t, tt.wantReply, reply)
			assert.Equal(t, tt.wantSubject, calendar.deletedSubject)
		})
	}
}

func TestHandleTurnGeneralChat(t *testing.T) {
	now := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	oracle := &fakeOracle{output: "Happy to help with your schedule!"}

	a := newTestAssistant(t, oracle, &fakeCalendar{}, now)
	reply := a.HandleTurn(context.Background(), "hello there", "")

	assert.Equal(t, "Happy to help with your schedule!", reply)
	assert.Contains(t, oracle.lastRequest.System, "scheduling assistant")
	assert.Equal(t, "hello there", oracle.lastRequest.User)
	assert.InDelta(t, 0.7, oracle.lastRequest.Temperature, 0.001)
	assert.Equal(t, 150, oracle.lastRequest.MaxTokens)
}

func TestHandleTurnGeneralChatOracleDown(t *testing.T) {
	now := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	oracle := &fakeOracle{err: errors.New("connection refused")}

	a := newTestAssistant(t, oracle, &fakeCalendar{}, now)
	reply := a.HandleTurn(context.Background(), "hello", "")

	assert.Contains(t, reply, "I'm having trouble processing that right now.")
	assert.Contains(t, reply, "connection refused")
}

func TestHandleTurnNeverPanics(t *testing.T) {
	now := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	a := newTestAssistant(t, &fakeOracle{output: `{"candidate":"Jane","position":"SRE"}`}, panicCalendar{}, now)

	var reply string
	require.NotPanics(t, func() {
		reply = a.HandleTurn(context.Background(), "schedule an interview with Jane", "")
	})
	assert.Contains(t, reply, "Error scheduling interview:")
}

// panicCalendar simulates a bug below the orchestrator.
type panicCalendar struct{}

func (panicCalendar) CreateEvent(context.Context, meeting.Request, meeting.InterviewDetails, string) graph.Outcome {
	panic("boom")
}

func (panicCalendar) ListEvents(context.Context, time.Time, time.Time) ([]graph.EventSummary, error) {
	panic("boom")
}

func (panicCalendar) ListMessages(context.Context, int) ([]graph.MessageSummary, error) {
	panic("boom")
}

func (panicCalendar) DeleteEventBySubject(context.Context, string) graph.Outcome {
	panic("boom")
}

func TestDeleteSubject(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"delete the meeting with Jane", "Jane"},
		{"cancel my interview with Bob, please", "Bob"},
		{"remove the event called Roadmap Sync", "Roadmap Sync"},
		{"delete Standup", "Standup"},
		{"delete the meeting", ""},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, deleteSubject(tt.message))
		})
	}
}

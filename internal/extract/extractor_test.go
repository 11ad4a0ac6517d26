package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/teemow/schedassist/internal/llm"
	"github.com/teemow/schedassist/internal/meeting"
)

// fakeOracle returns a canned completion or error.
type fakeOracle struct {
	output string
	err    error

	lastRequest llm.CompletionRequest
}

func (f *fakeOracle) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	f.lastRequest = req
	return f.output, f.err
}

func TestInterviewDetails(t *testing.T) {
	tests := []struct {
		name          string
		output        string
		err           error
		wantDetails   meeting.InterviewDetails
		wantDefaulted bool
	}{
		{
			name:        "clean JSON",
			output:      `{"candidate": "Jane Doe", "position": "Backend Engineer", "interviewer": "Bob"}`,
			wantDetails: meeting.InterviewDetails{Candidate: "Jane Doe", Position: "Backend Engineer", Interviewer: "Bob"},
		},
		{
			name:        "fenced JSON",
			output:      "```json\n{\"candidate\": \"Jane\", \"position\": \"SRE\", \"interviewer\": \"TBD\"}\n```",
			wantDetails: meeting.InterviewDetails{Candidate: "Jane", Position: "SRE", Interviewer: "TBD"},
		},
		{
			name:        "JSON wrapped in prose",
			output:      `Sure! Here is the extraction: {"candidate": "Jane", "position": "SRE"} Hope that helps.`,
			wantDetails: meeting.InterviewDetails{Candidate: "Jane", Position: "SRE", Interviewer: "TBD"},
		},
		{
			name:        "empty fields become TBD",
			output:      `{"candidate": "", "position": "  ", "interviewer": "Bob"}`,
			wantDetails: meeting.InterviewDetails{Candidate: "TBD", Position: "TBD", Interviewer: "Bob"},
		},
		{
			name:          "malformed output",
			output:        "I could not find any interview details in that message.",
			wantDetails:   meeting.DefaultInterviewDetails(),
			wantDefaulted: true,
		},
		{
			name:          "oracle error",
			err:           errors.New("provider unavailable"),
			wantDetails:   meeting.DefaultInterviewDetails(),
			wantDefaulted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := &fakeOracle{output: tt.output, err: tt.err}
			e := NewExtractor(oracle)

			res := e.InterviewDetails(context.Background(), "schedule an interview")

			assert.Equal(t, tt.wantDetails, res.Details)
			assert.Equal(t, tt.wantDefaulted, res.Defaulted)
		})
	}
}

func TestInterviewDetailsPromptCarriesMessage(t *testing.T) {
	oracle := &fakeOracle{output: `{}`}
	e := NewExtractor(oracle)

	e.InterviewDetails(context.Background(), "interview with Jane")

	assert.Contains(t, oracle.lastRequest.User, "interview with Jane")
	assert.InDelta(t, extractionTemperature, oracle.lastRequest.Temperature, 0.001)
}

func TestMeetingRequest(t *testing.T) {
	tests := []struct {
		name          string
		output        string
		err           error
		wantRequest   meeting.Request
		wantDefaulted bool
	}{
		{
			name:   "full extraction",
			output: `{"subject": "Roadmap sync", "participants": ["jane@example.com"], "datetime": "2025-03-10T14:00:00Z", "duration": 30}`,
			wantRequest: meeting.Request{
				Subject:         "Roadmap sync",
				Participants:    []string{"jane@example.com"},
				Start:           time.Date(2025, time.March, 10, 14, 0, 0, 0, time.UTC),
				DurationMinutes: 30,
			},
		},
		{
			name:   "naive datetime",
			output: `{"subject": "Sync", "datetime": "2025-03-10T14:00:00"}`,
			wantRequest: meeting.Request{
				Subject: "Sync",
				Start:   time.Date(2025, time.March, 10, 14, 0, 0, 0, time.UTC),
			},
		},
		{
			name:        "unparsable datetime left zero",
			output:      `{"subject": "Sync", "datetime": "tomorrow evening"}`,
			wantRequest: meeting.Request{Subject: "Sync"},
		},
		{
			name:          "malformed output",
			output:        "no structured data here",
			wantDefaulted: true,
		},
		{
			name:          "oracle error",
			err:           errors.New("timeout"),
			wantDefaulted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := &fakeOracle{output: tt.output, err: tt.err}
			e := NewExtractor(oracle)

			res := e.MeetingRequest(context.Background(), "set up a meeting")

			assert.Equal(t, tt.wantRequest, res.Request)
			assert.Equal(t, tt.wantDefaulted, res.Defaulted)
		})
	}
}

func TestJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", `result: {"a":1} done`, `{"a":1}`},
		{"no object", "nothing here", "nothing here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, jsonObject(tt.in))
		})
	}
}

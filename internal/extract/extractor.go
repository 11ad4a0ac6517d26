package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/teemow/schedassist/internal/llm"
	"github.com/teemow/schedassist/internal/meeting"
)

// extractionTemperature keeps the oracle close to deterministic for
// structured output.
const extractionTemperature = 0.1

// Oracle is the narrow completion interface the extractor depends on.
type Oracle interface {
	Complete(ctx context.Context, req llm.CompletionRequest) (string, error)
}

// InterviewResult is the tagged outcome of interview-detail extraction.
// When Defaulted is true the oracle output was missing or unparsable and
// Details carries the all-TBD fallback; extraction never fails a scheduling
// attempt.
type InterviewResult struct {
	Details   meeting.InterviewDetails
	Defaulted bool
}

// MeetingResult is the tagged outcome of generic meeting extraction. When
// Defaulted is true the request carries only defaults and the scheduling
// policy fills the rest.
type MeetingResult struct {
	Request   meeting.Request
	Defaulted bool
}

// Extractor turns raw chat messages into structured requests using a
// completion oracle, degrading to defaults on any oracle failure.
type Extractor struct {
	oracle Oracle
}

// NewExtractor creates an extractor backed by the given oracle.
func NewExtractor(oracle Oracle) *Extractor {
	return &Extractor{oracle: oracle}
}

// InterviewDetails extracts candidate, position and interviewer from a
// scheduling message. One outbound oracle call, no retries.
func (e *Extractor) InterviewDetails(ctx context.Context, message string) InterviewResult {
	prompt := fmt.Sprintf(`Extract interview details from this message: %q

Return JSON with:
- candidate: candidate name (if mentioned)
- position: job position (if mentioned)
- interviewer: interviewer name (if mentioned)

If not mentioned, use "TBD" as default. Return only the JSON object.`, message)

	out, err := e.oracle.Complete(ctx, llm.CompletionRequest{
		User:        prompt,
		Temperature: extractionTemperature,
	})
	if err != nil {
		return InterviewResult{Details: meeting.DefaultInterviewDetails(), Defaulted: true}
	}

	var parsed struct {
		Candidate   string `json:"candidate"`
		Position    string `json:"position"`
		Interviewer string `json:"interviewer"`
	}
	if err := json.Unmarshal([]byte(jsonObject(out)), &parsed); err != nil {
		return InterviewResult{Details: meeting.DefaultInterviewDetails(), Defaulted: true}
	}

	details := meeting.InterviewDetails{
		Candidate:   orTBD(parsed.Candidate),
		Position:    orTBD(parsed.Position),
		Interviewer: orTBD(parsed.Interviewer),
	}
	return InterviewResult{Details: details}
}

// MeetingRequest extracts subject, participants, datetime and duration for
// the generic meeting-creation path. Unparsable fields are left zero so the
// scheduling policy can fill them.
func (e *Extractor) MeetingRequest(ctx context.Context, message string) MeetingResult {
	prompt := fmt.Sprintf(`Extract meeting details from: %q
Return JSON: {"subject": "...", "participants": ["email"], "datetime": "ISO format", "duration": 60}
Omit fields that are not mentioned. Return only the JSON object.`, message)

	out, err := e.oracle.Complete(ctx, llm.CompletionRequest{
		User:        prompt,
		Temperature: extractionTemperature,
	})
	if err != nil {
		return MeetingResult{Defaulted: true}
	}

	var parsed struct {
		Subject      string   `json:"subject"`
		Participants []string `json:"participants"`
		Datetime     string   `json:"datetime"`
		Duration     int      `json:"duration"`
	}
	if err := json.Unmarshal([]byte(jsonObject(out)), &parsed); err != nil {
		return MeetingResult{Defaulted: true}
	}

	req := meeting.Request{
		Subject:         parsed.Subject,
		Participants:    parsed.Participants,
		DurationMinutes: parsed.Duration,
	}
	if parsed.Datetime != "" {
		if t, ok := parseDatetime(parsed.Datetime); ok {
			req.Start = t
		}
	}
	return MeetingResult{Request: req}
}

// parseDatetime accepts RFC 3339 as well as the naive ISO form the oracle
// tends to produce.
func parseDatetime(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// jsonObject strips markdown code fences and surrounding prose, returning
// the first balanced-looking JSON object in the oracle output.
func jsonObject(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}

func orTBD(s string) string {
	if strings.TrimSpace(s) == "" {
		return meeting.TBD
	}
	return s
}

package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teemow/schedassist/internal/extract"
	"github.com/teemow/schedassist/internal/graph"
	"github.com/teemow/schedassist/internal/instrumentation"
	"github.com/teemow/schedassist/internal/intent"
	"github.com/teemow/schedassist/internal/llm"
	"github.com/teemow/schedassist/internal/logging"
	"github.com/teemow/schedassist/internal/meeting"
	"github.com/teemow/schedassist/internal/schedule"
)

// generalSystemPrompt instructs the oracle for the conversational path.
const generalSystemPrompt = "You are a helpful scheduling assistant. Be friendly and concise. " +
	"If someone mentions scheduling interviews or meetings, offer to help schedule them at 6 PM."

// Oracle is the completion interface used for extraction and general chat.
type Oracle interface {
	Complete(ctx context.Context, req llm.CompletionRequest) (string, error)
}

// Calendar is the calendar gateway interface the orchestrator dispatches to.
type Calendar interface {
	CreateEvent(ctx context.Context, req meeting.Request, details meeting.InterviewDetails, requester string) graph.Outcome
	ListEvents(ctx context.Context, windowStart, windowEnd time.Time) ([]graph.EventSummary, error)
	ListMessages(ctx context.Context, top int) ([]graph.MessageSummary, error)
	DeleteEventBySubject(ctx context.Context, subject string) graph.Outcome
}

// Config configures the assistant.
type Config struct {
	// Oracle handles completion calls; required.
	Oracle Oracle

	// Calendar handles calendar and mail operations; required.
	Calendar Calendar

	// Clock defaults to the system clock in UTC.
	Clock schedule.Clock

	// Classifier defaults to the built-in keyword classifier.
	Classifier *intent.Classifier

	// Logger defaults to slog.Default.
	Logger *slog.Logger

	// Metrics records turn metrics; may be nil.
	Metrics *instrumentation.Metrics
}

// Assistant routes one chat turn at a time to the scheduling flow or a
// conversational reply. It holds no state across turns; multi-turn history,
// if any, is owned by the chat surface.
type Assistant struct {
	oracle     Oracle
	calendar   Calendar
	extractor  *extract.Extractor
	clock      schedule.Clock
	classifier *intent.Classifier
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
}

// New creates an assistant from the given configuration.
func New(cfg Config) (*Assistant, error) {
	if cfg.Oracle == nil {
		return nil, fmt.Errorf("oracle is required")
	}
	if cfg.Calendar == nil {
		return nil, fmt.Errorf("calendar is required")
	}
	if cfg.Clock == nil {
		cfg.Clock = schedule.SystemClock{}
	}
	if cfg.Classifier == nil {
		cfg.Classifier = intent.NewClassifier()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Assistant{
		oracle:     cfg.Oracle,
		calendar:   cfg.Calendar,
		extractor:  extract.NewExtractor(cfg.Oracle),
		clock:      cfg.Clock,
		classifier: cfg.Classifier,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
	}, nil
}

// HandleTurn processes one user message and always returns a reply string;
// every failure from extraction, policy or the gateway is rendered as a
// user-visible message and never propagated.
func (a *Assistant) HandleTurn(ctx context.Context, message, requester string) (reply string) {
	in := a.classifier.Classify(message)
	logger := logging.WithTurn(a.logger, uuid.NewString())
	start := time.Now()
	ok := true

	ctx, span := instrumentation.StartTurnSpan(ctx, string(in))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			ok = false
			reply = fmt.Sprintf("Error scheduling interview: %v", r)
		}
		status := logging.StatusSuccess
		if !ok {
			status = logging.StatusError
			instrumentation.SetSpanError(span, fmt.Errorf("%s", reply))
		} else {
			instrumentation.SetSpanSuccess(span)
		}
		a.metrics.RecordTurn(ctx, string(in), status, time.Since(start))
		logger.Info("turn handled",
			logging.Intent(string(in)),
			logging.Status(status),
			logging.UserHash(requester))
	}()

	switch in {
	case intent.Schedule:
		if strings.Contains(strings.ToLower(message), "interview") {
			reply, ok = a.scheduleInterview(ctx, logger, message, requester)
		} else {
			reply, ok = a.createMeeting(ctx, logger, message, requester)
		}
	case intent.ListEvents:
		reply, ok = a.listEvents(ctx)
	case intent.ListEmails:
		reply, ok = a.listEmails(ctx)
	case intent.Delete:
		reply, ok = a.deleteMeeting(ctx, message)
	default:
		reply, ok = a.generalChat(ctx, message)
	}
	return reply
}

// scheduleInterview runs the interview flow: extract details, resolve the
// default slot and create the event.
func (a *Assistant) scheduleInterview(ctx context.Context, logger *slog.Logger, message, requester string) (string, bool) {
	res := a.extractor.InterviewDetails(ctx, message)
	if res.Defaulted {
		logger.Warn("extraction degraded to defaults", logging.Operation("extract_interview"))
	}

	slot := schedule.ResolveSlot(a.clock.Now(), schedule.DefaultSlot)
	req := meeting.Request{
		Subject:         res.Details.Subject(),
		Start:           slot,
		DurationMinutes: meeting.DefaultDurationMinutes,
		TimeZone:        meeting.TimeZone,
	}

	outcome := a.calendar.CreateEvent(ctx, req, res.Details, requester)
	if outcome.Kind != graph.OutcomeCreated {
		return "Failed to schedule interview: " + outcome.ProviderMessage, false
	}
	return interviewScheduledReply(slot, res.Details), true
}

// createMeeting runs the generic meeting flow: extract what was given and
// let the scheduling policy fill the rest.
func (a *Assistant) createMeeting(ctx context.Context, logger *slog.Logger, message, requester string) (string, bool) {
	res := a.extractor.MeetingRequest(ctx, message)
	if res.Defaulted {
		logger.Warn("extraction degraded to defaults", logging.Operation("extract_meeting"))
	}

	req := res.Request
	schedule.Apply(&req, a.clock.Now())

	outcome := a.calendar.CreateEvent(ctx, req, meeting.InterviewDetails{}, requester)
	if outcome.Kind != graph.OutcomeCreated {
		return "Failed to create meeting: " + outcome.ProviderMessage, false
	}
	return meetingCreatedReply(req), true
}

// listEvents formats the next 24 hours of calendar events.
func (a *Assistant) listEvents(ctx context.Context) (string, bool) {
	now := a.clock.Now()
	events, err := a.calendar.ListEvents(ctx, now, now.Add(24*time.Hour))
	if err != nil {
		return "Failed to read calendar: " + err.Error(), false
	}
	return eventListReply(events), true
}

// listEmails formats the most recent inbox messages.
func (a *Assistant) listEmails(ctx context.Context) (string, bool) {
	messages, err := a.calendar.ListMessages(ctx, 5)
	if err != nil {
		return "Failed to read emails: " + err.Error(), false
	}
	return emailListReply(messages), true
}

// deleteMeeting deletes the event whose subject matches the message.
func (a *Assistant) deleteMeeting(ctx context.Context, message string) (string, bool) {
	subject := deleteSubject(message)
	if subject == "" {
		return "Please tell me which meeting to delete.", false
	}

	outcome := a.calendar.DeleteEventBySubject(ctx, subject)
	switch outcome.Kind {
	case graph.OutcomeDeleted:
		return "Meeting deleted: " + outcome.Subject, true
	case graph.OutcomeNotFound:
		return "No meeting found with subject: " + subject, true
	case graph.OutcomeMultipleMatches:
		return fmt.Sprintf("Found %d meetings matching %q. Please be more specific.", outcome.Matches, subject), true
	default:
		return "Failed to delete meeting: " + outcome.ProviderMessage, false
	}
}

// generalChat forwards the message to the oracle with the fixed system
// instruction.
func (a *Assistant) generalChat(ctx context.Context, message string) (string, bool) {
	out, err := a.oracle.Complete(ctx, llm.CompletionRequest{
		System:      generalSystemPrompt,
		User:        message,
		Temperature: 0.7,
		MaxTokens:   150,
	})
	if err != nil {
		return "I'm having trouble processing that right now. Error: " + err.Error(), false
	}
	return out, true
}

// fillerWords are stripped from delete requests to isolate the subject.
var fillerWords = map[string]bool{
	"delete": true, "cancel": true, "remove": true, "please": true,
	"my": true, "the": true, "a": true, "an": true,
	"meeting": true, "meetings": true, "event": true, "interview": true,
	"with": true, "for": true, "called": true, "named": true, "titled": true,
}

// deleteSubject derives the subject search term from a delete request by
// dropping command and filler words while preserving the original casing of
// what remains.
func deleteSubject(message string) string {
	var kept []string
	for _, word := range strings.Fields(message) {
		trimmed := strings.Trim(word, ".,!?\"'")
		if trimmed == "" || fillerWords[strings.ToLower(trimmed)] {
			continue
		}
		kept = append(kept, trimmed)
	}
	return strings.Join(kept, " ")
}

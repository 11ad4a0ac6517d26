package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/teemow/schedassist/internal/instrumentation"
	"github.com/teemow/schedassist/internal/logging"
	"github.com/teemow/schedassist/internal/meeting"
)

const (
	// DefaultBaseURL is the Microsoft Graph v1.0 endpoint.
	DefaultBaseURL = "https://graph.microsoft.com/v1.0"

	// DefaultTimeout bounds a single Graph call.
	DefaultTimeout = 15 * time.Second

	serviceName = "graph"
)

// Config configures the Graph gateway client.
type Config struct {
	// TokenSource supplies bearer tokens; required.
	TokenSource oauth2.TokenSource

	// BaseURL overrides the Graph endpoint, mainly for tests.
	BaseURL string

	// HRRecipient is the organizer-side address added as a required
	// attendee to every created event. May be empty.
	HRRecipient string

	// Timeout bounds each HTTP call; defaults to DefaultTimeout.
	Timeout time.Duration

	// Logger defaults to slog.Default.
	Logger *slog.Logger

	// Metrics records provider-call metrics; may be nil.
	Metrics *instrumentation.Metrics
}

// Client translates normalized meeting requests into Microsoft Graph calls.
// It is stateless except for the token source, which owns the cached
// bearer token.
type Client struct {
	baseURL    string
	hr         string
	tokens     oauth2.TokenSource
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
}

// NewClient creates a Graph gateway client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.TokenSource == nil {
		return nil, fmt.Errorf("token source is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		hr:         cfg.HRRecipient,
		tokens:     cfg.TokenSource,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logging.WithService(cfg.Logger, serviceName),
		metrics:    cfg.Metrics,
	}, nil
}

// CreateEvent creates a calendar event for the given request. The interview
// details and requester are embedded in the event body; the configured HR
// recipient and all request participants are invited as required attendees.
// HTTP 201 maps to Created, anything else to Failed with the provider
// response verbatim.
func (c *Client) CreateEvent(ctx context.Context, req meeting.Request, details meeting.InterviewDetails, requester string) Outcome {
	if !req.Resolved() {
		return Failed("meeting request has no start time")
	}

	ctx, span := instrumentation.StartProviderSpan(ctx, serviceName, "create_event")
	defer span.End()

	payload := c.buildEventPayload(req, details, requester)
	body, err := json.Marshal(payload)
	if err != nil {
		return Failed(fmt.Sprintf("failed to encode event: %v", err))
	}

	start := time.Now()
	resp, err := c.do(ctx, http.MethodPost, c.baseURL+"/me/events", bytes.NewReader(body))
	if err != nil {
		c.record(ctx, "create_event", instrumentation.StatusError, start)
		return failedFromErr(err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusCreated {
		c.record(ctx, "create_event", instrumentation.StatusError, start)
		c.logger.Warn("event creation rejected",
			logging.Operation("create_event"),
			slog.Int("status_code", resp.StatusCode))
		return Failed(strings.TrimSpace(string(raw)))
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &created); err != nil {
		c.record(ctx, "create_event", instrumentation.StatusError, start)
		return Failed(fmt.Sprintf("failed to decode create response: %v", err))
	}

	c.record(ctx, "create_event", instrumentation.StatusSuccess, start)
	c.logger.Info("event created",
		logging.Operation("create_event"),
		slog.String("event_id", created.ID))
	return Created(created.ID)
}

// ListEvents returns the events in the given window. An empty window is a
// valid result, distinct from an error.
func (c *Client) ListEvents(ctx context.Context, windowStart, windowEnd time.Time) ([]EventSummary, error) {
	ctx, span := instrumentation.StartProviderSpan(ctx, serviceName, "list_events")
	defer span.End()

	q := url.Values{}
	q.Set("startDateTime", windowStart.UTC().Format(time.RFC3339))
	q.Set("endDateTime", windowEnd.UTC().Format(time.RFC3339))

	start := time.Now()
	resp, err := c.do(ctx, http.MethodGet, c.baseURL+"/me/calendarview?"+q.Encode(), nil)
	if err != nil {
		c.record(ctx, "list_events", instrumentation.StatusError, start)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.record(ctx, "list_events", instrumentation.StatusError, start)
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to list events: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var list listResponse[eventResource]
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		c.record(ctx, "list_events", instrumentation.StatusError, start)
		return nil, fmt.Errorf("failed to decode event list: %w", err)
	}

	summaries := make([]EventSummary, 0, len(list.Value))
	for _, e := range list.Value {
		summaries = append(summaries, toEventSummary(e))
	}
	c.record(ctx, "list_events", instrumentation.StatusSuccess, start)
	return summaries, nil
}

// ListMessages returns the most recent inbox messages, newest first.
func (c *Client) ListMessages(ctx context.Context, top int) ([]MessageSummary, error) {
	if top <= 0 {
		top = 5
	}

	ctx, span := instrumentation.StartProviderSpan(ctx, serviceName, "list_messages")
	defer span.End()

	q := url.Values{}
	q.Set("$top", strconv.Itoa(top))
	q.Set("$select", "subject,from,isRead")

	start := time.Now()
	resp, err := c.do(ctx, http.MethodGet, c.baseURL+"/me/messages?"+q.Encode(), nil)
	if err != nil {
		c.record(ctx, "list_messages", instrumentation.StatusError, start)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.record(ctx, "list_messages", instrumentation.StatusError, start)
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to list messages: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var list listResponse[messageResource]
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		c.record(ctx, "list_messages", instrumentation.StatusError, start)
		return nil, fmt.Errorf("failed to decode message list: %w", err)
	}

	summaries := make([]MessageSummary, 0, len(list.Value))
	for _, m := range list.Value {
		summaries = append(summaries, toMessageSummary(m))
	}
	c.record(ctx, "list_messages", instrumentation.StatusSuccess, start)
	return summaries, nil
}

// DeleteEventBySubject searches events whose subject contains the given
// substring and deletes the match. Zero matches map to NotFound, more than
// one to MultipleMatches so the caller can ask the user to disambiguate.
func (c *Client) DeleteEventBySubject(ctx context.Context, subject string) Outcome {
	ctx, span := instrumentation.StartProviderSpan(ctx, serviceName, "delete_event")
	defer span.End()

	filter := fmt.Sprintf("contains(subject,'%s')", escapeODataString(subject))
	q := url.Values{}
	q.Set("$filter", filter)

	start := time.Now()
	resp, err := c.do(ctx, http.MethodGet, c.baseURL+"/me/events?"+q.Encode(), nil)
	if err != nil {
		c.record(ctx, "delete_event", instrumentation.StatusError, start)
		return failedFromErr(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.record(ctx, "delete_event", instrumentation.StatusError, start)
		raw, _ := io.ReadAll(resp.Body)
		return Failed(strings.TrimSpace(string(raw)))
	}

	var list listResponse[eventResource]
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		c.record(ctx, "delete_event", instrumentation.StatusError, start)
		return Failed(fmt.Sprintf("failed to decode search response: %v", err))
	}

	switch len(list.Value) {
	case 0:
		c.record(ctx, "delete_event", instrumentation.StatusSuccess, start)
		return NotFound(subject)
	case 1:
		// fall through to delete
	default:
		c.record(ctx, "delete_event", instrumentation.StatusSuccess, start)
		return MultipleMatches(subject, len(list.Value))
	}

	match := list.Value[0]
	delResp, err := c.do(ctx, http.MethodDelete, c.baseURL+"/me/events/"+url.PathEscape(match.ID), nil)
	if err != nil {
		c.record(ctx, "delete_event", instrumentation.StatusError, start)
		return failedFromErr(err)
	}
	defer delResp.Body.Close()

	if delResp.StatusCode != http.StatusNoContent {
		c.record(ctx, "delete_event", instrumentation.StatusError, start)
		raw, _ := io.ReadAll(delResp.Body)
		return Failed(strings.TrimSpace(string(raw)))
	}

	c.record(ctx, "delete_event", instrumentation.StatusSuccess, start)
	c.logger.Info("event deleted",
		logging.Operation("delete_event"),
		slog.String("event_id", match.ID))
	return Deleted(match.Subject)
}

// buildEventPayload assembles the Graph event body for a meeting request.
func (c *Client) buildEventPayload(req meeting.Request, details meeting.InterviewDetails, requester string) eventPayload {
	attendees := make([]attendee, 0, len(req.Participants)+1)
	if c.hr != "" {
		attendees = append(attendees, attendee{
			EmailAddress: emailAddress{Address: c.hr, Name: "HR Team"},
			Type:         "required",
		})
	}
	for _, p := range req.Participants {
		attendees = append(attendees, attendee{
			EmailAddress: emailAddress{Address: p},
			Type:         "required",
		})
	}

	tz := req.TimeZone
	if tz == "" {
		tz = meeting.TimeZone
	}

	return eventPayload{
		Subject: req.Subject,
		Body: itemBody{
			ContentType: "HTML",
			Content:     eventBodyHTML(req, details, requester),
		},
		Start:                 dateTimeTimeZone{DateTime: req.Start.Format(graphTimeLayout), TimeZone: tz},
		End:                   dateTimeTimeZone{DateTime: req.End().Format(graphTimeLayout), TimeZone: tz},
		Attendees:             attendees,
		IsOnlineMeeting:       true,
		OnlineMeetingProvider: "teamsForBusiness",
	}
}

// eventBodyHTML renders the event description with the scheduling metadata.
// Zero-value interview details indicate a generic meeting; the interview
// section is omitted.
func eventBodyHTML(req meeting.Request, details meeting.InterviewDetails, requester string) string {
	var b strings.Builder
	if details != (meeting.InterviewDetails{}) {
		b.WriteString("<h3>Interview Details</h3>")
		fmt.Fprintf(&b, "<p><strong>Candidate:</strong> %s</p>", html.EscapeString(details.Candidate))
		fmt.Fprintf(&b, "<p><strong>Position:</strong> %s</p>", html.EscapeString(details.Position))
	} else {
		b.WriteString("<h3>Meeting Details</h3>")
	}
	if requester != "" {
		fmt.Fprintf(&b, "<p><strong>Requested by:</strong> %s</p>", html.EscapeString(requester))
	}
	fmt.Fprintf(&b, "<p><strong>Duration:</strong> %d minutes</p>", req.DurationMinutes)
	return b.String()
}

// do issues an authenticated request. The token source refreshes the cached
// token only when it is missing or expired; there is no retry-with-refresh
// on a 401.
func (c *Client) do(ctx context.Context, method, rawURL string, body io.Reader) (*http.Response, error) {
	token, err := c.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("auth unavailable: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	token.SetAuthHeader(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

func (c *Client) record(ctx context.Context, operation, status string, start time.Time) {
	c.metrics.RecordProviderCall(ctx, serviceName, operation, status, time.Since(start))
}

// failedFromErr maps transport errors to a failure outcome, collapsing
// deadline expiry into the canonical "timeout" provider message.
func failedFromErr(err error) Outcome {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return Failed("timeout")
	}
	return Failed(err.Error())
}

// escapeODataString doubles single quotes per OData string literal rules.
func escapeODataString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

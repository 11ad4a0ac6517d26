package graph

// OutcomeKind tags the result of a calendar mutation.
type OutcomeKind string

const (
	// OutcomeCreated means the event was created; EventID is set.
	OutcomeCreated OutcomeKind = "created"
	// OutcomeDeleted means the matched event was deleted.
	OutcomeDeleted OutcomeKind = "deleted"
	// OutcomeNotFound means no event matched; distinct from a failure.
	OutcomeNotFound OutcomeKind = "not_found"
	// OutcomeMultipleMatches means more than one event matched a
	// delete-by-subject search; the caller decides how to disambiguate.
	OutcomeMultipleMatches OutcomeKind = "multiple_matches"
	// OutcomeFailed means the provider rejected the call or was
	// unreachable; ProviderMessage carries the provider response verbatim.
	OutcomeFailed OutcomeKind = "failed"
)

// Outcome is the tagged result of a calendar gateway operation.
type Outcome struct {
	Kind            OutcomeKind
	EventID         string
	Subject         string
	Matches         int
	ProviderMessage string
}

// OK reports whether the operation mutated the calendar as requested.
func (o Outcome) OK() bool {
	return o.Kind == OutcomeCreated || o.Kind == OutcomeDeleted
}

// Created returns a successful create outcome.
func Created(eventID string) Outcome {
	return Outcome{Kind: OutcomeCreated, EventID: eventID}
}

// Deleted returns a successful delete outcome.
func Deleted(subject string) Outcome {
	return Outcome{Kind: OutcomeDeleted, Subject: subject}
}

// NotFound returns a no-match outcome for the given subject search.
func NotFound(subject string) Outcome {
	return Outcome{Kind: OutcomeNotFound, Subject: subject}
}

// MultipleMatches returns an ambiguous-match outcome.
func MultipleMatches(subject string, matches int) Outcome {
	return Outcome{Kind: OutcomeMultipleMatches, Subject: subject, Matches: matches}
}

// Failed returns a failure outcome carrying the provider message.
func Failed(message string) Outcome {
	return Outcome{Kind: OutcomeFailed, ProviderMessage: message}
}

package intent

import "strings"

// Intent is the classified purpose of a chat message.
type Intent string

const (
	// Schedule indicates the user wants a meeting or interview created.
	Schedule Intent = "schedule"
	// ListEvents indicates the user wants to see upcoming calendar events.
	ListEvents Intent = "list_events"
	// ListEmails indicates the user wants to see recent emails.
	ListEmails Intent = "list_emails"
	// Delete indicates the user wants an existing meeting removed.
	Delete Intent = "delete"
	// General is the fallback for anything that is not a calendar action.
	General Intent = "general"
)

// order determines which keyword set wins when a message matches several.
// Delete is checked before Schedule so that "delete my meeting" is not
// treated as a scheduling request.
var order = []Intent{Delete, ListEmails, ListEvents, Schedule}

// defaultKeywords is the built-in keyword set per intent. Matching is
// case-insensitive substring containment.
var defaultKeywords = map[Intent][]string{
	Delete:     {"delete", "cancel", "remove the meeting"},
	ListEmails: {"email", "inbox", "mail"},
	ListEvents: {"calendar", "agenda", "what meetings", "my meetings", "events today"},
	Schedule:   {"interview", "schedule", "meeting", "6 pm", "6pm"},
}

// Classifier assigns an Intent to a raw chat message based on keyword sets.
// It is a pure function of its configuration and the message text.
type Classifier struct {
	keywords map[Intent][]string
}

// NewClassifier returns a classifier with the default keyword sets.
func NewClassifier() *Classifier {
	return NewClassifierWithKeywords(defaultKeywords)
}

// NewClassifierWithKeywords returns a classifier using the given keyword
// sets. Intents absent from the map never match.
func NewClassifierWithKeywords(keywords map[Intent][]string) *Classifier {
	kw := make(map[Intent][]string, len(keywords))
	for in, words := range keywords {
		lowered := make([]string, len(words))
		for i, w := range words {
			lowered[i] = strings.ToLower(w)
		}
		kw[in] = lowered
	}
	return &Classifier{keywords: kw}
}

// Classify returns the intent of the message, or General if no keyword set
// matches.
func (c *Classifier) Classify(message string) Intent {
	lower := strings.ToLower(message)
	for _, in := range order {
		for _, kw := range c.keywords[in] {
			if strings.Contains(lower, kw) {
				return in
			}
		}
	}
	return General
}

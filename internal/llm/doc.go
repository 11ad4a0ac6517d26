// Package llm provides a minimal chat-completion client used as a
// best-effort structured-extraction oracle and for general conversational
// replies.
//
// Calls are single-attempt with a bounded timeout; the client never retries.
package llm

// Package assistant orchestrates one chat turn: classify the message,
// dispatch to the scheduling flow or a conversational reply, and render the
// result as user-facing text.
//
// The orchestrator is stateless across turns and never lets a fault escape
// to the chat surface; every failure becomes a reply string.
package assistant

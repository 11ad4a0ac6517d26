// Package graph is the calendar gateway adapter for the Microsoft Graph
// REST API.
//
// It translates normalized meeting requests into the provider event schema
// and maps HTTP status codes to tagged Outcome values:
//   - POST /me/events        201 -> Created, otherwise Failed
//   - GET  /me/calendarview  event listing within a time window
//   - GET  /me/messages      recent inbox messages
//   - DELETE /me/events/{id} 204 -> Deleted; no match -> NotFound;
//     several matches -> MultipleMatches
//
// Authentication uses app-only bearer tokens from an oauth2.TokenSource.
// The source caches the current token and refreshes it only when missing or
// expired; the adapter deliberately does not retry a rejected call with a
// fresh token.
package graph

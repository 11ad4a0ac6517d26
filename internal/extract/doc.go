// Package extract derives structured meeting and interview requests from
// free-text chat messages using an LLM oracle.
//
// The oracle is best-effort: malformed or non-JSON output degrades to a
// default-filled result tagged Defaulted instead of an error, so extraction
// can never abort a scheduling attempt.
package extract
